package reviews

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type ReviewsStorage interface {
	Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error)
	ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	ListForTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int, error)
	Update(ctx context.Context, titleID, reviewID int64, text string, score int32) (*models.Review, error)
	Delete(ctx context.Context, titleID, reviewID int64) error
}

type CommentsStorage interface {
	Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error)
	Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error)
	ListForReview(ctx context.Context, reviewID int64, limit, offset int) ([]models.Comment, int, error)
	Update(ctx context.Context, reviewID, commentID int64, text string) (*models.Comment, error)
	Delete(ctx context.Context, reviewID, commentID int64) error
}

// TitlesStorage is the slice of the catalog storage the review service
// needs to check parent existence.
type TitlesStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
}

type ReviewService struct {
	log      *slog.Logger
	storage  ReviewsStorage
	comments CommentsStorage
	titles   TitlesStorage
}

func New(log *slog.Logger, reviewsStorage ReviewsStorage, commentsStorage CommentsStorage, titlesStorage TitlesStorage) *ReviewService {
	return &ReviewService{
		log:      log,
		storage:  reviewsStorage,
		comments: commentsStorage,
		titles:   titlesStorage,
	}
}

func (s *ReviewService) checkTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

// Create rejects a second review by the same author on the same title.
// The unique constraint on (author_id, title_id) stays the final authority
// for concurrent creations; the pre-check only shapes the common error.
func (s *ReviewService) Create(ctx context.Context, titleID int64, author *models.User, text string, score int32) (*models.Review, error) {
	const op = "reviews.ReviewService.Create"
	log := s.log.With("op", op, "title_id", titleID, "author", author.Username)
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}
	exists, err := s.storage.ExistsForAuthor(ctx, titleID, author.ID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if exists {
		log.Info("duplicate review rejected")
		return nil, ErrReviewExists
	}
	review, err := s.storage.Insert(ctx, titleID, author.ID, text, score)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("duplicate review rejected by constraint")
			return nil, ErrReviewExists
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	const op = "reviews.ReviewService.Get"
	review, err := s.storage.Get(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) List(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	const op = "reviews.ReviewService.List"
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.storage.ListForTitle(ctx, titleID, f.Limit(), f.Offset())
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewService) Update(ctx context.Context, titleID, reviewID int64, text *string, score *int32) (*models.Review, error) {
	const op = "reviews.ReviewService.Update"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	review, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if text != nil {
		review.Text = *text
	}
	if score != nil {
		review.Score = *score
	}
	updated, err := s.storage.Update(ctx, titleID, reviewID, review.Text, review.Score)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, titleID, reviewID int64) error {
	const op = "reviews.ReviewService.Delete"
	if err := s.storage.Delete(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}

// checkReview verifies the review exists and belongs to the title.
func (s *ReviewService) checkReview(ctx context.Context, titleID, reviewID int64) error {
	_, err := s.Get(ctx, titleID, reviewID)
	return err
}

func (s *ReviewService) CreateComment(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.CreateComment"
	log := s.log.With("op", op, "review_id", reviewID, "author", author.Username)
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Insert(ctx, reviewID, author.ID, text)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	const op = "reviews.ReviewService.GetComment"
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Get(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID int64, f filters.Filters) ([]models.Comment, int, error) {
	const op = "reviews.ReviewService.ListComments"
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.comments.ListForReview(ctx, reviewID, f.Limit(), f.Offset())
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, titleID, reviewID, commentID int64, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.UpdateComment"
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Update(ctx, reviewID, commentID, text)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, titleID, reviewID, commentID int64) error {
	const op = "reviews.ReviewService.DeleteComment"
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, reviewID, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}
