package catalog

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type CategoriesStorage interface {
	Insert(ctx context.Context, name, slug string) (*models.Category, error)
	List(ctx context.Context, search string) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type GenresStorage interface {
	Insert(ctx context.Context, name, slug string) (*models.Genre, error)
	List(ctx context.Context, search string) ([]models.Genre, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type TitlesStorage interface {
	Insert(ctx context.Context, name string, year int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, f filters.TitleFilters) ([]models.Title, int, error)
	Update(ctx context.Context, id int64, name string, year int32, description string, categoryID *int64, genreIDs []int64, setGenres bool) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type CatalogService struct {
	log        *slog.Logger
	categories CategoriesStorage
	genres     GenresStorage
	titles     TitlesStorage
}

func New(log *slog.Logger, categories CategoriesStorage, genres GenresStorage, titles TitlesStorage) *CatalogService {
	return &CatalogService{
		log:        log,
		categories: categories,
		genres:     genres,
		titles:     titles,
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	const op = "catalog.CatalogService.CreateCategory"
	log := s.log.With("op", op, "slug", slug)
	category, err := s.categories.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("category already exists")
			return nil, ErrCategoryExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, search string) ([]models.Category, error) {
	const op = "catalog.CatalogService.ListCategories"
	categories, err := s.categories.List(ctx, search)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return categories, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteCategory"
	log := s.log.With("op", op, "slug", slug)
	if err := s.categories.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("category not found")
			return ErrCategoryNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) CreateGenre(ctx context.Context, name, slug string) (*models.Genre, error) {
	const op = "catalog.CatalogService.CreateGenre"
	log := s.log.With("op", op, "slug", slug)
	genre, err := s.genres.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("genre already exists")
			return nil, ErrGenreExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) ListGenres(ctx context.Context, search string) ([]models.Genre, error) {
	const op = "catalog.CatalogService.ListGenres"
	genres, err := s.genres.List(ctx, search)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return genres, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteGenre"
	log := s.log.With("op", op, "slug", slug)
	if err := s.genres.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return ErrGenreNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

// TitleInput is the write representation of a title: category and genres
// are referenced by slug.
type TitleInput struct {
	Name         string
	Year         int32
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// resolveRefs maps the slug references of input to stored ids.
func (s *CatalogService) resolveRefs(ctx context.Context, input TitleInput) (categoryID *int64, genreIDs []int64, err error) {
	if input.CategorySlug != "" {
		category, err := s.categories.GetBySlug(ctx, input.CategorySlug)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil, ErrCategoryNotFound
			}
			return nil, nil, err
		}
		categoryID = &category.ID
	}
	if len(input.GenreSlugs) > 0 {
		genres, err := s.genres.GetBySlugs(ctx, input.GenreSlugs)
		if err != nil {
			return nil, nil, err
		}
		if len(genres) != len(input.GenreSlugs) {
			return nil, nil, ErrGenreNotFound
		}
		for _, g := range genres {
			genreIDs = append(genreIDs, g.ID)
		}
	}
	return categoryID, genreIDs, nil
}

func (s *CatalogService) CreateTitle(ctx context.Context, input TitleInput) (*models.Title, error) {
	const op = "catalog.CatalogService.CreateTitle"
	log := s.log.With("op", op, "name", input.Name, "year", input.Year)
	categoryID, genreIDs, err := s.resolveRefs(ctx, input)
	if err != nil {
		return nil, err
	}
	title, err := s.titles.Insert(ctx, input.Name, input.Year, input.Description, categoryID, genreIDs)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("title already exists")
			return nil, ErrTitleExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id int64) (*models.Title, error) {
	const op = "catalog.CatalogService.GetTitle"
	log := s.log.With("op", op, "id", id)
	title, err := s.titles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *CatalogService) ListTitles(ctx context.Context, f filters.TitleFilters) ([]models.Title, int, error) {
	const op = "catalog.CatalogService.ListTitles"
	titles, total, err := s.titles.List(ctx, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return titles, total, nil
}

// TitleUpdate carries a partial title update; nil fields stay unchanged.
type TitleUpdate struct {
	Name         *string
	Year         *int32
	Description  *string
	CategorySlug *string
	GenreSlugs   []string
}

func (s *CatalogService) UpdateTitle(ctx context.Context, id int64, update TitleUpdate) (*models.Title, error) {
	const op = "catalog.CatalogService.UpdateTitle"
	log := s.log.With("op", op, "id", id)
	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		title.Name = *update.Name
	}
	if update.Year != nil {
		title.Year = *update.Year
	}
	if update.Description != nil {
		title.Description = *update.Description
	}
	var categoryID *int64
	if title.Category != nil {
		categoryID = &title.Category.ID
	}
	var genreIDs []int64
	if update.CategorySlug != nil || update.GenreSlugs != nil {
		input := TitleInput{GenreSlugs: update.GenreSlugs}
		if update.CategorySlug != nil {
			input.CategorySlug = *update.CategorySlug
		}
		newCategoryID, newGenreIDs, err := s.resolveRefs(ctx, input)
		if err != nil {
			return nil, err
		}
		if update.CategorySlug != nil {
			categoryID = newCategoryID
		}
		genreIDs = newGenreIDs
	}
	updated, err := s.titles.Update(ctx, id, title.Name, title.Year, title.Description, categoryID, genreIDs, update.GenreSlugs != nil)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("title already exists")
			return nil, ErrTitleExists
		case errors.Is(err, storage.ErrNotFound):
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteTitle(ctx context.Context, id int64) error {
	const op = "catalog.CatalogService.DeleteTitle"
	log := s.log.With("op", op, "id", id)
	if err := s.titles.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrTitleNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
