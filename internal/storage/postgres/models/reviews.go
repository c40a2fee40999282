package models

import (
	"context"
	"errors"

	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
	"reviewhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewModel struct {
	DB *pgxpool.Pool
}

const reviewColumns = `r.id, r.title_id, r.author_id, u.username AS author, r.text, r.score, r.created_at`

func (m *ReviewModel) Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO reviews (title_id, author_id, text, score) VALUES ($1, $2, $3, $4) RETURNING id`,
		titleID,
		authorID,
		text,
		score,
	)
	id, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		switch {
		case postgres.IsErrCode(err, postgres.ErrConflictCode):
			return nil, storage.ErrConflict
		case postgres.IsErrCode(err, postgres.ErrForeignKeyCode):
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return m.Get(ctx, titleID, id)
}

// ExistsForAuthor reports whether the author already reviewed the title.
func (m *ReviewModel) ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM reviews WHERE title_id = $1 AND author_id = $2)",
		titleID,
		authorID,
	).Scan(&exists)
	return exists, err
}

func (m *ReviewModel) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+reviewColumns+` FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1 AND r.id = $2`,
		titleID,
		reviewID,
	)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (m *ReviewModel) ListForTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER() AS total, `+reviewColumns+` FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3`,
		titleID,
		limit,
		offset,
	)
	type row struct {
		Total int
		models.Review
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	reviews := make([]models.Review, 0, len(outputRows))
	total := 0
	for _, r := range outputRows {
		reviews = append(reviews, r.Review)
		total = r.Total
	}
	return reviews, total, nil
}

func (m *ReviewModel) Update(ctx context.Context, titleID, reviewID int64, text string, score int32) (*models.Review, error) {
	status, err := m.DB.Exec(
		ctx,
		"UPDATE reviews SET text = $1, score = $2 WHERE id = $3 AND title_id = $4",
		text,
		score,
		reviewID,
		titleID,
	)
	if err != nil {
		return nil, err
	}
	if status.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	return m.Get(ctx, titleID, reviewID)
}

func (m *ReviewModel) Delete(ctx context.Context, titleID, reviewID int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM reviews WHERE id = $1 AND title_id = $2", reviewID, titleID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
