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

type CommentModel struct {
	DB *pgxpool.Pool
}

const commentColumns = `c.id, c.review_id, c.author_id, u.username AS author, c.text, c.created_at`

func (m *CommentModel) Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO comments (review_id, author_id, text) VALUES ($1, $2, $3) RETURNING id",
		reviewID,
		authorID,
		text,
	)
	id, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		if postgres.IsErrCode(err, postgres.ErrForeignKeyCode) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return m.Get(ctx, reviewID, id)
}

func (m *CommentModel) Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+commentColumns+` FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.review_id = $1 AND c.id = $2`,
		reviewID,
		commentID,
	)
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (m *CommentModel) ListForReview(ctx context.Context, reviewID int64, limit, offset int) ([]models.Comment, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER() AS total, `+commentColumns+` FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.review_id = $1
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $2 OFFSET $3`,
		reviewID,
		limit,
		offset,
	)
	type row struct {
		Total int
		models.Comment
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	comments := make([]models.Comment, 0, len(outputRows))
	total := 0
	for _, r := range outputRows {
		comments = append(comments, r.Comment)
		total = r.Total
	}
	return comments, total, nil
}

func (m *CommentModel) Update(ctx context.Context, reviewID, commentID int64, text string) (*models.Comment, error) {
	status, err := m.DB.Exec(
		ctx,
		"UPDATE comments SET text = $1 WHERE id = $2 AND review_id = $3",
		text,
		commentID,
		reviewID,
	)
	if err != nil {
		return nil, err
	}
	if status.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	return m.Get(ctx, reviewID, commentID)
}

func (m *CommentModel) Delete(ctx context.Context, reviewID, commentID int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM comments WHERE id = $1 AND review_id = $2", commentID, reviewID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
