package models

import (
	"context"

	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
	"reviewhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GenreModel struct {
	DB *pgxpool.Pool
}

func (m *GenreModel) Insert(ctx context.Context, name, slug string) (*models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO genres (name, slug) VALUES ($1, $2) RETURNING id, name, slug",
		name,
		slug,
	)
	genre, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		if postgres.IsErrCode(err, postgres.ErrConflictCode) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &genre, nil
}

func (m *GenreModel) List(ctx context.Context, search string) ([]models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT id, name, slug FROM genres WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') ORDER BY name, id",
		search,
	)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (m *GenreModel) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	rows, _ := m.DB.Query(ctx, "SELECT id, name, slug FROM genres WHERE slug = ANY($1)", slugs)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (m *GenreModel) DeleteBySlug(ctx context.Context, slug string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM genres WHERE slug = $1", slug)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
