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

type CategoryModel struct {
	DB *pgxpool.Pool
}

func (m *CategoryModel) Insert(ctx context.Context, name, slug string) (*models.Category, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id, name, slug",
		name,
		slug,
	)
	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		if postgres.IsErrCode(err, postgres.ErrConflictCode) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &category, nil
}

func (m *CategoryModel) List(ctx context.Context, search string) ([]models.Category, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT id, name, slug FROM categories WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') ORDER BY name, id",
		search,
	)
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (m *CategoryModel) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	rows, _ := m.DB.Query(ctx, "SELECT id, name, slug FROM categories WHERE slug = $1", slug)
	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (m *CategoryModel) DeleteBySlug(ctx context.Context, slug string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM categories WHERE slug = $1", slug)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
