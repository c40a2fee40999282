package models

import (
	"context"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
	"reviewhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TitleModel struct {
	DB *pgxpool.Pool
}

const titleSelect = `
	SELECT count(*) OVER() AS total, t.id, t.name, t.year, t.description,
		c.id AS category_id, c.name AS category_name, c.slug AS category_slug,
		AVG(r.score)::float8 AS rating
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN reviews r ON r.title_id = t.id
`

func scanTitleRows(rows pgx.Rows) ([]models.Title, int, error) {
	defer rows.Close()
	var titles []models.Title
	total := 0
	for rows.Next() {
		var (
			t            models.Title
			categoryID   *int64
			categoryName *string
			categorySlug *string
		)
		err := rows.Scan(&total, &t.ID, &t.Name, &t.Year, &t.Description, &categoryID, &categoryName, &categorySlug, &t.Rating)
		if err != nil {
			return nil, 0, err
		}
		if categoryID != nil {
			t.Category = &models.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
		}
		t.Genres = []models.Genre{}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

// attachGenres loads the genre lists for the given titles in one query.
func (m *TitleModel) attachGenres(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}
	ids := make([]int64, len(titles))
	byID := make(map[int64]*models.Title, len(titles))
	for i := range titles {
		ids[i] = titles[i].ID
		byID[titles[i].ID] = &titles[i]
	}
	rows, _ := m.DB.Query(
		ctx,
		`SELECT tg.title_id, g.id, g.name, g.slug
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = ANY($1)
		ORDER BY g.name, g.id`,
		ids,
	)
	defer rows.Close()
	for rows.Next() {
		var (
			titleID int64
			genre   models.Genre
		)
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return err
		}
		t := byID[titleID]
		t.Genres = append(t.Genres, genre)
	}
	return rows.Err()
}

func (m *TitleModel) setGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM title_genres WHERE title_id = $1", titleID); err != nil {
		return err
	}
	for _, genreID := range genreIDs {
		_, err := tx.Exec(
			ctx,
			"INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			titleID,
			genreID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *TitleModel) Insert(ctx context.Context, name string, year int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(
		ctx,
		"INSERT INTO titles (name, year, description, category_id) VALUES ($1, $2, $3, $4) RETURNING id",
		name,
		year,
		description,
		categoryID,
	).Scan(&id)
	if err != nil {
		if postgres.IsErrCode(err, postgres.ErrConflictCode) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	if err := m.setGenres(ctx, tx, id, genreIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	rows, _ := m.DB.Query(ctx, titleSelect+" WHERE t.id = $1 GROUP BY t.id, c.id", id)
	titles, _, err := scanTitleRows(rows)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, storage.ErrNotFound
	}
	if err := m.attachGenres(ctx, titles); err != nil {
		return nil, err
	}
	return &titles[0], nil
}

func (m *TitleModel) List(ctx context.Context, f filters.TitleFilters) ([]models.Title, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		titleSelect+`
		WHERE ($1 = '' OR c.slug = $1)
		AND ($2 = '' OR EXISTS (
			SELECT 1 FROM title_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = $2
		))
		AND ($3 = '' OR t.name ILIKE '%' || $3 || '%')
		AND ($4 = 0 OR t.year = $4)
		GROUP BY t.id, c.id
		ORDER BY t.name, t.id
		LIMIT $5 OFFSET $6`,
		f.Category,
		f.Genre,
		f.Name,
		f.Year,
		f.Limit(),
		f.Offset(),
	)
	titles, total, err := scanTitleRows(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := m.attachGenres(ctx, titles); err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

// Update rewrites the title row and, when setGenres is true, replaces its
// genre links as well.
func (m *TitleModel) Update(ctx context.Context, id int64, name string, year int32, description string, categoryID *int64, genreIDs []int64, setGenres bool) (*models.Title, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	status, err := tx.Exec(
		ctx,
		"UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4 WHERE id = $5",
		name,
		year,
		description,
		categoryID,
		id,
	)
	if err != nil {
		if postgres.IsErrCode(err, postgres.ErrConflictCode) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	if status.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	if setGenres {
		if err := m.setGenres(ctx, tx, id, genreIDs); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
