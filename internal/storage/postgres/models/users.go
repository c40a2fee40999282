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

type UserModel struct {
	DB *pgxpool.Pool
}

const userColumns = `id, username, email, first_name, last_name, bio, role, is_superuser, confirmation_code_hash, created_at`

func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO users (username, email, first_name, last_name, bio, role)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if postgres.IsErrCode(err, postgres.ErrConflictCode) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &inserted, nil
}

func (m *UserModel) Get(ctx context.Context, id int64) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return collectUser(rows)
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	return collectUser(rows)
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return collectUser(rows)
}

func collectUser(rows pgx.Rows) (*models.User, error) {
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns users ordered by username. search, when non-empty, matches
// the username exactly.
func (m *UserModel) List(ctx context.Context, search string, limit, offset int) ([]models.User, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER() AS total, `+userColumns+` FROM users
		WHERE ($1 = '' OR username = $1)
		ORDER BY username
		LIMIT $2 OFFSET $3`,
		search,
		limit,
		offset,
	)
	type row struct {
		Total int
		models.User
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	users := make([]models.User, 0, len(outputRows))
	total := 0
	for _, r := range outputRows {
		users = append(users, r.User)
		total = r.Total
	}
	return users, total, nil
}

func (m *UserModel) Update(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE users SET username = $1, email = $2, first_name = $3, last_name = $4, bio = $5, role = $6
		WHERE id = $7 RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		switch {
		case postgres.IsErrCode(err, postgres.ErrConflictCode):
			return nil, storage.ErrConflict
		case errors.Is(err, pgx.ErrNoRows):
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (m *UserModel) DeleteByUsername(ctx context.Context, username string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetConfirmationCode stores the bcrypt hash of a freshly issued
// confirmation code, replacing any previous one.
func (m *UserModel) SetConfirmationCode(ctx context.Context, userID int64, hash []byte) error {
	status, err := m.DB.Exec(ctx, "UPDATE users SET confirmation_code_hash = $1 WHERE id = $2", hash, userID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
