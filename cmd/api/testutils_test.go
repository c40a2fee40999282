package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services"
	"reviewhub/proj/internal/services/auth"
	"reviewhub/proj/internal/services/users"
	"reviewhub/proj/internal/storage"
)

// fakeUsersStorage is an in-memory stand-in for the users table, enough
// for exercising the auth flow end to end without postgres.
type fakeUsersStorage struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUsersStorage() *fakeUsersStorage {
	return &fakeUsersStorage{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUsersStorage) Insert(_ context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, storage.ErrConflict
		}
	}
	stored := *user
	stored.ID = f.nextID
	f.nextID++
	f.users[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeUsersStorage) Get(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsersStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsersStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsersStorage) SetConfirmationCode(_ context.Context, userID int64, hash []byte) error {
	user, ok := f.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	user.ConfirmationCodeHash = hash
	return nil
}

func (f *fakeUsersStorage) List(_ context.Context, search string, limit, offset int) ([]models.User, int, error) {
	var matched []models.User
	for _, u := range f.users {
		if search == "" || u.Username == search {
			matched = append(matched, *u)
		}
	}
	return matched, len(matched), nil
}

func (f *fakeUsersStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	stored, ok := f.users[user.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for id, u := range f.users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return nil, storage.ErrConflict
		}
	}
	*stored = *user
	copied := *stored
	return &copied, nil
}

func (f *fakeUsersStorage) DeleteByUsername(_ context.Context, username string) error {
	for id, u := range f.users {
		if u.Username == username {
			delete(f.users, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

// fakeMailer records the template data instead of dialing SMTP, so tests
// can read the confirmation code off the "sent" mail.
type fakeMailer struct {
	sent []map[string]any
}

func (f *fakeMailer) Send(recipient string, tmplName string, tmplData any) error {
	f.sent = append(f.sent, tmplData.(map[string]any))
	return nil
}

func (f *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("no mail sent")
	}
	code, ok := f.sent[len(f.sent)-1]["confirmationCode"].(string)
	if !ok {
		t.Fatal("confirmationCode missing from mail data")
	}
	return code
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.ReservedUsername = "me"
	return cfg
}

func NewTestApplication(t *testing.T) (*Application, *fakeUsersStorage, *fakeMailer) {
	t.Helper()
	cfg := newTestConfig()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	usersStorage := newFakeUsersStorage()
	mailer := &fakeMailer{}
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: validator.New(cfg.Auth.ReservedUsername),
		Services: &services.Services{
			Auth:  auth.New(log, usersStorage, mailer, cfg.Auth.Secret, cfg.Auth.TokenTTL),
			Users: users.New(log, usersStorage),
		},
		Http: &Http{log: log, cfg: cfg},
	}
	return app, usersStorage, mailer
}
