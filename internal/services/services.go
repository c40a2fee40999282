package services

import (
	"log/slog"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/mails"
	"reviewhub/proj/internal/services/auth"
	"reviewhub/proj/internal/services/catalog"
	"reviewhub/proj/internal/services/reviews"
	"reviewhub/proj/internal/services/users"
	"reviewhub/proj/internal/storage/postgres"
	"reviewhub/proj/internal/storage/postgres/models"
)

type Services struct {
	Auth    *auth.AuthService
	Catalog *catalog.CatalogService
	Reviews *reviews.ReviewService
	Users   *users.UserService
}

func New(log *slog.Logger, cfg *config.Config, storage *postgres.Storage) *Services {
	mailer := mails.New(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Timeout,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.Sender,
		1,
	)
	db := models.New(storage)
	return &Services{
		Auth:    auth.New(log, db.Users, mailer, cfg.Auth.Secret, cfg.Auth.TokenTTL),
		Catalog: catalog.New(log, db.Categories, db.Genres, db.Titles),
		Reviews: reviews.New(log, db.Reviews, db.Comments, db.Titles),
		Users:   users.New(log, db.Users),
	}
}
