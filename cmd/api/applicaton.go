package main

import (
	"log/slog"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services"
	"reviewhub/proj/internal/storage/postgres"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	Services  *services.Services
	validator *govalidator.Validate
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.Storage) *Application {
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: validator.New(cfg.Auth.ReservedUsername),
		Services:  services.New(log, cfg, storage),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}
