package main

import (
	"errors"
	"net/http"

	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/catalog"

	"github.com/go-chi/chi/v5"
)

func (app *Application) listGenres(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	genres, err := app.Services.Catalog.ListGenres(r.Context(), search)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, genres)
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	var input categoryInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	genre, err := app.Services.Catalog.CreateGenre(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrGenreExists) {
			app.Http.BadRequest(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, genre)
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := app.Services.Catalog.DeleteGenre(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrGenreNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}
