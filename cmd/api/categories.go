package main

import (
	"errors"
	"net/http"

	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/catalog"

	"github.com/go-chi/chi/v5"
)

type categoryInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

func (app *Application) listCategories(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	categories, err := app.Services.Catalog.ListCategories(r.Context(), search)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, categories)
}

func (app *Application) createCategory(w http.ResponseWriter, r *http.Request) {
	var input categoryInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	category, err := app.Services.Catalog.CreateCategory(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryExists) {
			app.Http.BadRequest(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, category)
}

func (app *Application) deleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := app.Services.Catalog.DeleteCategory(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}
