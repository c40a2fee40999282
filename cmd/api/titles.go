package main

import (
	"errors"
	"net/http"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/catalog"
)

const defaultTitlesPageSize = 10

func (app *Application) listTitles(w http.ResponseWriter, r *http.Request) {
	var f filters.TitleFilters
	if !app.decodeFilters(w, r, &f, defaultTitlesPageSize) {
		return
	}
	titles, total, err := app.Services.Catalog.ListTitles(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, paginated(total, f.Page, f.PageSize, titles))
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	title, err := app.Services.Catalog.GetTitle(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrTitleNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, title)
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string   `json:"name" validate:"required,max=256"`
		Year        int32    `json:"year" validate:"required,titleyear"`
		Description string   `json:"description"`
		Category    string   `json:"category" validate:"omitempty,max=50,slug"`
		Genre       []string `json:"genre" validate:"omitempty,dive,max=50,slug"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	title, err := app.Services.Catalog.CreateTitle(r.Context(), catalog.TitleInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		app.titleWriteError(w, r, err)
		return
	}
	app.Http.Created(w, r, title)
}

func (app *Application) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var input struct {
		Name        *string  `json:"name" validate:"omitempty,max=256"`
		Year        *int32   `json:"year" validate:"omitempty,titleyear"`
		Description *string  `json:"description"`
		Category    *string  `json:"category" validate:"omitempty,max=50,slug"`
		Genre       []string `json:"genre" validate:"omitempty,dive,max=50,slug"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	title, err := app.Services.Catalog.UpdateTitle(r.Context(), id, catalog.TitleUpdate{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		app.titleWriteError(w, r, err)
		return
	}
	app.Http.Ok(w, r, title)
}

// titleWriteError translates create/update failures: unknown referenced
// slugs and the (name, year) collision are validation errors, a missing
// title is 404.
func (app *Application) titleWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound):
		app.Http.ValidationErrors(w, r, map[string]string{"category": err.Error()})
	case errors.Is(err, catalog.ErrGenreNotFound):
		app.Http.ValidationErrors(w, r, map[string]string{"genre": err.Error()})
	case errors.Is(err, catalog.ErrTitleExists):
		app.Http.BadRequest(w, r, err.Error())
	case errors.Is(err, catalog.ErrTitleNotFound):
		app.Http.NotFound(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	if err := app.Services.Catalog.DeleteTitle(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrTitleNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}
