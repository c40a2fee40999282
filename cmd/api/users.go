package main

import (
	"errors"
	"net/http"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/users"

	"github.com/go-chi/chi/v5"
)

const defaultUsersPageSize = 10

func (app *Application) userError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, users.ErrUsernameTaken), errors.Is(err, users.ErrEmailTaken):
		app.Http.BadRequest(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	var f filters.SearchFilters
	if !app.decodeFilters(w, r, &f, defaultUsersPageSize) {
		return
	}
	userList, total, err := app.Services.Users.List(r.Context(), f.Search, f.Filters)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, paginated(total, f.Page, f.PageSize, userList))
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := app.Services.Users.Get(r.Context(), username)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, user)
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username  string `json:"username" validate:"required,max=150,notreserved"`
		Email     string `json:"email" validate:"required,email,max=254"`
		FirstName string `json:"first_name" validate:"omitempty,max=150"`
		LastName  string `json:"last_name" validate:"omitempty,max=150"`
		Bio       string `json:"bio"`
		Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	user, err := app.Services.Users.Create(r.Context(), &models.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Created(w, r, user)
}

type adminUserUpdateInput struct {
	Username  *string `json:"username" validate:"omitempty,max=150,notreserved"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var input adminUserUpdateInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	user, err := app.Services.Users.Update(r.Context(), username, users.UserUpdate{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, user)
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := app.Services.Users.Delete(r.Context(), username); err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) getOwnProfile(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, app.contextUser(r))
}

// updateOwnProfile is the self-service profile update. role and email are
// read-only here: values supplied for them are ignored, not rejected.
func (app *Application) updateOwnProfile(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username  *string `json:"username" validate:"omitempty,max=150,notreserved"`
		FirstName *string `json:"first_name" validate:"omitempty,max=150"`
		LastName  *string `json:"last_name" validate:"omitempty,max=150"`
		Bio       *string `json:"bio"`
	}
	if err := app.readJSONLax(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	user := app.contextUser(r)
	updated, err := app.Services.Users.Update(r.Context(), user.Username, users.UserUpdate{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, updated)
}
