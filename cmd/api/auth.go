package main

import (
	"errors"
	"net/http"

	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/auth"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,max=150,notreserved"`
		Email    string `json:"email" validate:"required,email,max=254"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	if err := app.Services.Auth.Signup(r.Context(), input.Username, input.Email); err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			app.Http.ValidationErrors(w, r, map[string]string{"username": err.Error()})
		case errors.Is(err, auth.ErrEmailTaken):
			app.Http.ValidationErrors(w, r, map[string]string{"email": err.Error()})
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	// The confirmation code travels by email only, never in the response.
	app.Http.Ok(w, r, envelop{
		"username": input.Username,
		"email":    input.Email,
	})
}

func (app *Application) getToken(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username         string `json:"username" validate:"required"`
		ConfirmationCode string `json:"confirmation_code" validate:"required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	token, err := app.Services.Auth.IssueToken(r.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, auth.ErrInvalidConfirmationCode):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"token": token})
}
