package main

import (
	"errors"
	"net/http"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/permissions"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/reviews"
)

const defaultReviewsPageSize = 5

func (app *Application) reviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviews.ErrTitleNotFound),
		errors.Is(err, reviews.ErrReviewNotFound),
		errors.Is(err, reviews.ErrCommentNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, reviews.ErrReviewExists):
		app.Http.BadRequest(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) listReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var f filters.Filters
	if !app.decodeFilters(w, r, &f, defaultReviewsPageSize) {
		return
	}
	reviewList, total, err := app.Services.Reviews.List(r.Context(), titleID, f)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, paginated(total, f.Page, f.PageSize, reviewList))
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
		return
	}
	review, err := app.Services.Reviews.Get(r.Context(), titleID, reviewID)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, review)
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var input struct {
		Text  string `json:"text" validate:"required"`
		Score int32  `json:"score" validate:"required,gte=1,lte=10"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	review, err := app.Services.Reviews.Create(r.Context(), titleID, app.contextUser(r), input.Text, input.Score)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Created(w, r, review)
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
		return
	}
	var input struct {
		Text  *string `json:"text" validate:"omitempty,min=1"`
		Score *int32  `json:"score" validate:"omitempty,gte=1,lte=10"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	review, err := app.Services.Reviews.Get(r.Context(), titleID, reviewID)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	if !permissions.AdminModeratorAuthorOrReadOnly(app.contextUser(r), review.AuthorID, true) {
		app.Http.Forbidden(w, r, "You can only edit your own reviews")
		return
	}
	updated, err := app.Services.Reviews.Update(r.Context(), titleID, reviewID, input.Text, input.Score)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, updated)
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
		return
	}
	review, err := app.Services.Reviews.Get(r.Context(), titleID, reviewID)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	if !permissions.AdminModeratorAuthorOrReadOnly(app.contextUser(r), review.AuthorID, true) {
		app.Http.Forbidden(w, r, "You can only delete your own reviews")
		return
	}
	if err := app.Services.Reviews.Delete(r.Context(), titleID, reviewID); err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
