package main

import (
	"net/http"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/permissions"
	"reviewhub/proj/internal/lib/validator"
)

const defaultCommentsPageSize = 5

type commentInput struct {
	Text string `json:"text" validate:"required"`
}

func (app *Application) commentParams(w http.ResponseWriter, r *http.Request) (titleID, reviewID int64, ok bool) {
	titleID, ok = app.extractIDParam(w, r, "title_id")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok = app.extractIDParam(w, r, "review_id")
	if !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentParams(w, r)
	if !ok {
		return
	}
	var f filters.Filters
	if !app.decodeFilters(w, r, &f, defaultCommentsPageSize) {
		return
	}
	comments, total, err := app.Services.Reviews.ListComments(r.Context(), titleID, reviewID, f)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, paginated(total, f.Page, f.PageSize, comments))
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentParams(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "comment_id")
	if !ok {
		return
	}
	comment, err := app.Services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, comment)
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentParams(w, r)
	if !ok {
		return
	}
	var input commentInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	comment, err := app.Services.Reviews.CreateComment(r.Context(), titleID, reviewID, app.contextUser(r), input.Text)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Created(w, r, comment)
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentParams(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "comment_id")
	if !ok {
		return
	}
	var input commentInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return
	}
	comment, err := app.Services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	if !permissions.AdminModeratorAuthorOrReadOnly(app.contextUser(r), comment.AuthorID, true) {
		app.Http.Forbidden(w, r, "You can only edit your own comments")
		return
	}
	updated, err := app.Services.Reviews.UpdateComment(r.Context(), titleID, reviewID, commentID, input.Text)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, updated)
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentParams(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "comment_id")
	if !ok {
		return
	}
	comment, err := app.Services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	if !permissions.AdminModeratorAuthorOrReadOnly(app.contextUser(r), comment.AuthorID, true) {
		app.Http.Forbidden(w, r, "You can only delete your own comments")
		return
	}
	if err := app.Services.Reviews.DeleteComment(r.Context(), titleID, reviewID, commentID); err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
