package main

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"reviewhub/proj/internal/config"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Http struct {
	log *slog.Logger
	cfg *config.Config
}

type envelop map[string]any

func (h *Http) setupLogPerReq(r *http.Request) *slog.Logger {
	return h.log.With(
		"request_id",
		middleware.GetReqID(r.Context()),
		"method",
		r.Method,
		"path",
		r.URL.Path,
	)
}

func (h *Http) Response(w http.ResponseWriter, r *http.Request, data any, status int) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func (h *Http) Ok(w http.ResponseWriter, r *http.Request, data any) {
	h.Response(w, r, data, http.StatusOK)
}

func (h *Http) Created(w http.ResponseWriter, r *http.Request, data any) {
	h.Response(w, r, data, http.StatusCreated)
}

func (h *Http) NoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Http) Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	h.Response(w, r, envelop{"error": msg}, status)
}

func (h *Http) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.Error(w, r, http.StatusBadRequest, msg)
}

func (h *Http) Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	h.Error(w, r, http.StatusUnauthorized, msg)
}

func (h *Http) Forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	h.Error(w, r, http.StatusForbidden, msg)
}

func (h *Http) NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.Error(w, r, http.StatusNotFound, msg)
}

// ValidationErrors reports per-field validation failures.
func (h *Http) ValidationErrors(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	h.Response(w, r, envelop{"errors": errors}, http.StatusBadRequest)
}

func (h *Http) ServerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := http.StatusInternalServerError
	defaultErrMsg := "Sorry! Can't process your request. Please try again later."
	log := h.setupLogPerReq(r)
	if err != nil {
		log.Error(err.Error())
	}
	if msg == "" {
		msg = defaultErrMsg
	}
	if h.cfg.Debug && err != nil {
		msg = err.Error() + "\n" + string(debug.Stack())
		w.WriteHeader(status)
		w.Write([]byte(msg))
		return
	}
	h.Error(w, r, status, msg)
}

// paginated shapes a list response with its total count.
func paginated(count, page, pageSize int, results any) envelop {
	return envelop{
		"count":     count,
		"page":      page,
		"page_size": pageSize,
		"results":   results,
	}
}
