package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listCategories)
			r.With(app.requireAdmin).Post("/", app.createCategory)
			r.With(app.requireAdmin).Delete("/{slug}", app.deleteCategory)
		})
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.listGenres)
			r.With(app.requireAdmin).Post("/", app.createGenre)
			r.With(app.requireAdmin).Delete("/{slug}", app.deleteGenre)
		})
		r.Route("/titles", func(r chi.Router) {
			r.Get("/", app.listTitles)
			r.With(app.requireAdmin).Post("/", app.createTitle)
			r.Get("/{title_id}", app.getTitle)
			r.With(app.requireAdmin).Patch("/{title_id}", app.updateTitle)
			r.With(app.requireAdmin).Delete("/{title_id}", app.deleteTitle)

			r.Route("/{title_id}/reviews", func(r chi.Router) {
				r.Get("/", app.listReviews)
				r.With(app.requireAuthenticatedUser).Post("/", app.createReview)
				r.Get("/{review_id}", app.getReview)
				r.With(app.requireAuthenticatedUser).Patch("/{review_id}", app.updateReview)
				r.With(app.requireAuthenticatedUser).Delete("/{review_id}", app.deleteReview)

				r.Route("/{review_id}/comments", func(r chi.Router) {
					r.Get("/", app.listComments)
					r.With(app.requireAuthenticatedUser).Post("/", app.createComment)
					r.Get("/{comment_id}", app.getComment)
					r.With(app.requireAuthenticatedUser).Patch("/{comment_id}", app.updateComment)
					r.With(app.requireAuthenticatedUser).Delete("/{comment_id}", app.deleteComment)
				})
			})
		})
		r.Route("/users", func(r chi.Router) {
			r.With(app.requireAuthenticatedUser).Get("/me", app.getOwnProfile)
			r.With(app.requireAuthenticatedUser).Patch("/me", app.updateOwnProfile)

			r.With(app.requireAdmin).Get("/", app.listUsers)
			r.With(app.requireAdmin).Post("/", app.createUser)
			r.With(app.requireAdmin).Get("/{username}", app.getUser)
			r.With(app.requireAdmin).Patch("/{username}", app.updateUser)
			r.With(app.requireAdmin).Delete("/{username}", app.deleteUser)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/token", app.getToken)
		})
	})
	return router
}
