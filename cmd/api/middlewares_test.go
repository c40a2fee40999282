package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithUser(user *models.User) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	return request.WithContext(context.WithValue(request.Context(), CtxKeyUser, user))
}

func TestRequireAuthenticatedUser(t *testing.T) {
	app, _, _ := NewTestApplication(t)
	t.Run("authenticated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := requestWithUser(&models.User{ID: 1, Username: "test", Role: models.RoleUser})
		app.requireAuthenticatedUser(okHandler()).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := requestWithUser(models.AnonymousUser)
		app.requireAuthenticatedUser(okHandler()).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	app, _, _ := NewTestApplication(t)
	cases := []struct {
		name     string
		user     *models.User
		wantCode int
	}{
		{"admin role", &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}, http.StatusOK},
		{"superuser", &models.User{ID: 2, Username: "root", Role: models.RoleUser, IsSuperuser: true}, http.StatusOK},
		{"moderator", &models.User{ID: 3, Username: "mod", Role: models.RoleModerator}, http.StatusForbidden},
		{"regular user", &models.User{ID: 4, Username: "user", Role: models.RoleUser}, http.StatusForbidden},
		{"anonymous", models.AnonymousUser, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			app.requireAdmin(okHandler()).ServeHTTP(recorder, requestWithUser(tc.user))
			assert.Equal(t, tc.wantCode, recorder.Code)
		})
	}
}

func TestAuthenticateMiddleware(t *testing.T) {
	app, _, mailer := NewTestApplication(t)
	require.NoError(t, app.Services.Auth.Signup(context.Background(), "alice", "alice@example.com"))
	token, err := app.Services.Auth.IssueToken(context.Background(), "alice", mailer.lastCode(t))
	require.NoError(t, err)

	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = app.contextUser(r)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no header is anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		app.Authenticate(next).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, seen.IsAnonymous())
	})
	t.Run("valid token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		app.Authenticate(next).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "alice", seen.Username)
	})
	t.Run("malformed header", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Token "+token)
		app.Authenticate(next).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
	t.Run("garbage token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer not-a-token")
		app.Authenticate(next).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
