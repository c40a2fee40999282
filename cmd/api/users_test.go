package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reviewhub/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, store *fakeUsersStorage, user models.User) *models.User {
	t.Helper()
	created, err := store.Insert(context.Background(), &user)
	require.NoError(t, err)
	return created
}

func patchAs(user *models.User, body string) *http.Request {
	request := httptest.NewRequest(http.MethodPatch, "/api/v1/users/me", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	return request.WithContext(context.WithValue(request.Context(), CtxKeyUser, user))
}

func TestGetOwnProfile(t *testing.T) {
	app, store, _ := NewTestApplication(t)
	alice := seedUser(t, store, models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	request = request.WithContext(context.WithValue(request.Context(), CtxKeyUser, alice))
	app.getOwnProfile(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeResponse(t, recorder)
	assert.Equal(t, "alice", payload["username"])
}

func TestUpdateOwnProfile(t *testing.T) {
	app, store, _ := NewTestApplication(t)
	alice := seedUser(t, store, models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser})

	recorder := httptest.NewRecorder()
	app.updateOwnProfile(recorder, patchAs(alice, `{"bio": "hello", "first_name": "Alice"}`))

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeResponse(t, recorder)
	assert.Equal(t, "hello", payload["bio"])
	assert.Equal(t, "Alice", payload["first_name"])
}

func TestUpdateOwnProfileIgnoresRoleAndEmail(t *testing.T) {
	app, store, _ := NewTestApplication(t)
	alice := seedUser(t, store, models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser})

	recorder := httptest.NewRecorder()
	app.updateOwnProfile(recorder, patchAs(alice, `{"role": "admin", "email": "evil@example.com", "bio": "hi"}`))

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	stored, err := store.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, stored.Role, "role stays unchanged")
	assert.Equal(t, "alice@example.com", stored.Email, "email stays unchanged")
	assert.Equal(t, "hi", stored.Bio, "writable fields still applied")
}

func TestUpdateOwnProfileReservedUsername(t *testing.T) {
	app, store, _ := NewTestApplication(t)
	alice := seedUser(t, store, models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser})

	recorder := httptest.NewRecorder()
	app.updateOwnProfile(recorder, patchAs(alice, `{"username": "me"}`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
