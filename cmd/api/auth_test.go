package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.Handler, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func TestSignupEndpoint(t *testing.T) {
	app, users, mailer := NewTestApplication(t)
	router := app.routes()

	recorder := postJSON(t, router, "/api/v1/auth/signup", `{"username": "alice", "email": "alice@example.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeResponse(t, recorder)
	assert.Equal(t, "alice", payload["username"])
	assert.Equal(t, "alice@example.com", payload["email"])
	assert.NotContains(t, recorder.Body.String(), mailer.lastCode(t), "code must never leak into the response")

	user, err := users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ConfirmationCodeHash)
}

func TestSignupEndpointValidation(t *testing.T) {
	app, _, _ := NewTestApplication(t)
	router := app.routes()

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"reserved username", `{"username": "me", "email": "me@example.com"}`, "username"},
		{"missing email", `{"username": "alice"}`, "email"},
		{"bad email", `{"username": "alice", "email": "nope"}`, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := postJSON(t, router, "/api/v1/auth/signup", tc.body)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
			payload := decodeResponse(t, recorder)
			errs, ok := payload["errors"].(map[string]any)
			require.True(t, ok, "expected field error map, got %s", recorder.Body.String())
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestSignupEndpointConflicts(t *testing.T) {
	app, _, _ := NewTestApplication(t)
	router := app.routes()
	require.Equal(t, http.StatusOK,
		postJSON(t, router, "/api/v1/auth/signup", `{"username": "alice", "email": "alice@example.com"}`).Code)

	t.Run("same pair re-sends code", func(t *testing.T) {
		recorder := postJSON(t, router, "/api/v1/auth/signup", `{"username": "alice", "email": "alice@example.com"}`)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("username taken", func(t *testing.T) {
		recorder := postJSON(t, router, "/api/v1/auth/signup", `{"username": "alice", "email": "other@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
	t.Run("email taken", func(t *testing.T) {
		recorder := postJSON(t, router, "/api/v1/auth/signup", `{"username": "bob", "email": "alice@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestTokenEndpoint(t *testing.T) {
	app, _, mailer := NewTestApplication(t)
	router := app.routes()
	require.Equal(t, http.StatusOK,
		postJSON(t, router, "/api/v1/auth/signup", `{"username": "alice", "email": "alice@example.com"}`).Code)
	code := mailer.lastCode(t)

	t.Run("valid code", func(t *testing.T) {
		recorder := postJSON(t, router, "/api/v1/auth/token",
			`{"username": "alice", "confirmation_code": "`+code+`"}`)
		require.Equal(t, http.StatusCreated, recorder.Code)
		payload := decodeResponse(t, recorder)
		assert.NotEmpty(t, payload["token"])
	})
	t.Run("unknown user is 404", func(t *testing.T) {
		recorder := postJSON(t, router, "/api/v1/auth/token",
			`{"username": "nobody", "confirmation_code": "`+code+`"}`)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
	t.Run("wrong code is 400", func(t *testing.T) {
		recorder := postJSON(t, router, "/api/v1/auth/token",
			`{"username": "alice", "confirmation_code": "wrong"}`)
		require.Equal(t, http.StatusBadRequest, recorder.Code)
		payload := decodeResponse(t, recorder)
		assert.Equal(t, "confirmation code incorrect", payload["error"])
	})
	t.Run("code survives issuance", func(t *testing.T) {
		recorder := postJSON(t, router, "/api/v1/auth/token",
			`{"username": "alice", "confirmation_code": "`+code+`"}`)
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})
}
