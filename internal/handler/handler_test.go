package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"go-social-auth/internal/middleware"
	"go-social-auth/internal/model"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*model.TokenClaims, error) {
	subject, ok := strings.CutPrefix(token, "token-for-")
	if !ok {
		return nil, model.ErrInvalidToken
	}
	return &model.TokenClaims{Subject: subject, Type: model.TokenTypeAccess}, nil
}

type stubUserLookup struct{}

func (stubUserLookup) FindByID(_ context.Context, id string) (model.User, error) {
	return model.User{ID: id, Email: id + "@example.com", ThemeMode: model.DefaultThemeMode}, nil
}

// authed wraps h in the real auth middleware; requests must carry
// "Bearer token-for-<userID>".
func authed(h http.HandlerFunc) http.Handler {
	return middleware.NewAuthMiddleware(stubVerifier{}, stubUserLookup{}).RequireAuth(h)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *model.Meta     `json:"meta"`
	Error   *model.APIError `json:"error"`
}

func do(t *testing.T, h http.Handler, method string, target string, body string, userID string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer token-for-"+userID)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func newRouter(register func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	register(r)
	return r
}
