//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-social-auth/internal/config"
	"go-social-auth/internal/database"
	"go-social-auth/internal/event"
	"go-social-auth/internal/handler"
	"go-social-auth/internal/middleware"
	"go-social-auth/internal/repository"
	"go-social-auth/internal/router"
	"go-social-auth/internal/service"
)

const testPassword = "Password123!"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// newServer wires the full stack against DATABASE_URL. The test is skipped
// when no database is configured.
func newServer(t *testing.T, rotate bool) *httptest.Server {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, database.Options{URL: url, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))

	cfg := &config.Config{
		JWTSecret:       "integration-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		RequestTimeout:  10 * time.Second,
		CORSOrigins:     []string{"*"},
	}

	users := repository.NewUserRepository(db.Pool)
	sessions := repository.NewSessionRepository(db.Pool)
	audit := repository.NewAuditRepository(db.Pool)

	bus := event.NewBus()
	auditEvents, unsubscribe := bus.Subscribe()
	t.Cleanup(unsubscribe)
	auditService := service.NewAuditService(audit)
	go auditService.Run(ctx, auditEvents)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(users, sessions, service.NewHasher(4), tokenService, bus, rotate)

	server := httptest.NewServer(router.New(cfg,
		middleware.NewAuthMiddleware(tokenService, users),
		middleware.EmailAvailable(users),
		router.Handlers{
			Auth:    handler.NewAuthHandler(authService),
			Session: handler.NewSessionHandler(service.NewSessionService(sessions, bus, cfg.RefreshTokenTTL)),
			User:    handler.NewUserHandler(service.NewUserService(users)),
			Post:    handler.NewPostHandler(service.NewPostService(repository.NewPostRepository(db.Pool))),
			Audit:   handler.NewAuditHandler(auditService),
			Health:  handler.NewHealthHandler(db),
		}))
	t.Cleanup(server.Close)
	return server
}

func uniqueEmail() string {
	return "it-" + uuid.NewString() + "@example.com"
}

func register(t *testing.T, server *httptest.Server, email string) {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/register", map[string]string{
		"firstname": "Ada",
		"lastname":  "Lovelace",
		"birthdate": "1815-12-10",
		"email":     email,
		"password":  testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, server *httptest.Server, email string) tokens {
	t.Helper()

	resp, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success, env.Message)

	var out tokens
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.AccessToken)
	require.NotEmpty(t, out.RefreshToken)
	return out
}

func doJSON(t *testing.T, method string, url string, body any, accessToken string) (*http.Response, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}
