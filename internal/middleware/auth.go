package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-social-auth/internal/model"
)

type tokenVerifier interface {
	Verify(token string) (*model.TokenClaims, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type contextKey string

const (
	authClaimsContextKey contextKey = "auth_claims"
	authUserContextKey   contextKey = "auth_user"
)

// AuthMiddleware admits requests bearing a valid access token whose subject
// still exists. It never writes to the stores it reads.
type AuthMiddleware struct {
	verifier tokenVerifier
	users    userLookup
}

func NewAuthMiddleware(verifier tokenVerifier, users userLookup) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
			writeUnauthorized(w, "missing or invalid authorization header")
			return
		}

		token := strings.TrimSpace(header[7:])
		claims, err := m.verifier.Verify(token)
		if err != nil || claims.Type != model.TokenTypeAccess {
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		user, err := m.users.FindByID(r.Context(), claims.Subject)
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			slog.Debug("auth: token subject no longer exists", "sub", claims.Subject)
			writeUnauthorized(w, "invalid or expired token")
			return
		case err != nil:
			slog.Error("auth: subject lookup failed", "sub", claims.Subject, "error", err)
			writeInternalError(w)
			return
		}

		noteUser(r.Context(), user.ID)
		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		ctx = context.WithValue(ctx, authUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ClaimsFromContext(ctx context.Context) (*model.TokenClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.TokenClaims)
	return claims, ok
}

// UserFromContext returns the user loaded by RequireAuth for this request.
func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(authUserContextKey).(model.User)
	return user, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)

	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)

	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error:   &model.APIError{Code: "INTERNAL_ERROR", Message: "Unexpected server error"},
	})
}
