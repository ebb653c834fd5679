package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go-social-auth/internal/model"
)

const maxRegisterBody = 1 << 20

type emailChecker interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// EmailAvailable rejects registrations whose email is missing or already
// taken before the body reaches validation. The body is restored for the
// next handler.
func EmailAvailable(users emailChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(io.LimitReader(r.Body, maxRegisterBody))
			_ = r.Body.Close()
			if err != nil {
				writeMessage(w, http.StatusBadRequest, "Invalid request body!")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))

			var payload struct {
				Email string `json:"email"`
			}
			_ = json.Unmarshal(raw, &payload)

			email := strings.TrimSpace(payload.Email)
			if email == "" {
				writeMessage(w, http.StatusBadRequest, "Email is empty!")
				return
			}

			taken, err := users.ExistsByEmail(r.Context(), email)
			if err != nil {
				slog.Error("email check failed", "error", err)
				writeInternalError(w)
				return
			}
			if taken {
				writeMessage(w, http.StatusConflict, "Email is already taken!")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{Success: false, Message: message})
}
