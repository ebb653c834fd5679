package handler

import (
	"context"
	"net/http"

	"go-social-auth/internal/event"
	"go-social-auth/internal/middleware"
)

// withActor attaches the caller's identity, as far as it is known, to the
// request context for event attribution.
func withActor(r *http.Request) context.Context {
	actor := event.Actor{IP: middleware.ClientIP(r)}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		actor.UserID = user.ID
		actor.Email = user.Email
	}
	return event.WithActor(r.Context(), actor)
}

// currentUserID is only called behind RequireAuth.
func currentUserID(r *http.Request) string {
	user, _ := middleware.UserFromContext(r.Context())
	return user.ID
}
