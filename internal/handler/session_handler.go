package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-social-auth/internal/model"
	"go-social-auth/pkg/apierror"
)

type sessionService interface {
	List(ctx context.Context, userID string) ([]model.SessionView, error)
	Revoke(ctx context.Context, userID string, sessionID string) error
}

type SessionHandler struct {
	service sessionService
}

func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.List(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", model.SessionList{Sessions: sessions}, nil)
}

func (h *SessionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "session id is required", "sessionId", http.StatusBadRequest))
		return
	}

	if err := h.service.Revoke(withActor(r), currentUserID(r), sessionID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Session revoked!", nil, nil)
}
