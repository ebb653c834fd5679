package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-social-auth/internal/middleware"
	"go-social-auth/internal/model"
	"go-social-auth/pkg/apierror"
)

type userService interface {
	Get(ctx context.Context, id string) (model.PublicUser, error)
	Suggestions(ctx context.Context, callerID string) ([]model.UserSuggestion, error)
	UpdateTheme(ctx context.Context, id string, themeMode *string, colorMode *string) (model.PublicUser, error)
	UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (model.PublicUser, error)
}

type UserHandler struct {
	service userService
}

func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Suggestions(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"users": users}, nil)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"user": user.Public()}, nil)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "user id is required", "userId", http.StatusBadRequest))
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"user": user}, nil)
}

func (h *UserHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateThemeRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.UpdateTheme(r.Context(), currentUserID(r), payload.ThemeMode, payload.ColorMode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Theme updated!", map[string]any{"user": user}, nil)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateProfileRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), currentUserID(r), model.ProfileUpdate{
		Firstname:    payload.Firstname,
		Lastname:     payload.Lastname,
		Bio:          payload.Bio,
		Birthdate:    payload.Birthdate,
		Title:        payload.Title,
		ProfilePhoto: payload.ProfilePhoto,
		CoverPhoto:   payload.CoverPhoto,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile updated!", map[string]any{"user": user}, nil)
}
