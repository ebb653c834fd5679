package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-social-auth/internal/middleware"
	"go-social-auth/internal/model"
	"go-social-auth/pkg/apierror"
)

type authService interface {
	Login(ctx context.Context, in model.LoginInput) (model.LoginResult, error)
	Register(ctx context.Context, in model.RegisterInput) (model.PublicUser, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (model.RefreshResult, error)
	Logout(ctx context.Context, userID string, refreshToken string) error
}

type AuthHandler struct {
	service authService
}

func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(withActor(r), model.LoginInput{
		Email:     payload.Email,
		Password:  payload.Password,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if errors.Is(err, model.ErrInvalidCredentials) {
		writeSoftFailure(w, "Invalid Credentials!")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful!", result, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(withActor(r), model.RegisterInput{
		Firstname: payload.Firstname,
		Lastname:  payload.Lastname,
		Bio:       payload.Bio,
		Birthdate: payload.Birthdate,
		Title:     payload.Title,
		Email:     payload.Email,
		Password:  payload.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully!", map[string]any{"user": user}, nil)
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var payload model.RefreshRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.RefreshAccessToken(withActor(r), strings.TrimSpace(payload.RefreshToken))
	switch {
	case errors.Is(err, model.ErrInvalidRefreshToken):
		writeSoftFailure(w, "Invalid refresh token!")
		return
	case errors.Is(err, model.ErrUserNotFound):
		writeSoftFailure(w, "User not found!")
		return
	case err != nil:
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Access token refreshed!", result, nil)
}

// Logout accepts the refresh token in a JSON body or as the refresh_token
// query parameter. Only the caller's own sessions can be ended.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("refresh_token"))
	if token == "" && r.Body != nil && r.ContentLength != 0 {
		var payload model.LogoutRequest
		if err := decodeJSON(r, &payload); err == nil {
			token = strings.TrimSpace(payload.RefreshToken)
		}
	}

	if err := h.service.Logout(withActor(r), currentUserID(r), token); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Logged out successfully!", nil, nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	writeError(w, apierror.New("NOT_IMPLEMENTED", "password reset is not available", "", http.StatusNotImplemented))
}
