package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-social-auth/internal/model"
)

type fakeUserService struct {
	lastTheme *string
	profile   model.ProfileUpdate
}

func (f *fakeUserService) Get(_ context.Context, id string) (model.PublicUser, error) {
	if id == "missing" {
		return model.PublicUser{}, model.ErrUserNotFound
	}
	return model.PublicUser{ID: id}, nil
}

func (f *fakeUserService) Suggestions(_ context.Context, callerID string) ([]model.UserSuggestion, error) {
	return []model.UserSuggestion{{ID: "not-" + callerID}}, nil
}

func (f *fakeUserService) UpdateTheme(_ context.Context, id string, themeMode *string, colorMode *string) (model.PublicUser, error) {
	if themeMode == nil && colorMode == nil {
		return model.PublicUser{}, model.ErrInvalidInput
	}
	f.lastTheme = themeMode
	return model.PublicUser{ID: id, ThemeMode: *themeMode}, nil
}

func (f *fakeUserService) UpdateProfile(_ context.Context, id string, update model.ProfileUpdate) (model.PublicUser, error) {
	f.profile = update
	return model.PublicUser{ID: id}, nil
}

func userRouter(svc *fakeUserService) http.Handler {
	h := NewUserHandler(svc)
	return newRouter(func(r chi.Router) {
		r.Method(http.MethodGet, "/users", authed(h.Suggestions))
		r.Method(http.MethodPatch, "/users", authed(h.UpdateTheme))
		r.Method(http.MethodGet, "/users/me", authed(h.Me))
		r.Method(http.MethodPatch, "/users/profile", authed(h.UpdateProfile))
		r.Method(http.MethodGet, "/users/{userId}", authed(h.Get))
	})
}

func TestUserHandler(t *testing.T) {
	svc := &fakeUserService{}
	router := userRouter(svc)

	t.Run("me returns the authenticated user", func(t *testing.T) {
		rec, env := do(t, router, http.MethodGet, "/users/me", "", "alice")
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			User model.PublicUser `json:"user"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "alice", data.User.ID)
		assert.Equal(t, "alice@example.com", data.User.Email)
		assert.NotContains(t, rec.Body.String(), "passwordHash")
	})

	t.Run("suggestions", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodGet, "/users", "", "alice")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "not-alice")
	})

	t.Run("get by id", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodGet, "/users/bob", "", "alice")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, _ = do(t, router, http.MethodGet, "/users/missing", "", "alice")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("theme", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodPatch, "/users", `{"themeMode":"darkMode"}`, "alice")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastTheme)
		assert.Equal(t, "darkMode", *svc.lastTheme)

		rec, _ = do(t, router, http.MethodPatch, "/users", `{}`, "alice")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("profile", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodPatch, "/users/profile", `{"title":"Engineer"}`, "alice")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.profile.Title)
		assert.Equal(t, "Engineer", *svc.profile.Title)
		assert.Nil(t, svc.profile.Bio)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodGet, "/users/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
