package service

import (
	"context"

	"go-social-auth/internal/model"
	"go-social-auth/internal/util"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (model.User, error)
	ListSuggestions(ctx context.Context, excludeID string, limit int) ([]model.UserSuggestion, error)
}

const suggestionLimit = 20

type UserService struct {
	store userStore
}

func NewUserService(store userStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Get(ctx context.Context, id string) (model.PublicUser, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}

// Suggestions lists other users the caller could follow.
func (s *UserService) Suggestions(ctx context.Context, callerID string) ([]model.UserSuggestion, error) {
	return s.store.ListSuggestions(ctx, callerID, suggestionLimit)
}

func (s *UserService) UpdateTheme(ctx context.Context, id string, themeMode *string, colorMode *string) (model.PublicUser, error) {
	if themeMode == nil && colorMode == nil {
		return model.PublicUser{}, model.ErrInvalidInput
	}

	u, err := s.store.UpdateProfile(ctx, id, model.ProfileUpdate{ThemeMode: themeMode, ColorMode: colorMode})
	if err != nil {
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (model.PublicUser, error) {
	update.Firstname = util.CleanTextPtr(update.Firstname, false)
	update.Lastname = util.CleanTextPtr(update.Lastname, false)
	update.Title = util.CleanTextPtr(update.Title, false)
	update.Bio = util.CleanTextPtr(update.Bio, true)

	u, err := s.store.UpdateProfile(ctx, id, update)
	if err != nil {
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}
