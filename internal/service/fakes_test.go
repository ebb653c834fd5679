package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-social-auth/internal/event"
	"go-social-auth/internal/model"
)

type memoryUsers struct {
	mu        sync.Mutex
	byID      map[string]model.User
	createErr error
	findErr   error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]model.User{}}
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findErr != nil {
		return model.User{}, m.findErr
	}
	email = normalizeEmail(email)
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *memoryUsers) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return model.ErrUserAlreadyExists
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memoryUsers) UpdateProfile(_ context.Context, id string, update model.ProfileUpdate) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&u.Firstname, update.Firstname)
	apply(&u.Lastname, update.Lastname)
	apply(&u.Bio, update.Bio)
	apply(&u.Birthdate, update.Birthdate)
	apply(&u.Title, update.Title)
	apply(&u.ProfilePhoto, update.ProfilePhoto)
	apply(&u.CoverPhoto, update.CoverPhoto)
	apply(&u.ThemeMode, update.ThemeMode)
	apply(&u.ColorMode, update.ColorMode)
	m.byID[id] = u
	return u, nil
}

func (m *memoryUsers) ListSuggestions(_ context.Context, excludeID string, limit int) ([]model.UserSuggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.UserSuggestion, 0)
	for _, u := range m.byID {
		if u.ID == excludeID {
			continue
		}
		out = append(out, model.UserSuggestion{ID: u.ID, Email: u.Email, Firstname: u.Firstname})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryUsers) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

// memorySessions mirrors the table constraints: one row per (user, device)
// and one row per refresh token.
type memorySessions struct {
	mu        sync.Mutex
	byID      map[string]model.Session
	upsertErr error
	touched   []string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{byID: map[string]model.Session{}}
}

func (m *memorySessions) Upsert(_ context.Context, in model.SessionInput) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertErr != nil {
		return model.Session{}, m.upsertErr
	}

	now := time.Now().UTC()
	for id, s := range m.byID {
		if s.UserID == in.UserID && s.DeviceID == in.DeviceID {
			s.RefreshToken = in.RefreshToken
			s.IPAddress = in.IPAddress
			s.UserAgent = in.UserAgent
			s.LastActiveDate = now
			m.byID[id] = s
			return s, nil
		}
	}

	s := model.Session{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		DeviceID:       in.DeviceID,
		RefreshToken:   in.RefreshToken,
		LoginDate:      now,
		LastActiveDate: now,
		IPAddress:      in.IPAddress,
		UserAgent:      in.UserAgent,
	}
	m.byID[s.ID] = s
	return s, nil
}

func (m *memorySessions) FindByRefreshToken(_ context.Context, token string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.byID {
		if s.RefreshToken == token {
			return s, nil
		}
	}
	return model.Session{}, model.ErrSessionNotFound
}

func (m *memorySessions) DeleteByRefreshToken(_ context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.byID {
		if s.RefreshToken == token {
			delete(m.byID, id)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memorySessions) RotateRefreshToken(_ context.Context, oldToken string, newToken string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.byID {
		if s.RefreshToken == oldToken {
			s.RefreshToken = newToken
			s.LastActiveDate = time.Now().UTC()
			m.byID[id] = s
			return s, nil
		}
	}
	return model.Session{}, model.ErrSessionNotFound
}

func (m *memorySessions) Touch(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, sessionID)
	return nil
}

func (m *memorySessions) ListByUser(_ context.Context, userID string) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Session, 0)
	for _, s := range m.byID {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memorySessions) DeleteByIDForUser(_ context.Context, userID string, sessionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[sessionID]
	if !ok || s.UserID != userID {
		return 0, nil
	}
	delete(m.byID, sessionID)
	return 1, nil
}

func (m *memorySessions) DeleteInactive(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, s := range m.byID {
		if s.LastActiveDate.Before(cutoff) {
			delete(m.byID, id)
			n++
		}
	}
	return n, nil
}

func (m *memorySessions) all() []model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Session, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
