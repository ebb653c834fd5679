package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-social-auth/internal/event"
	"go-social-auth/internal/model"
)

type sessionStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Session, error)
	DeleteByIDForUser(ctx context.Context, userID string, sessionID string) (int64, error)
	DeleteInactive(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionService exposes a user's device sessions and prunes idle ones.
type SessionService struct {
	store   sessionStore
	events  event.Publisher
	maxIdle time.Duration
	now     func() time.Time
}

// NewSessionService prunes sessions idle for longer than maxIdle, which
// should match the refresh token lifetime.
func NewSessionService(store sessionStore, events event.Publisher, maxIdle time.Duration) *SessionService {
	return &SessionService{store: store, events: events, maxIdle: maxIdle, now: time.Now}
}

func (s *SessionService) List(ctx context.Context, userID string) ([]model.SessionView, error) {
	sessions, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]model.SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, model.SessionView{
			ID:             session.ID,
			DeviceID:       session.DeviceID,
			LoginDate:      session.LoginDate,
			LastActiveDate: session.LastActiveDate,
			IPAddress:      session.IPAddress,
			UserAgent:      session.UserAgent,
		})
	}
	return views, nil
}

// Revoke deletes one of userID's sessions. Sessions of other users are
// reported as not found.
func (s *SessionService) Revoke(ctx context.Context, userID string, sessionID string) error {
	n, err := s.store.DeleteByIDForUser(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrSessionNotFound
	}

	if s.events != nil {
		actor := event.ActorFromContext(ctx)
		actor.UserID = userID
		e := event.New(event.TypeSessionRevoked, actor)
		e.Resource = sessionID
		s.events.Publish(e)
	}
	return nil
}

func (s *SessionService) PruneInactive(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.maxIdle)
	n, err := s.store.DeleteInactive(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return n, nil
}

// RunCleanup prunes idle sessions every interval until ctx is done.
func (s *SessionService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PruneInactive(ctx)
			if err != nil {
				slog.Error("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("session cleanup", "removed", n)
			}
		}
	}
}
