package service

import (
	"context"
	"log/slog"
	"time"

	"go-social-auth/internal/event"
	"go-social-auth/internal/model"
)

type auditLogger interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	List(ctx context.Context, q model.AuditQuery) ([]model.AuditEntry, int, error)
}

const (
	defaultAuditLimit = 20
	maxAuditLimit     = 100
)

// AuditService persists bus events as audit entries.
type AuditService struct {
	repo         auditLogger
	writeTimeout time.Duration
}

func NewAuditService(repo auditLogger) *AuditService {
	return &AuditService{repo: repo, writeTimeout: 5 * time.Second}
}

// Run consumes events until ctx is done or the channel is closed.
func (s *AuditService) Run(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			s.record(ctx, e)
		}
	}
}

// List pages through recorded entries, newest first.
func (s *AuditService) List(ctx context.Context, q model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultAuditLimit
	}
	if q.Limit > maxAuditLimit {
		q.Limit = maxAuditLimit
	}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return items, model.NewMeta(q.Page, q.Limit, total), nil
}

func (s *AuditService) record(ctx context.Context, e event.Event) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	if err := s.repo.Log(writeCtx, toAuditEntry(e)); err != nil {
		slog.Error("audit write failed", "type", string(e.Type), "event_id", e.ID, "error", err)
	}
}

func toAuditEntry(e event.Event) model.AuditEntry {
	status := "success"
	if e.Failed {
		status = "failed"
	}

	return model.AuditEntry{
		Action:     string(e.Type),
		OccurredAt: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Actor: model.AuditActor{
			UserID: e.Actor.UserID,
			Email:  e.Actor.Email,
			IP:     e.Actor.IP,
		},
		Status:   status,
		Resource: e.Resource,
		Details:  e.Payload,
		Error:    e.Reason,
	}
}
