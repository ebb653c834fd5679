package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"go-social-auth/internal/model"
)

const sessionColumns = `id, user_id, device_id, refresh_token, login_date, last_active_date, ip_address, user_agent`

// SessionRepository is the session registry: at most one row per
// (user, device), each holding the single live refresh token for it.
type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func scanSession(row pgx.Row) (model.Session, error) {
	var s model.Session
	err := row.Scan(&s.ID, &s.UserID, &s.DeviceID, &s.RefreshToken,
		&s.LoginDate, &s.LastActiveDate, &s.IPAddress, &s.UserAgent)
	return s, err
}

// Upsert creates the session for (UserID, DeviceID) or, when it already
// exists, replaces its refresh token and client metadata and bumps
// last_active_date. A retry with identical input lands on the same row.
func (r *SessionRepository) Upsert(ctx context.Context, in model.SessionInput) (model.Session, error) {
	now := time.Now().UTC()
	s, err := scanSession(r.db.QueryRow(ctx,
		`INSERT INTO sessions (id, user_id, device_id, refresh_token, login_date, last_active_date, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $5, $6, $7)
		 ON CONFLICT (user_id, device_id) DO UPDATE SET
		    refresh_token    = EXCLUDED.refresh_token,
		    ip_address       = EXCLUDED.ip_address,
		    user_agent       = EXCLUDED.user_agent,
		    last_active_date = EXCLUDED.last_active_date
		 RETURNING `+sessionColumns,
		uuid.NewString(), in.UserID, in.DeviceID, in.RefreshToken, now, in.IPAddress, in.UserAgent))
	if err != nil {
		return model.Session{}, fmt.Errorf("upsert session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (model.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token = $1`, refreshToken))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Session{}, model.ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("find session by refresh token: %w", err)
	}
	return s, nil
}

// DeleteByRefreshToken removes the session holding refreshToken. Deleting
// nothing is not an error.
func (r *SessionRepository) DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE refresh_token = $1`, refreshToken)
	if err != nil {
		return 0, fmt.Errorf("delete session by refresh token: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RotateRefreshToken swaps oldToken for newToken in a single conditional
// update. When two callers race on the same oldToken only one matches; the
// other gets model.ErrSessionNotFound.
func (r *SessionRepository) RotateRefreshToken(ctx context.Context, oldToken string, newToken string) (model.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx,
		`UPDATE sessions SET refresh_token = $2, last_active_date = $3
		 WHERE refresh_token = $1
		 RETURNING `+sessionColumns,
		oldToken, newToken, time.Now().UTC()))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Session{}, model.ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("rotate refresh token: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Touch(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE sessions SET last_active_date = $2 WHERE id = $1`,
		sessionID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]model.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1
		 ORDER BY last_active_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) DeleteByIDForUser(ctx context.Context, userID string, sessionID string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete session: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteInactive drops sessions not used since cutoff; their refresh tokens
// have expired by then.
func (r *SessionRepository) DeleteInactive(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE last_active_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete inactive sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
