package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-social-auth/internal/event"
	"go-social-auth/internal/model"
	"go-social-auth/internal/util"
)

type userDirectory interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type sessionRegistry interface {
	Upsert(ctx context.Context, in model.SessionInput) (model.Session, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (model.Session, error)
	DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error)
	RotateRefreshToken(ctx context.Context, oldToken string, newToken string) (model.Session, error)
	Touch(ctx context.Context, sessionID string) error
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext string, hash string) (bool, error)
}

type tokenIssuer interface {
	IssuePair(subject string, email string) (model.TokenPair, error)
	IssueAccess(subject string, email string) (string, error)
	IssueRefresh(subject string, email string) (string, error)
	Verify(token string) (*model.TokenClaims, error)
}

// AuthService drives login, registration, access-token refresh and logout.
// It holds no per-request state.
type AuthService struct {
	users    userDirectory
	sessions sessionRegistry
	hasher   passwordHasher
	tokens   tokenIssuer
	events   event.Publisher
	rotate   bool
	now      func() time.Time
}

func NewAuthService(users userDirectory, sessions sessionRegistry, hasher passwordHasher, tokens tokenIssuer, events event.Publisher, rotateRefreshTokens bool) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		events:   events,
		rotate:   rotateRefreshTokens,
		now:      time.Now,
	}
}

// Login checks the credentials and opens a session for a new device. Unknown
// email and wrong password both yield model.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in model.LoginInput) (model.LoginResult, error) {
	actor := event.ActorFromContext(ctx)
	actor.Email = normalizeEmail(in.Email)

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		s.publishFailure(event.TypeLoginFailed, actor, "unknown email")
		return model.LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		slog.Error("login: user lookup failed", "error", err)
		return model.LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Compare(in.Password, user.PasswordHash)
	if err != nil {
		slog.Error("login: stored hash unusable", "user_id", user.ID, "error", err)
		return model.LoginResult{}, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		actor.UserID = user.ID
		s.publishFailure(event.TypeLoginFailed, actor, "wrong password")
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("issue tokens: %w", err)
	}

	session, err := s.sessions.Upsert(ctx, model.SessionInput{
		UserID:       user.ID,
		DeviceID:     deviceID(in.IPAddress, in.UserAgent, s.now()),
		RefreshToken: pair.RefreshToken,
		IPAddress:    in.IPAddress,
		UserAgent:    in.UserAgent,
	})
	if err != nil {
		slog.Error("login: session upsert failed", "user_id", user.ID, "error", err)
		return model.LoginResult{}, fmt.Errorf("open session: %w", err)
	}

	actor.UserID = user.ID
	s.publish(event.TypeLogin, actor, session.ID, map[string]string{
		"deviceId":  session.DeviceID,
		"userAgent": session.UserAgent,
	})

	return model.LoginResult{
		User:         model.UserSummary{ID: user.ID, Email: user.Email},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Register creates an account. It does not log the new user in.
func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (model.PublicUser, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return model.PublicUser{}, model.ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return model.PublicUser{}, model.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Firstname:    util.CleanText(in.Firstname, false),
		Lastname:     util.CleanText(in.Lastname, false),
		Bio:          util.CleanText(in.Bio, true),
		Birthdate:    strings.TrimSpace(in.Birthdate),
		Title:        util.CleanText(in.Title, false),
		ProfilePhoto: model.DefaultProfilePhoto,
		CoverPhoto:   model.DefaultCoverPhoto,
		ThemeMode:    model.DefaultThemeMode,
		ColorMode:    model.DefaultColorMode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// A concurrent registration can pass the existence check; the unique
	// index still rejects the second insert.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.PublicUser{}, err
		}
		return model.PublicUser{}, fmt.Errorf("create user: %w", err)
	}

	actor := event.ActorFromContext(ctx)
	actor.UserID = user.ID
	actor.Email = user.Email
	s.publish(event.TypeRegister, actor, user.ID, nil)

	return user.Public(), nil
}

// RefreshAccessToken mints a new access token for a live session. With
// rotation enabled the session's refresh token is replaced as well, and only
// one of two concurrent refreshes with the same token succeeds.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (model.RefreshResult, error) {
	actor := event.ActorFromContext(ctx)

	claims, err := s.tokens.Verify(refreshToken)
	if err != nil || claims.Type != model.TokenTypeRefresh {
		s.publishFailure(event.TypeRefreshFailed, actor, "token rejected")
		return model.RefreshResult{}, model.ErrInvalidRefreshToken
	}
	actor.UserID = claims.Subject

	session, err := s.sessions.FindByRefreshToken(ctx, refreshToken)
	if errors.Is(err, model.ErrSessionNotFound) {
		s.publishFailure(event.TypeRefreshFailed, actor, "no session")
		return model.RefreshResult{}, model.ErrInvalidRefreshToken
	}
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("find session: %w", err)
	}
	if session.UserID != claims.Subject {
		s.publishFailure(event.TypeRefreshFailed, actor, "subject mismatch")
		return model.RefreshResult{}, model.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.RefreshResult{}, err
		}
		return model.RefreshResult{}, fmt.Errorf("find user: %w", err)
	}
	actor.Email = user.Email

	access, err := s.tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("issue access token: %w", err)
	}

	if !s.rotate {
		if err := s.sessions.Touch(ctx, session.ID); err != nil {
			slog.Warn("refresh: touch session failed", "session_id", session.ID, "error", err)
		}
		s.publish(event.TypeRefresh, actor, session.ID, nil)
		return model.RefreshResult{AccessToken: access}, nil
	}

	next, err := s.tokens.IssueRefresh(user.ID, user.Email)
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("issue refresh token: %w", err)
	}

	if _, err := s.sessions.RotateRefreshToken(ctx, refreshToken, next); err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			s.publishFailure(event.TypeRefreshFailed, actor, "rotation lost")
			return model.RefreshResult{}, model.ErrInvalidRefreshToken
		}
		return model.RefreshResult{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	s.publish(event.TypeRefreshRotated, actor, session.ID, nil)
	return model.RefreshResult{AccessToken: access, RefreshToken: next}, nil
}

// Logout ends the caller's session holding refreshToken. An unknown token, or
// one belonging to another user, removes nothing and still succeeds.
func (s *AuthService) Logout(ctx context.Context, userID string, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)

	var deleted int64
	if refreshToken != "" {
		session, err := s.sessions.FindByRefreshToken(ctx, refreshToken)
		switch {
		case errors.Is(err, model.ErrSessionNotFound):
		case err != nil:
			return fmt.Errorf("find session: %w", err)
		case session.UserID != userID:
			slog.Warn("logout: refresh token belongs to another user", "user_id", userID, "session_id", session.ID)
		default:
			n, err := s.sessions.DeleteByRefreshToken(ctx, refreshToken)
			if err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			deleted = n
		}
	}

	s.publish(event.TypeLogout, event.ActorFromContext(ctx), "", map[string]int64{"sessionsRemoved": deleted})
	return nil
}

func (s *AuthService) publish(typ event.Type, actor event.Actor, resource string, payload any) {
	if s.events == nil {
		return
	}
	e := event.New(typ, actor)
	e.Resource = resource
	e.Payload = payload
	s.events.Publish(e)
}

func (s *AuthService) publishFailure(typ event.Type, actor event.Actor, reason string) {
	if s.events == nil {
		return
	}
	e := event.New(typ, actor)
	e.Failed = true
	e.Reason = reason
	s.events.Publish(e)
}

// deviceID is unique per login: two logins from the same client get distinct
// sessions.
func deviceID(ip string, userAgent string, at time.Time) string {
	sum := sha256.Sum256([]byte(ip + "|" + userAgent + "|" + strconv.FormatInt(at.UnixNano(), 10)))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
