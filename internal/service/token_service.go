package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-social-auth/internal/model"
)

type tokenClaims struct {
	Email string `json:"email"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access and refresh tokens with a
// single shared secret.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(secret string, accessTTL time.Duration, refreshTTL time.Duration, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// Issue signs claims with iat set to now and exp to now+ttl. A fresh jti is
// generated when claims.TokenID is empty.
func (s *TokenService) Issue(claims model.TokenClaims, ttl time.Duration) (string, error) {
	if claims.Subject == "" {
		return "", fmt.Errorf("issue token: empty subject")
	}

	jti := claims.TokenID
	if jti == "" {
		jti = uuid.NewString()
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: claims.Email,
		Type:  claims.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Expired tokens yield
// model.ErrExpiredToken; every other failure is model.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*model.TokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, model.ErrExpiredToken
	}
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, model.ErrInvalidToken
	}

	out := &model.TokenClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Type:    claims.Type,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// IssuePair mints an access token and a refresh token for subject using the
// configured lifetimes.
func (s *TokenService) IssuePair(subject string, email string) (model.TokenPair, error) {
	access, err := s.IssueAccess(subject, email)
	if err != nil {
		return model.TokenPair{}, err
	}

	refresh, err := s.IssueRefresh(subject, email)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) IssueAccess(subject string, email string) (string, error) {
	return s.Issue(model.TokenClaims{Subject: subject, Email: email, Type: model.TokenTypeAccess}, s.accessTTL)
}

func (s *TokenService) IssueRefresh(subject string, email string) (string, error) {
	return s.Issue(model.TokenClaims{Subject: subject, Email: email, Type: model.TokenTypeRefresh}, s.refreshTTL)
}
