package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-social-auth/internal/model"
)

const testSecret = "test-secret-with-enough-entropy"

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.at
}

func (c *fakeClock) Advance(d time.Duration) {
	c.at = c.at.Add(d)
}

func newTestClock() *fakeClock {
	return &fakeClock{at: time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	svc := NewTokenService(testSecret, 10*time.Minute, 7*24*time.Hour, WithClock(clock.Now))

	token, err := svc.Issue(model.TokenClaims{Subject: "user-1", Email: "a@b.com", Type: model.TokenTypeAccess}, time.Minute)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, model.TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.TokenID)
	assert.Equal(t, clock.Now().Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, clock.Now().Add(time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenService_Expiry(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	svc := NewTokenService(testSecret, time.Minute, time.Hour, WithClock(clock.Now))

	token, err := svc.Issue(model.TokenClaims{Subject: "user-1", Type: model.TokenTypeAccess}, time.Minute)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, model.ErrExpiredToken)
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, time.Minute, time.Hour)
	other := NewTokenService("a-different-secret", time.Minute, time.Hour)

	foreign, err := other.IssueAccess("user-1", "a@b.com")
	require.NoError(t, err)

	valid, err := svc.IssueAccess("user-1", "a@b.com")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"typ": model.TokenTypeAccess,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"typ": model.TokenTypeAccess,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "signed with another secret", token: foreign},
		{name: "tampered signature", token: valid[:len(valid)-2] + "xx"},
		{name: "alg none", token: unsigned},
		{name: "missing exp", token: noExpiry},
		{name: "garbage", token: "not.a.jwt"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			require.ErrorIs(t, err, model.ErrInvalidToken)
		})
	}
}

func TestTokenService_IssuePair(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	svc := NewTokenService(testSecret, 10*time.Minute, 7*24*time.Hour, WithClock(clock.Now))

	pair, err := svc.IssuePair("user-1", "a@b.com")
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := svc.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.TokenTypeAccess, access.Type)
	assert.Equal(t, 10*time.Minute, access.ExpiresAt.Sub(access.IssuedAt))

	refresh, err := svc.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, model.TokenTypeRefresh, refresh.Type)
	assert.Equal(t, 7*24*time.Hour, refresh.ExpiresAt.Sub(refresh.IssuedAt))
	assert.Equal(t, "user-1", refresh.Subject)
}

func TestTokenService_SameSecondTokensDiffer(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	svc := NewTokenService(testSecret, time.Minute, time.Hour, WithClock(clock.Now))

	first, err := svc.IssueRefresh("user-1", "a@b.com")
	require.NoError(t, err)
	second, err := svc.IssueRefresh("user-1", "a@b.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenService_EmptySubject(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(testSecret, time.Minute, time.Hour).Issue(model.TokenClaims{}, time.Minute)
	require.Error(t, err)
}
