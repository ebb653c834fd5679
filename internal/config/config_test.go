package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/social")
	t.Setenv("ACCESS_TOKEN_EXPIRES", "")
	t.Setenv("REFRESH_TOKEN_EXPIRES", "")
	t.Setenv("PASSWORD_SALT", "")
	t.Setenv("REFRESH_TOKEN_ROTATION", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 10, cfg.PasswordCost)
	require.False(t, cfg.RefreshTokenRotation)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/social")
	t.Setenv("ACCESS_TOKEN_EXPIRES", "5m")
	t.Setenv("REFRESH_TOKEN_EXPIRES", "48h")
	t.Setenv("PASSWORD_SALT", "12")
	t.Setenv("REFRESH_TOKEN_ROTATION", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 48*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 12, cfg.PasswordCost)
	require.True(t, cfg.RefreshTokenRotation)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadTrustedProxies(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/social")

	t.Run("unset trusts nobody", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "")
		cfg, err := Load()
		require.NoError(t, err)
		require.Empty(t, cfg.TrustedProxies)
	})

	t.Run("addresses and ranges", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.5 ,2001:db8::1")
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, []netip.Prefix{
			netip.MustParsePrefix("10.0.0.0/8"),
			netip.MustParsePrefix("192.168.1.5/32"),
			netip.MustParsePrefix("2001:db8::1/128"),
		}, cfg.TrustedProxies)
	})

	t.Run("malformed entry fails loudly", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,proxy.internal")
		_, err := Load()
		require.ErrorContains(t, err, "TRUSTED_PROXIES")
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			ServerPort:      "8080",
			RequestTimeout:  time.Second,
			DatabaseURL:     "postgres://localhost/social",
			DBMaxConns:      4,
			DBMinConns:      1,
			JWTSecret:       "secret",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
			PasswordCost:    10,
			LogFormat:       "text",
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := valid()
		cfg.JWTSecret = " "
		require.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("refresh ttl must outlive access ttl", func(t *testing.T) {
		cfg := valid()
		cfg.RefreshTokenTTL = time.Minute
		require.ErrorContains(t, cfg.Validate(), "REFRESH_TOKEN_EXPIRES")
	})

	t.Run("bcrypt cost out of range", func(t *testing.T) {
		cfg := valid()
		cfg.PasswordCost = 2
		require.ErrorContains(t, cfg.Validate(), "PASSWORD_SALT")
	})

	t.Run("unknown log format", func(t *testing.T) {
		cfg := valid()
		cfg.LogFormat = "xml"
		require.ErrorContains(t, cfg.Validate(), "LOG_FORMAT")
	})
}
