package model

import "time"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the claim set carried by access and refresh tokens.
// IssuedAt and ExpiresAt are filled in by the token service.
type TokenClaims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	Type      string    `json:"typ"`
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
