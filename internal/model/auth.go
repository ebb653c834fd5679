package model

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type RegisterInput struct {
	Firstname string
	Lastname  string
	Bio       string
	Birthdate string
	Title     string
	Email     string
	Password  string
}

type LoginResult struct {
	User         UserSummary `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// RefreshResult carries a new refresh token only when rotation is enabled.
type RefreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
