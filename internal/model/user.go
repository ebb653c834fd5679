package model

import "time"

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Firstname       string    `json:"firstname"`
	Lastname        string    `json:"lastname"`
	Bio             string    `json:"bio"`
	Birthdate       string    `json:"birthdate"`
	Title           string    `json:"title"`
	ProfilePhoto    string    `json:"profilePhoto"`
	CoverPhoto      string    `json:"coverPhoto"`
	ThemeMode       string    `json:"themeMode"`
	ColorMode       string    `json:"colorMode"`
	FollowingsCount int       `json:"followingsCount"`
	FollowersCount  int       `json:"followersCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

const (
	DefaultProfilePhoto = "avatar"
	DefaultCoverPhoto   = "cover"
	DefaultThemeMode    = "lightMode"
	DefaultColorMode    = "royalblue"
)

// PublicUser is the projection of a user that is safe to return to clients.
type PublicUser struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Firstname       string    `json:"firstname"`
	Lastname        string    `json:"lastname"`
	Bio             string    `json:"bio"`
	Birthdate       string    `json:"birthdate"`
	Title           string    `json:"title"`
	ProfilePhoto    string    `json:"profilePhoto"`
	CoverPhoto      string    `json:"coverPhoto"`
	ThemeMode       string    `json:"themeMode"`
	ColorMode       string    `json:"colorMode"`
	FollowingsCount int       `json:"followingsCount"`
	FollowersCount  int       `json:"followersCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		Firstname:       u.Firstname,
		Lastname:        u.Lastname,
		Bio:             u.Bio,
		Birthdate:       u.Birthdate,
		Title:           u.Title,
		ProfilePhoto:    u.ProfilePhoto,
		CoverPhoto:      u.CoverPhoto,
		ThemeMode:       u.ThemeMode,
		ColorMode:       u.ColorMode,
		FollowingsCount: u.FollowingsCount,
		FollowersCount:  u.FollowersCount,
		CreatedAt:       u.CreatedAt,
	}
}

type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type UserSuggestion struct {
	ID           string `json:"id"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	Title        string `json:"title"`
	ProfilePhoto string `json:"profilePhoto"`
}

type ProfileUpdate struct {
	Firstname    *string
	Lastname     *string
	Bio          *string
	Birthdate    *string
	Title        *string
	ProfilePhoto *string
	CoverPhoto   *string
	ThemeMode    *string
	ColorMode    *string
}
