package model

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type RegisterRequest struct {
	Firstname string `json:"firstname" validate:"required,min=1,max=50"`
	Lastname  string `json:"lastname" validate:"omitempty,max=50"`
	Bio       string `json:"bio"`
	Birthdate string `json:"birthdate" validate:"required"`
	Title     string `json:"title"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateThemeRequest struct {
	ThemeMode *string `json:"themeMode" validate:"omitempty,max=50"`
	ColorMode *string `json:"colorMode" validate:"omitempty,max=50"`
}

type UpdateProfileRequest struct {
	Firstname    *string `json:"firstname" validate:"omitempty,min=1,max=100"`
	Lastname     *string `json:"lastname" validate:"omitempty,max=100"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
	Birthdate    *string `json:"birthdate" validate:"omitempty,min=1"`
	Title        *string `json:"title" validate:"omitempty,max=100"`
	ProfilePhoto *string `json:"profilePhoto" validate:"omitempty,max=2048"`
	CoverPhoto   *string `json:"coverPhoto" validate:"omitempty,max=2048"`
}

type CreatePostRequest struct {
	Content string `json:"content" validate:"max=2000"`
	Image   string `json:"image" validate:"omitempty,url"`
}

type UpdatePostRequest struct {
	Content *string `json:"content" validate:"omitempty,max=2000"`
	Image   *string `json:"image" validate:"omitempty,url"`
}
