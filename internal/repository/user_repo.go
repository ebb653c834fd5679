package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"go-social-auth/internal/model"
)

const userColumns = `id, email, password_hash, firstname, lastname, bio, birthdate, title,
		        profile_photo, cover_photo, theme_mode, color_mode,
		        followings_count, followers_count, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Firstname, &u.Lastname, &u.Bio,
		&u.Birthdate, &u.Title, &u.ProfilePhoto, &u.CoverPhoto, &u.ThemeMode, &u.ColorMode,
		&u.FollowingsCount, &u.FollowersCount, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email)))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		normalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// Create inserts u. The unique index on email is the authoritative duplicate
// guard; a violation is reported as model.ErrUserAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, firstname, lastname, bio, birthdate, title,
		                    profile_photo, cover_photo, theme_mode, color_mode, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		u.ID, normalizeEmail(u.Email), u.PasswordHash, u.Firstname, u.Lastname, u.Bio, u.Birthdate, u.Title,
		u.ProfilePhoto, u.CoverPhoto, u.ThemeMode, u.ColorMode, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err, "users_email_key") {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateProfile applies the non-nil fields of update and returns the stored row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET
		    firstname     = COALESCE($2, firstname),
		    lastname      = COALESCE($3, lastname),
		    bio           = COALESCE($4, bio),
		    birthdate     = COALESCE($5, birthdate),
		    title         = COALESCE($6, title),
		    profile_photo = COALESCE($7, profile_photo),
		    cover_photo   = COALESCE($8, cover_photo),
		    theme_mode    = COALESCE($9, theme_mode),
		    color_mode    = COALESCE($10, color_mode),
		    updated_at    = $11
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, update.Firstname, update.Lastname, update.Bio, update.Birthdate, update.Title,
		update.ProfilePhoto, update.CoverPhoto, update.ThemeMode, update.ColorMode, time.Now().UTC()))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update user profile: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ListSuggestions(ctx context.Context, excludeID string, limit int) ([]model.UserSuggestion, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, firstname, lastname, email, title, profile_photo
		 FROM users WHERE id <> $1
		 ORDER BY created_at DESC
		 LIMIT $2`, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.UserSuggestion, 0)
	for rows.Next() {
		var u model.UserSuggestion
		if err := rows.Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.Title, &u.ProfilePhoto); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
