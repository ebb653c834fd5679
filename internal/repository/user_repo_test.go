package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-social-auth/internal/model"
)

var userColumnNames = []string{
	"id", "email", "password_hash", "firstname", "lastname", "bio", "birthdate", "title",
	"profile_photo", "cover_photo", "theme_mode", "color_mode",
	"followings_count", "followers_count", "created_at", "updated_at",
}

func userRow(rows *pgxmock.Rows, id string, email string, now time.Time) *pgxmock.Rows {
	return rows.AddRow(id, email, "$2a$10$hash", "Ada", "Lovelace", "", "1815-12-10", "",
		model.DefaultProfilePhoto, model.DefaultCoverPhoto, model.DefaultThemeMode, model.DefaultColorMode,
		0, 0, now, now)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	now := time.Now().UTC()

	t.Run("normalizes the address before lookup", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("ada@example.com").
			WillReturnRows(userRow(pgxmock.NewRows(userColumnNames), "user-1", "ada@example.com", now))

		got, err := NewUserRepository(mock).FindByEmail(context.Background(), "  Ada@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.ID)
		assert.Equal(t, "$2a$10$hash", got.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := NewUserRepository(mock).FindByEmail(context.Background(), "nobody@example.com")
		require.ErrorIs(t, err, model.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewUserRepository(mock).FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("a@b.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewUserRepository(mock).ExistsByEmail(context.Background(), "A@B.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	now := time.Now().UTC()
	user := model.User{
		ID:           "user-1",
		Email:        "a@b.com",
		PasswordHash: "$2a$10$hash",
		ProfilePhoto: model.DefaultProfilePhoto,
		CoverPhoto:   model.DefaultCoverPhoto,
		ThemeMode:    model.DefaultThemeMode,
		ColorMode:    model.DefaultColorMode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "inserts the user",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation on email is a duplicate",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})
			},
			wantErr: model.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.setupMock(mock)

			err := NewUserRepository(mock).Create(context.Background(), user)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	now := time.Now().UTC()
	theme := "darkMode"

	mock := newMockPool(t)
	mock.ExpectQuery(`UPDATE users SET`).
		WithArgs("user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(userRow(pgxmock.NewRows(userColumnNames), "user-1", "a@b.com", now))

	got, err := NewUserRepository(mock).UpdateProfile(context.Background(), "user-1", model.ProfileUpdate{ThemeMode: &theme})
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	err := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}
	require.True(t, isUniqueViolation(err, "users_email_key"))
	require.True(t, isUniqueViolation(err, ""))
	require.False(t, isUniqueViolation(err, "sessions_refresh_token_key"))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ""))
	require.False(t, isUniqueViolation(nil, ""))
}
