package models

import (
	"database/sql"
	"time"
)

// User is the database representation of a platform account.
type User struct {
	UserID        string         `db:"user_id"`
	Username      string         `db:"username"`
	Email         string         `db:"email"`
	FullName      string         `db:"full_name"`
	AvatarURL     string         `db:"avatar_url"`
	CoverImageURL sql.NullString `db:"cover_image_url"`
	PasswordHash  sql.NullString `db:"password_hash"`

	AuthProvider   string         `db:"auth_provider"`
	ProviderUserID sql.NullString `db:"provider_user_id"`

	// Refresh token at rest: SHA-256 digest of the last issued token plus its expiry.
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
