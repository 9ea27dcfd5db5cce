package domain

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User represents an account holder on the platform. The password hash and the
// stored refresh-token hash never leave the service layer; they are excluded
// from JSON serialization outright.
type User struct {
	UserID        string       `json:"userID"`
	Username      string       `json:"username"` // stored lowercase, unique case-insensitively
	Email         string       `json:"email"`
	FullName      string       `json:"fullName"`
	AvatarURL     string       `json:"avatarURL"`
	CoverImageURL string       `json:"coverImageURL,omitempty"`
	AuthProvider  AuthProvider `json:"-"`

	// PasswordHash is nil for users created through an external provider.
	PasswordHash   *string `json:"-"`
	ProviderUserID *string `json:"-"`

	// RefreshTokenHash holds the SHA-256 digest of the most recently issued
	// refresh token. Nil after logout. At most one live refresh token per user;
	// rotation invalidates every prior token.
	RefreshTokenHash       *string    `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
}

// GoogleUserInfo mirrors the payload returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
