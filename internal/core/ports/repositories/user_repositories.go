package repositories

import (
	"context"
	"time"

	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
)

// UserReader defines read operations against the credential store.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username (case-insensitive).
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByUsernameOrEmail resolves a login identifier against either
	// unique field in a single query.
	FindUserByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)

	// FindUserByProviderDetails retrieves a user created through an external
	// auth provider.
	FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error)
}

// UserWriter defines write operations against the credential store.
type UserWriter interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicate when the
	// username or email uniqueness constraint is violated.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates profile fields (full name, email, avatar, cover image).
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
}

// RefreshTokenManager owns the single-active-session refresh token slot per user.
type RefreshTokenManager interface {
	// UpdateRefreshToken unconditionally installs a new refresh token hash
	// (login path: any previous session is silently ended).
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// RotateRefreshToken atomically swaps oldHash for newHash. The update is a
	// compare-and-set on the stored hash: when the stored value no longer
	// equals oldHash (concurrent rotation, logout, or token theft replay) it
	// affects zero rows and returns apperrors.ErrUnauthorized.
	RotateRefreshToken(ctx context.Context, userID string, oldHash string, newHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken removes the stored refresh token. Safe to call when
	// none is set.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	RefreshTokenManager
}
