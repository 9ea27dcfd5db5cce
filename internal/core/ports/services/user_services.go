package services

import (
	"context"

	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	"github.com/VidMosaic/vid_mosaic_app/internal/dto"
)

// CreateLocalUserParams carries everything needed to create a password-based
// account. The plaintext password is hashed inside the service and never stored.
type CreateLocalUserParams struct {
	Username      string
	Email         string
	FullName      string
	Password      string
	AvatarURL     string
	CoverImageURL string
}

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// CreateLocalUser creates a password-based account after hashing the password.
	CreateLocalUser(ctx context.Context, params CreateLocalUserParams) (*domain.User, error)

	// FindOrCreateGoogleUser resolves a verified Google identity to an account,
	// creating one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)

	// UpdateAccountDetails updates full name and/or email.
	UpdateAccountDetails(ctx context.Context, userID string, req dto.UpdateAccountRequest) (*domain.User, error)

	// UpdateAvatar replaces the avatar reference.
	UpdateAvatar(ctx context.Context, userID string, avatarURL string) (*domain.User, error)

	// UpdateCoverImage replaces the cover image reference.
	UpdateCoverImage(ctx context.Context, userID string, coverImageURL string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
