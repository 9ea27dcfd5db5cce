package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portsrepo "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/repositories"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/dto"
	"github.com/VidMosaic/vid_mosaic_app/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// CreateLocalUser hashes the password and persists a password-based account.
// The plaintext is never stored and never appears in the returned user.
func (s *userService) CreateLocalUser(ctx context.Context, params portssvc.CreateLocalUserParams) (*domain.User, error) {
	passwordHash, err := utils.HashPassword(params.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:        uuid.NewString(),
		Username:      strings.ToLower(params.Username),
		Email:         params.Email,
		FullName:      params.FullName,
		AvatarURL:     params.AvatarURL,
		CoverImageURL: params.CoverImageURL,
		AuthProvider:  domain.ProviderLocal,
		PasswordHash:  &passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// FindOrCreateGoogleUser resolves a verified Google identity to an account,
// creating one on first sign-in. Google accounts have no password hash; the
// profile picture satisfies the required-avatar rule.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	user, err := s.userRepo.FindUserByProviderDetails(ctx, string(domain.ProviderGoogle), info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	username := googleUsername(info.Email)
	providerID := info.ID
	now := time.Now()
	newUser := domain.User{
		UserID:         uuid.NewString(),
		Username:       username,
		Email:          info.Email,
		FullName:       info.Name,
		AvatarURL:      info.Picture,
		AuthProvider:   domain.ProviderGoogle,
		ProviderUserID: &providerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	err = s.userRepo.SaveUser(ctx, newUser)
	if errors.Is(err, apperrors.ErrDuplicate) {
		// Username taken by a local account; retry once with a random suffix.
		newUser.Username = fmt.Sprintf("%s-%s", username, uuid.NewString()[:8])
		err = s.userRepo.SaveUser(ctx, newUser)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}
	return &newUser, nil
}

func googleUsername(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}
	return strings.ToLower(local)
}

func (s *userService) UpdateAccountDetails(ctx context.Context, userID string, req dto.UpdateAccountRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName == nil && req.Email == nil {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}
	if req.FullName != nil {
		if strings.TrimSpace(*req.FullName) == "" {
			return nil, fmt.Errorf("%w: fullName must not be empty", apperrors.ErrValidation)
		}
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return nil, fmt.Errorf("%w: email must not be empty", apperrors.ErrValidation)
		}
		user.Email = *req.Email
	}
	user.LastUpdatedAt = time.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, avatarURL string) (*domain.User, error) {
	return s.updateMediaURL(ctx, userID, avatarURL, true)
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID string, coverImageURL string) (*domain.User, error) {
	return s.updateMediaURL(ctx, userID, coverImageURL, false)
}

func (s *userService) updateMediaURL(ctx context.Context, userID string, url string, isAvatar bool) (*domain.User, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: media URL must not be empty", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if isAvatar {
		user.AvatarURL = url
	} else {
		user.CoverImageURL = url
	}
	user.LastUpdatedAt = time.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}
