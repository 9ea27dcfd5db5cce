package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portsrepo "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/repositories"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/dto"
	"github.com/VidMosaic/vid_mosaic_app/internal/utils"
)

// authService is the session manager: it coordinates the credential store,
// password hasher and token issuer across login, logout, refresh and
// password-change flows. All durable state lives in the store; concurrent
// operations share nothing in-process except read-only configuration.
type authService struct {
	userRepo     portsrepo.UserRepositoryFacade
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	media        portssvc.MediaUploader
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo portsrepo.UserRepositoryFacade,
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
	media portssvc.MediaUploader,
) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:     userRepo,
		userService:  userService,
		tokenService: tokenService,
		media:        media,
	}
}

// Register validates the request, checks uniqueness, uploads media and creates
// the user. Upload failures are request-level errors and are not retried.
func (s *authService) Register(ctx context.Context, req dto.RegisterUserRequest, avatar *portssvc.FileUpload, coverImage *portssvc.FileUpload) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" || req.Email == "" || req.FullName == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: fullName, email, username and password are required", apperrors.ErrValidation)
	}
	if avatar == nil {
		return nil, fmt.Errorf("%w: avatar file is required", apperrors.ErrValidation)
	}

	// Pre-check both unique fields so the caller gets a conflict before any
	// media is uploaded; the store's unique constraints remain the backstop.
	if err := s.checkIdentifierAvailable(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	avatarURL, err := s.media.Upload(ctx, portssvc.MediaFolderAvatars, avatar)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusBadGateway, "failed to upload avatar", err)
	}

	var coverImageURL string
	if coverImage != nil {
		coverImageURL, err = s.media.Upload(ctx, portssvc.MediaFolderCovers, coverImage)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusBadGateway, "failed to upload cover image", err)
		}
	}

	return s.userService.CreateLocalUser(ctx, portssvc.CreateLocalUserParams{
		Username:      req.Username,
		Email:         req.Email,
		FullName:      req.FullName,
		Password:      req.Password,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
	})
}

func (s *authService) checkIdentifierAvailable(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.FindUserByUsername(ctx, username); err == nil {
		return fmt.Errorf("username already taken: %w", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check username availability: %w", err)
	}
	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return fmt.Errorf("email already registered: %w", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check email availability: %w", err)
	}
	return nil
}

// Login authenticates by username or email. An unknown identifier and a wrong
// password both surface the same ErrUnauthorized so the endpoint cannot be
// used to enumerate accounts.
func (s *authService) Login(ctx context.Context, identifier string, password string) (*dto.LoginResponse, *portssvc.TokenPair, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: identifier and password are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("failed to look up user for login: %w", err)
	}

	// Accounts created through an external provider have no password.
	if user.PasswordHash == nil || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, nil, apperrors.ErrUnauthorized
	}

	return s.establishSession(ctx, user)
}

// LoginWithProvider issues a session for a user already authenticated by an
// external provider (Google OAuth path).
func (s *authService) LoginWithProvider(ctx context.Context, user *domain.User) (*dto.LoginResponse, *portssvc.TokenPair, error) {
	return s.establishSession(ctx, user)
}

// establishSession mints a token pair and persists the refresh hash. The write
// happens only after both tokens minted, so a signing failure never leaves a
// session half-established.
func (s *authService) establishSession(ctx context.Context, user *domain.User) (*dto.LoginResponse, *portssvc.TokenPair, error) {
	pair, err := s.tokenService.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to issue token pair", err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(pair.RefreshToken), pair.RefreshExpiry); err != nil {
		return nil, nil, apperrors.NewInternalError("failed to persist refresh token", err)
	}

	resp := &dto.LoginResponse{
		User:         dto.ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	return resp, pair, nil
}

// Logout clears the stored refresh token unconditionally. Calling it for a
// user with no active session is a no-op.
func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token on logout: %w", err)
	}
	return nil
}

// Refresh rotates the refresh token. The presented token must carry a valid
// signature, be unexpired, and hash to exactly the value stored for the user;
// the swap itself is a compare-and-set, so replaying a rotated-out token (or
// losing a concurrent refresh race) always fails with ErrUnauthorized.
func (s *authService) Refresh(ctx context.Context, presentedToken string) (*portssvc.TokenPair, error) {
	userID, err := s.tokenService.ValidateRefreshToken(ctx, presentedToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for refresh: %w", err)
	}

	if user.RefreshTokenHash == nil {
		// Logged out since the token was issued.
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CompareRefreshTokenHash(presentedToken, *user.RefreshTokenHash) {
		// A newer token has been issued; this one is rotated out for good.
		return nil, apperrors.ErrUnauthorized
	}

	pair, err := s.tokenService.IssuePair(ctx, user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token pair", err)
	}

	oldHash := utils.HashRefreshToken(presentedToken)
	newHash := utils.HashRefreshToken(pair.RefreshToken)
	if err := s.userRepo.RotateRefreshToken(ctx, user.UserID, oldHash, newHash, pair.RefreshExpiry); err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.NewInternalError("failed to rotate refresh token", err)
	}

	return pair, nil
}

// ChangePassword verifies the old password, installs the new hash and revokes
// the active refresh token, ending any session established before the change.
func (s *authService) ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.PasswordHash == nil || !utils.CheckPasswordHash(oldPassword, *user.PasswordHash) {
		return apperrors.ErrUnauthorized
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperrors.NewInternalError("failed to hash new password", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return fmt.Errorf("failed to persist new password hash: %w", err)
	}

	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh token after password change: %w", err)
	}
	return nil
}
