package services

import (
	"context"
	"fmt"
	"time"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/platform/config"
	"github.com/VidMosaic/vid_mosaic_app/internal/utils"
)

// tokenService implements TokenSvcFacade. Both token kinds are HS256 JWTs; the
// access and refresh secrets are distinct process-wide configuration values.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given user.
// Access tokens are stateless: never persisted, validity is signature + expiry only.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.AccessTokenExpiry)

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.AccessTokenSecret, s.cfg.AccessTokenExpiry, s.cfg.AccessTokenIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken creates a new refresh token for the given user. The
// random token ID guarantees two rotations within the same second still yield
// different token strings.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	tokenID, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token ID: %w", err)
	}

	expiryTime := time.Now().Add(s.cfg.RefreshTokenExpiry)

	refreshToken, err := utils.GenerateJWTWithID(user.UserID, tokenID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiry, s.cfg.AccessTokenIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return refreshToken, expiryTime, nil
}

// IssuePair mints an access/refresh pair. Nothing is persisted here: the caller
// stores the refresh hash only after both tokens minted, so a signing failure
// never leaves a session half-established.
func (s *tokenService) IssuePair(ctx context.Context, user *domain.User) (*portssvc.TokenPair, error) {
	accessToken, accessExpiry, err := s.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := s.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &portssvc.TokenPair{
		AccessToken:   accessToken,
		AccessExpiry:  accessExpiry,
		RefreshToken:  refreshToken,
		RefreshExpiry: refreshExpiry,
	}, nil
}

// ValidateRefreshToken checks signature and expiry and returns the embedded
// user ID. Bad signature, malformed payload and expiry all collapse to
// ErrUnauthorized so callers cannot be used as a validity oracle; the parse
// error itself is only ever logged by the transport layer.
func (s *tokenService) ValidateRefreshToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := utils.ParseAndValidateJWT(tokenString, s.cfg.RefreshTokenSecret)
	if err != nil {
		return "", apperrors.ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", apperrors.ErrUnauthorized
	}
	return claims.Subject, nil
}
