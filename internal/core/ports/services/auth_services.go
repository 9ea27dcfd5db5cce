package services

import (
	"context"
	"time"

	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	"github.com/VidMosaic/vid_mosaic_app/internal/dto"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenPair is the result of a session-establishing event: a short-lived
// stateless access token and a long-lived refresh token whose hash is persisted.
type TokenPair struct {
	AccessToken   string
	AccessExpiry  time.Time
	RefreshToken  string
	RefreshExpiry time.Time
}

// TokenSvcFacade mints and validates the signed session tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a short-lived JWT access token for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates a long-lived JWT refresh token carrying a
	// random token ID so consecutive rotations always differ.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// IssuePair mints both tokens. Nothing is persisted here; callers store the
	// refresh hash only after the whole pair minted successfully.
	IssuePair(ctx context.Context, user *domain.User) (*TokenPair, error)

	// ValidateRefreshToken checks signature and expiry and returns the embedded
	// user ID. Every failure mode collapses to apperrors.ErrUnauthorized.
	ValidateRefreshToken(ctx context.Context, tokenString string) (string, error)
}

// AuthSvcFacade is the session manager: it orchestrates the credential store,
// password hasher and token issuer across the session lifecycle.
type AuthSvcFacade interface {
	// Register validates, uploads media, hashes the password and creates the user.
	Register(ctx context.Context, req dto.RegisterUserRequest, avatar *FileUpload, coverImage *FileUpload) (*domain.User, error)

	// Login authenticates by username-or-email plus password, persists the new
	// refresh token and returns the pair with the public user view.
	Login(ctx context.Context, identifier string, password string) (*dto.LoginResponse, *TokenPair, error)

	// Logout clears the stored refresh token. No-op safe when already cleared.
	Logout(ctx context.Context, userID string) error

	// Refresh rotates the refresh token: the presented token must match the
	// stored one exactly, and afterwards it is permanently invalid.
	Refresh(ctx context.Context, presentedToken string) (*TokenPair, error)

	// ChangePassword verifies the old password, installs the new hash and
	// revokes the active refresh token.
	ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) error

	// LoginWithProvider issues a session for an already-resolved user (OAuth path).
	LoginWithProvider(ctx context.Context, user *domain.User) (*dto.LoginResponse, *TokenPair, error)
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a secure random CSRF token for the OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// GetUserInfo uses the access token to get user information from Google.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
