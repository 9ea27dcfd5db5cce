package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/dto"
	"github.com/VidMosaic/vid_mosaic_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock MediaUploader ---
type MockMediaUploader struct {
	mock.Mock
}

func (m *MockMediaUploader) Upload(ctx context.Context, folder string, file *portssvc.FileUpload) (string, error) {
	args := m.Called(ctx, folder, file)
	return args.String(0), args.Error(1)
}

var _ portssvc.MediaUploader = (*MockMediaUploader)(nil)

// --- Test Suite ---
//
// The repository mock is wired as a tiny in-memory credential store around a
// single user, so the login/refresh/logout flows run end to end through the
// real token and hashing code.
type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockMedia    *MockMediaUploader
	service      portssvc.AuthSvcFacade

	user         *domain.User
	password     string
	storedHash   *string
	storedExpiry *time.Time
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockMedia = new(MockMediaUploader)

	cfg := testTokenConfig()
	tokenService := services.NewTokenService(cfg)
	userService := services.NewUserService(suite.mockUserRepo)
	suite.service = services.NewAuthService(suite.mockUserRepo, userService, tokenService, suite.mockMedia)

	suite.password = "correct horse battery staple"
	passwordHash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)

	suite.user = &domain.User{
		UserID:       uuid.NewString(),
		Username:     "sessionuser",
		Email:        "session@example.com",
		FullName:     "Session User",
		AvatarURL:    "https://cdn.example.com/avatars/s.png",
		AuthProvider: domain.ProviderLocal,
		PasswordHash: &passwordHash,
	}
	suite.storedHash = nil
	suite.storedExpiry = nil

	// In-memory refresh token slot backing the mock repository.
	suite.mockUserRepo.FindUserByUsernameOrEmailFn = func(ctx context.Context, identifier string) (*domain.User, error) {
		if identifier == suite.user.Username || identifier == suite.user.Email {
			return suite.snapshotUser(), nil
		}
		return nil, apperrors.ErrNotFound
	}
	suite.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		if userID == suite.user.UserID {
			return suite.snapshotUser(), nil
		}
		return nil, apperrors.ErrNotFound
	}
	suite.mockUserRepo.UpdateRefreshTokenFn = func(ctx context.Context, userID string, hash string, expiry time.Time) error {
		suite.storedHash = &hash
		suite.storedExpiry = &expiry
		return nil
	}
	suite.mockUserRepo.RotateRefreshTokenFn = func(ctx context.Context, userID string, oldHash, newHash string, expiry time.Time) error {
		if suite.storedHash == nil || *suite.storedHash != oldHash {
			return apperrors.ErrUnauthorized
		}
		suite.storedHash = &newHash
		suite.storedExpiry = &expiry
		return nil
	}
	suite.mockUserRepo.ClearRefreshTokenFn = func(ctx context.Context, userID string) error {
		suite.storedHash = nil
		suite.storedExpiry = nil
		return nil
	}
}

func (suite *AuthServiceTestSuite) snapshotUser() *domain.User {
	u := *suite.user
	u.RefreshTokenHash = suite.storedHash
	u.RefreshTokenExpiryTime = suite.storedExpiry
	return &u
}

// --- Login Tests ---
func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()

	resp, pair, err := suite.service.Login(ctx, suite.user.Username, suite.password)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Require().NotNil(pair)
	suite.Equal(suite.user.UserID, resp.User.UserID)
	suite.Equal(pair.AccessToken, resp.AccessToken)
	suite.Equal(pair.RefreshToken, resp.RefreshToken)

	// The persisted value is the digest, never the token itself.
	suite.Require().NotNil(suite.storedHash)
	suite.Equal(utils.HashRefreshToken(pair.RefreshToken), *suite.storedHash)
}

func (suite *AuthServiceTestSuite) TestLogin_ByEmail() {
	ctx := context.Background()

	resp, _, err := suite.service.Login(ctx, suite.user.Email, suite.password)

	suite.Require().NoError(err)
	suite.Equal(suite.user.Username, resp.User.Username)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownIdentifier() {
	ctx := context.Background()

	_, _, err := suite.service.Login(ctx, "nobody", suite.password)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()

	_, _, err := suite.service.Login(ctx, suite.user.Username, "wrong password")

	// Same error as an unknown identifier: no account enumeration.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_ProviderAccountHasNoPassword() {
	ctx := context.Background()
	suite.user.PasswordHash = nil
	suite.user.AuthProvider = domain.ProviderGoogle

	_, _, err := suite.service.Login(ctx, suite.user.Username, suite.password)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_SecondLoginReplacesSession() {
	ctx := context.Background()

	_, firstPair, err := suite.service.Login(ctx, suite.user.Username, suite.password)
	suite.Require().NoError(err)
	_, _, err = suite.service.Login(ctx, suite.user.Username, suite.password)
	suite.Require().NoError(err)

	// The first session's refresh token was rotated out by the second login.
	_, err = suite.service.Refresh(ctx, firstPair.RefreshToken)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- Refresh Tests ---
func (suite *AuthServiceTestSuite) TestRefresh_RotatesToken() {
	ctx := context.Background()

	_, pair, err := suite.service.Login(ctx, suite.user.Username, suite.password)
	suite.Require().NoError(err)

	newPair, err := suite.service.Refresh(ctx, pair.RefreshToken)

	suite.Require().NoError(err)
	suite.NotEqual(pair.RefreshToken, newPair.RefreshToken)
	suite.Equal(utils.HashRefreshToken(newPair.RefreshToken), *suite.storedHash)
}

func (suite *AuthServiceTestSuite) TestRefresh_OldTokenIsSingleUse() {
	ctx := context.Background()

	_, pair, err := suite.service.Login(ctx, suite.user.Username, suite.password)
	suite.Require().NoError(err)

	rotated, err := suite.service.Refresh(ctx, pair.RefreshToken)
	suite.Require().NoError(err)

	// Replaying the rotated-out token fails; the current session stays intact.
	_, err = suite.service.Refresh(ctx, pair.RefreshToken)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.service.Refresh(ctx, rotated.RefreshToken)
	suite.NoError(err)
}

func (suite *AuthServiceTestSuite) TestRefresh_ChainOfRotations() {
	ctx := context.Background()

	_, pair, err := suite.service.Login(ctx, suite.user.Username, suite.password)
	suite.Require().NoError(err)

	current := pair.RefreshToken
	for i := 0; i < 3; i++ {
		next, err := suite.service.Refresh(ctx, current)
		suite.Require().NoError(err)
		suite.NotEqual(current, next.RefreshToken)
		current = next.RefreshToken
	}
}

func (suite *AuthServiceTestSuite) TestRefresh_AfterLogout() {
	ctx := context.Background()

	_, pair, err := suite.service.Login(ctx, suite.user.Username, suite.password)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Logout(ctx, suite.user.UserID))

	_, err = suite.service.Refresh(ctx, pair.RefreshToken)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_GarbageToken() {
	ctx := context.Background()

	_, err := suite.service.Refresh(ctx, "definitely-not-a-token")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_UnknownUser() {
	ctx := context.Background()

	_, pair, err := suite.service.Login(ctx, suite.user.Username, suite.password)
	suite.Require().NoError(err)

	// Account deleted between issuance and refresh.
	suite.user.UserID = uuid.NewString()

	_, err = suite.service.Refresh(ctx, pair.RefreshToken)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- Logout Tests ---
func (suite *AuthServiceTestSuite) TestLogout_WithoutSessionIsNoOp() {
	ctx := context.Background()

	suite.NoError(suite.service.Logout(ctx, suite.user.UserID))
}

// --- ChangePassword Tests ---
func (suite *AuthServiceTestSuite) TestChangePassword_Success() {
	ctx := context.Background()
	newPassword := "a brand new passphrase"

	var persistedHash string
	suite.mockUserRepo.UpdatePasswordHashFn = func(ctx context.Context, userID string, hash string) error {
		persistedHash = hash
		suite.user.PasswordHash = &hash
		return nil
	}

	_, pair, err := suite.service.Login(ctx, suite.user.Username, suite.password)
	suite.Require().NoError(err)

	err = suite.service.ChangePassword(ctx, suite.user.UserID, suite.password, newPassword)
	suite.Require().NoError(err)

	suite.NotEmpty(persistedHash)
	suite.NotEqual(newPassword, persistedHash)
	suite.True(utils.CheckPasswordHash(newPassword, persistedHash))

	// The active session was revoked with the password change.
	_, err = suite.service.Refresh(ctx, pair.RefreshToken)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	// Logging in with the new password works.
	_, _, err = suite.service.Login(ctx, suite.user.Username, newPassword)
	suite.NoError(err)
}

func (suite *AuthServiceTestSuite) TestChangePassword_WrongOldPassword() {
	ctx := context.Background()

	var updateCalled bool
	suite.mockUserRepo.UpdatePasswordHashFn = func(ctx context.Context, userID string, hash string) error {
		updateCalled = true
		return nil
	}

	err := suite.service.ChangePassword(ctx, suite.user.UserID, "wrong old password", "whatever new one")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.False(updateCalled)
}

func (suite *AuthServiceTestSuite) TestChangePassword_EmptyNewPassword() {
	ctx := context.Background()

	err := suite.service.ChangePassword(ctx, suite.user.UserID, suite.password, "")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Register Tests ---
func registerRequest() dto.RegisterUserRequest {
	return dto.RegisterUserRequest{
		FullName: "Fresh User",
		Email:    "fresh@example.com",
		Username: "freshuser",
		Password: "password123",
	}
}

func avatarUpload() *portssvc.FileUpload {
	return &portssvc.FileUpload{ContentType: "image/png", Filename: "avatar.png"}
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()

	suite.mockUserRepo.FindUserByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return nil, apperrors.ErrNotFound
	}
	suite.mockUserRepo.FindUserByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
		return nil, apperrors.ErrNotFound
	}
	var saved domain.User
	suite.mockUserRepo.SaveUserFn = func(ctx context.Context, user domain.User) error {
		saved = user
		return nil
	}
	suite.mockMedia.On("Upload", ctx, portssvc.MediaFolderAvatars, mock.Anything).
		Return("https://cdn.example.com/avatars/fresh.png", nil).Once()

	user, err := suite.service.Register(ctx, registerRequest(), avatarUpload(), nil)

	suite.Require().NoError(err)
	suite.Equal("freshuser", user.Username)
	suite.Equal("https://cdn.example.com/avatars/fresh.png", user.AvatarURL)
	suite.Equal("https://cdn.example.com/avatars/fresh.png", saved.AvatarURL)
	suite.mockMedia.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateUsernameSkipsUpload() {
	ctx := context.Background()

	suite.mockUserRepo.FindUserByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return suite.snapshotUser(), nil
	}

	_, err := suite.service.Register(ctx, registerRequest(), avatarUpload(), nil)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockMedia.AssertNotCalled(suite.T(), "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestRegister_MissingAvatar() {
	ctx := context.Background()

	_, err := suite.service.Register(ctx, registerRequest(), nil, nil)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestRegister_UploadFailure() {
	ctx := context.Background()

	suite.mockUserRepo.FindUserByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return nil, apperrors.ErrNotFound
	}
	suite.mockUserRepo.FindUserByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
		return nil, apperrors.ErrNotFound
	}
	var saveCalled bool
	suite.mockUserRepo.SaveUserFn = func(ctx context.Context, user domain.User) error {
		saveCalled = true
		return nil
	}
	suite.mockMedia.On("Upload", ctx, portssvc.MediaFolderAvatars, mock.Anything).
		Return("", context.DeadlineExceeded).Once()

	_, err := suite.service.Register(ctx, registerRequest(), avatarUpload(), nil)

	suite.Require().Error(err)
	suite.False(saveCalled) // no half-created account when storage is down
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
