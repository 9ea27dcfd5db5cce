package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/dto"
	"github.com/VidMosaic/vid_mosaic_app/internal/handlers"
	"github.com/VidMosaic/vid_mosaic_app/internal/middleware"
	"github.com/VidMosaic/vid_mosaic_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterUserRequest, avatar *portssvc.FileUpload, coverImage *portssvc.FileUpload) (*domain.User, error) {
	args := m.Called(ctx, req, avatar, coverImage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, identifier string, password string) (*dto.LoginResponse, *portssvc.TokenPair, error) {
	args := m.Called(ctx, identifier, password)
	var resp *dto.LoginResponse
	var pair *portssvc.TokenPair
	if args.Get(0) != nil {
		resp = args.Get(0).(*dto.LoginResponse)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*portssvc.TokenPair)
	}
	return resp, pair, args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) Refresh(ctx context.Context, presentedToken string) (*portssvc.TokenPair, error) {
	args := m.Called(ctx, presentedToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.TokenPair), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) LoginWithProvider(ctx context.Context, user *domain.User) (*dto.LoginResponse, *portssvc.TokenPair, error) {
	args := m.Called(ctx, user)
	var resp *dto.LoginResponse
	var pair *portssvc.TokenPair
	if args.Get(0) != nil {
		resp = args.Get(0).(*dto.LoginResponse)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*portssvc.TokenPair)
	}
	return resp, pair, args.Error(2)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Test Suite ---
type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockAuthService *MockAuthService
	cfg             *config.Config
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.cfg = &config.Config{
		AccessTokenSecret:      "test-access-secret-key",
		AccessTokenExpiry:      15 * time.Minute,
		AccessTokenIssuer:      "vma-test",
		AccessTokenCookieName:  "vma_access_token",
		RefreshTokenSecret:     "test-refresh-secret-key",
		RefreshTokenExpiry:     240 * time.Hour,
		RefreshTokenCookieName: "vma_refresh_token",
		RefreshTokenCookiePath: "/api/v1/auth",
	}

	suite.mockAuthService = new(MockAuthService)
	h := handlers.NewAuthHandler(suite.mockAuthService, suite.cfg, nil)

	auth := suite.router.Group("/api/v1/auth")
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
	authed := auth.Group("", middleware.AuthMiddleware(suite.cfg.AccessTokenSecret, suite.cfg.AccessTokenCookieName))
	authed.POST("/logout", h.Logout)
	authed.POST("/change-password", h.ChangePassword)
}

func (suite *AuthHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    suite.cfg.AccessTokenIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.cfg.AccessTokenSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func testPair() *portssvc.TokenPair {
	return &portssvc.TokenPair{
		AccessToken:   "new-access-token",
		AccessExpiry:  time.Now().Add(15 * time.Minute),
		RefreshToken:  "new-refresh-token",
		RefreshExpiry: time.Now().Add(240 * time.Hour),
	}
}

func cookieValue(res *http.Response, name string) (string, bool) {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// --- Login Tests ---
func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	userID := uuid.NewString()
	pair := testPair()
	loginResp := &dto.LoginResponse{
		User:         dto.UserResponse{UserID: userID, Username: "tester"},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}

	suite.mockAuthService.On("Login", mock.Anything, "tester", "password123").
		Return(loginResp, pair, nil).Once()

	body, _ := json.Marshal(dto.LoginRequest{Identifier: "tester", Password: "password123"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var got dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(userID, got.User.UserID)
	suite.Equal(pair.AccessToken, got.AccessToken)

	res := w.Result()
	access, ok := cookieValue(res, suite.cfg.AccessTokenCookieName)
	suite.True(ok, "access token cookie should be set")
	suite.Equal(pair.AccessToken, access)
	refresh, ok := cookieValue(res, suite.cfg.RefreshTokenCookieName)
	suite.True(ok, "refresh token cookie should be set")
	suite.Equal(pair.RefreshToken, refresh)

	suite.mockAuthService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.mockAuthService.On("Login", mock.Anything, "tester", "wrong").
		Return(nil, nil, apperrors.ErrUnauthorized).Once()

	body, _ := json.Marshal(dto.LoginRequest{Identifier: "tester", Password: "wrong"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Invalid credentials")
}

func (suite *AuthHandlerTestSuite) TestLogin_MalformedBody() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "Login", mock.Anything, mock.Anything, mock.Anything)
}

// --- Refresh Tests ---
func (suite *AuthHandlerTestSuite) TestRefresh_FromCookie() {
	pair := testPair()
	suite.mockAuthService.On("Refresh", mock.Anything, "old-refresh-token").
		Return(pair, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: suite.cfg.RefreshTokenCookieName, Value: "old-refresh-token"})
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var got dto.RefreshResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(pair.RefreshToken, got.RefreshToken)

	refresh, ok := cookieValue(w.Result(), suite.cfg.RefreshTokenCookieName)
	suite.True(ok, "rotated refresh token cookie should be set")
	suite.Equal(pair.RefreshToken, refresh)
}

func (suite *AuthHandlerTestSuite) TestRefresh_FromBody() {
	pair := testPair()
	suite.mockAuthService.On("Refresh", mock.Anything, "body-refresh-token").
		Return(pair, nil).Once()

	body, _ := json.Marshal(dto.RefreshRequest{RefreshToken: "body-refresh-token"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAuthService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestRefresh_MissingToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "Refresh", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestRefresh_RotatedOutToken() {
	suite.mockAuthService.On("Refresh", mock.Anything, "stale-token").
		Return(nil, apperrors.ErrUnauthorized).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: suite.cfg.RefreshTokenCookieName, Value: "stale-token"})
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Invalid refresh token")
}

// --- Logout Tests ---
func (suite *AuthHandlerTestSuite) TestLogout_Success() {
	userID := uuid.NewString()
	suite.mockAuthService.On("Logout", mock.Anything, userID).Return(nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	// Both session cookies are expired on logout.
	res := w.Result()
	for _, c := range res.Cookies() {
		if c.Name == suite.cfg.AccessTokenCookieName || c.Name == suite.cfg.RefreshTokenCookieName {
			suite.True(c.MaxAge < 0, "session cookie %s should be expired", c.Name)
		}
	}
	suite.mockAuthService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogout_Unauthenticated() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "Logout", mock.Anything, mock.Anything)
}

// --- ChangePassword Tests ---
func (suite *AuthHandlerTestSuite) TestChangePassword_Success() {
	userID := uuid.NewString()
	suite.mockAuthService.On("ChangePassword", mock.Anything, userID, "old-pass-123", "new-pass-456").
		Return(nil).Once()

	body, _ := json.Marshal(dto.ChangePasswordRequest{OldPassword: "old-pass-123", NewPassword: "new-pass-456"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/change-password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAuthService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestChangePassword_WrongOldPassword() {
	userID := uuid.NewString()
	suite.mockAuthService.On("ChangePassword", mock.Anything, userID, "wrong-old", "new-pass-456").
		Return(apperrors.ErrUnauthorized).Once()

	body, _ := json.Marshal(dto.ChangePasswordRequest{OldPassword: "wrong-old", NewPassword: "new-pass-456"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/change-password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Invalid old password")
}

func (suite *AuthHandlerTestSuite) TestChangePassword_ShortNewPassword() {
	userID := uuid.NewString()

	body, _ := json.Marshal(dto.ChangePasswordRequest{OldPassword: "old-pass-123", NewPassword: "short"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/change-password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
