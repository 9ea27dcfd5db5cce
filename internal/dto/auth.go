package dto

// LoginRequest authenticates by username or email plus password.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse returns the public user view plus the freshly minted token pair.
// The tokens are also set as HTTP-only cookies by the transport layer.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// RefreshRequest is the JSON-body fallback for clients that do not present the
// refresh token via cookie or bearer header.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse returns the rotated token pair. The previous refresh token is
// permanently invalid once this response is produced.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ExchangeCodeRequest carries the authorization code from the Google OAuth flow.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}
