package handler

import (
	"time"

	"github.com/google/uuid"
)

// Request bodies for the auth endpoints. Binding tags mirror the
// domain limits so malformed input is rejected before it reaches the
// service layer.

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// TokenResponse carries the issued token pair with both expiries so
// clients can schedule refreshes without decoding the JWTs.
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// AuthUserResponse is the profile slice returned alongside tokens.
type AuthUserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

// VerifyResponse is the identity carried by a valid access token.
type VerifyResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token TokenResponse    `json:"token"`
	User  AuthUserResponse `json:"user"`
}

// RefreshTokenResponse is returned by a successful token refresh.
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// LogoutResponse acknowledges that the tokens were revoked.
type LogoutResponse struct {
	Message string `json:"message"`
}
