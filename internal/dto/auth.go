package dto

import (
	"time"

	"github.com/lawhelp/auth-service/internal/model"
)

// RegisterRequest represents the account registration payload
type RegisterRequest struct {
	Name             string `json:"name" binding:"required,min=2,max=100"`
	Email            string `json:"email" binding:"required,email,max=255"`
	Password         string `json:"password" binding:"required,max=100"`
	IsLawyer         bool   `json:"is_lawyer"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	TwoFactorMethod  string `json:"two_factor_method" binding:"omitempty,oneof=none email totp"`
}

// LoginRequest represents the credential check payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyTwoFactorRequest carries the second-factor proof for a pending login
type VerifyTwoFactorRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// VerifyEmailRequest carries the single-use code sent at registration
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// AccountResponse is the public projection of an account. The password
// hash and the TOTP secret never leave the service.
type AccountResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	IsLawyer         bool       `json:"is_lawyer"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	TwoFactorMethod  string     `json:"two_factor_method"`
	EmailVerified    bool       `json:"email_verified"`
	LastActiveAt     *time.Time `json:"last_active_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewAccountResponse projects a stored account onto the public shape.
func NewAccountResponse(account *model.Account) *AccountResponse {
	return &AccountResponse{
		ID:               account.ID,
		Name:             account.Name,
		Email:            account.Email,
		IsLawyer:         account.IsLawyer,
		TwoFactorEnabled: account.TwoFactorEnabled,
		TwoFactorMethod:  account.TwoFactorMethod,
		EmailVerified:    account.EmailVerified,
		LastActiveAt:     account.LastActiveAt,
		CreatedAt:        account.CreatedAt,
	}
}

// RegisterResponse is returned after a successful registration.
// QRCodeURL is only present when the account enrolled an authenticator
// app; it is shown once and never retrievable afterwards.
type RegisterResponse struct {
	User      *AccountResponse `json:"user"`
	QRCodeURL string           `json:"qr_code_url,omitempty"`
	Message   string           `json:"message"`
}

// LoginResponse covers both login outcomes: a completed authentication
// carries the token and user, a pending one carries the 2FA challenge.
type LoginResponse struct {
	User             *AccountResponse `json:"user,omitempty"`
	Token            string           `json:"token,omitempty"`
	RequireTwoFactor bool             `json:"require_two_factor"`
	TwoFactorMethod  string           `json:"two_factor_method,omitempty"`
	Message          string           `json:"message,omitempty"`
}
