package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lawhelp/auth-service/internal/constants"
	"gorm.io/gorm"
)

// Account is a registered identity with credentials and two-factor
// configuration. The password hash and TOTP secret never leave the
// persistence and service layers.
type Account struct {
	ID               string     `gorm:"column:id;type:char(36);primaryKey"`
	Name             string     `gorm:"column:name;not null"`
	Email            string     `gorm:"column:email;size:255;uniqueIndex;not null"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	IsLawyer         bool       `gorm:"column:is_lawyer;not null;default:false"`
	TwoFactorEnabled bool       `gorm:"column:two_factor_enabled;not null;default:false"`
	TwoFactorMethod  string     `gorm:"column:two_factor_method;size:16;not null;default:none"`
	TwoFactorSecret  *string    `gorm:"column:two_factor_secret"`
	EmailVerified    bool       `gorm:"column:email_verified;not null;default:false"`
	LastActiveAt     *time.Time `gorm:"column:last_active_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate assigns the opaque identifier when the caller has not
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// UsesTOTP reports whether the account authenticates with an
// authenticator app. The secret is only ever present for this method.
func (a *Account) UsesTOTP() bool {
	return a.TwoFactorMethod == constants.TwoFactorMethodTOTP
}

// UsesEmailCodes reports whether the account receives login codes by email
func (a *Account) UsesEmailCodes() bool {
	return a.TwoFactorMethod == constants.TwoFactorMethodEmail
}
