package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationCode is a single-use, time-boxed numeric secret tied to
// one account. The code value is stored in clear; it is short-lived and
// dead after one claim. Several live rows may coexist per account and
// purpose; claiming any one of them leaves the rest to expire.
type VerificationCode struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey"`
	AccountID string    `gorm:"column:account_id;type:char(36);index;not null"`
	Code      string    `gorm:"column:code;size:6;not null"`
	Purpose   string    `gorm:"column:purpose;size:32;not null;index:idx_codes_account_purpose,priority:2"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	Used      bool      `gorm:"column:used;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

func (c *VerificationCode) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
