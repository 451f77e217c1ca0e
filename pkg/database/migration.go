package database

import (
	"fmt"

	"github.com/lawhelp/auth-service/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Account{},
		&model.VerificationCode{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	return CreateIndexes(db)
}

// CreateIndexes adds indexes AutoMigrate cannot express through tags.
// The partial index keeps code claims fast without indexing dead rows.
func CreateIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_codes_live_claim
			ON verification_codes (account_id, purpose, code)
			WHERE used = false`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index creation failed: %w", err)
		}
	}

	return nil
}
