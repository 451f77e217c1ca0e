package repository

import (
	"context"
	"time"

	"github.com/lawhelp/auth-service/internal/model"
	ctxutil "github.com/lawhelp/auth-service/pkg/context"
	"github.com/lawhelp/auth-service/pkg/logger"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account. Uniqueness of the email is enforced by
// the database index, not by a prior read; on a duplicate the driver
// error surfaces as gorm.ErrDuplicatedKey for the service to translate.
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(account)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create account").
			String("email", account.Email).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Account created").
		String("account_id", account.ID).
		String("email", account.Email).
		Duration(duration).
		Log()

	return nil
}

// GetByEmail finds an account by its (lowercased) email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByEmail")

	start := time.Now()
	var account model.Account
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&account)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Account lookup by email failed").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	start := time.Now()
	var account model.Account
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&account)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Account lookup by id failed").
			String("account_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &account, nil
}

// SetEmailVerified marks the account's email address as confirmed
func (r *AccountRepository) SetEmailVerified(ctx context.Context, id string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "SetEmailVerified")

	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Update("email_verified", true)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to set email verified").
			String("account_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// TouchLastActive updates the last-activity timestamp
func (r *AccountRepository) TouchLastActive(ctx context.Context, id string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "TouchLastActive")

	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Update("last_active_at", time.Now())

	if result.Error != nil {
		logger.WarnWithContext(ctx, "Failed to touch last active").
			String("account_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}
