package repository

import (
	"context"
	"time"

	"github.com/lawhelp/auth-service/internal/model"
	ctxutil "github.com/lawhelp/auth-service/pkg/context"
	"github.com/lawhelp/auth-service/pkg/logger"
	"gorm.io/gorm"
)

type VerificationCodeRepository struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

// Create persists a freshly issued code row
func (r *VerificationCodeRepository) Create(ctx context.Context, code *model.VerificationCode) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(code)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to persist verification code").
			String("account_id", code.AccountID).
			String("purpose", code.Purpose).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Verification code persisted").
		String("account_id", code.AccountID).
		String("purpose", code.Purpose).
		Duration(duration).
		Log()

	return nil
}

// Claim marks a matching unused, unexpired code as used in a single
// conditional UPDATE. Of two concurrent claims on the same code exactly
// one sees RowsAffected == 1; the other gets claimed == false. Expired
// and already-used rows never match.
func (r *VerificationCodeRepository) Claim(ctx context.Context, accountID, purpose, code string, now time.Time) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "Claim")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.VerificationCode{}).
		Where("account_id = ? AND purpose = ? AND code = ? AND used = ? AND expires_at > ?",
			accountID, purpose, code, false, now).
		Update("used", true)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Verification code claim query failed").
			String("account_id", accountID).
			String("purpose", purpose).
			Duration(duration).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	claimed := result.RowsAffected > 0
	logger.DebugWithContext(ctx, "Verification code claim attempted").
		String("account_id", accountID).
		String("purpose", purpose).
		Bool("claimed", claimed).
		Duration(duration).
		Log()

	return claimed, nil
}

// DeleteExpired removes lapsed rows. Correctness never depends on this;
// it is storage hygiene for an external sweeper to call.
func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteExpired")

	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.VerificationCode{})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete expired verification codes").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Expired verification codes removed").
			Int64("deleted", result.RowsAffected).
			Log()
	}

	return result.RowsAffected, nil
}
