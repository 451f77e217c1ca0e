package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/lawhelp/auth-service/internal/constants"
	apperrors "github.com/lawhelp/auth-service/internal/errors"
	"github.com/lawhelp/auth-service/internal/model"
	ctxutil "github.com/lawhelp/auth-service/pkg/context"
	"github.com/lawhelp/auth-service/pkg/logger"
)

// CodeStore is the persistence surface for short-lived verification codes.
type CodeStore interface {
	Create(ctx context.Context, code *model.VerificationCode) error
	Claim(ctx context.Context, accountID, purpose, code string, now time.Time) (bool, error)
}

// VerificationCodeService issues and claims single-use numeric codes.
type VerificationCodeService struct {
	codes CodeStore
	now   func() time.Time
}

func NewVerificationCodeService(codes CodeStore) *VerificationCodeService {
	return &VerificationCodeService{codes: codes, now: time.Now}
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue creates a fresh code for the account and purpose and returns
// the plaintext exactly once, for delivery. Earlier codes for the same
// purpose stay live until they expire or are claimed.
func (s *VerificationCodeService) Issue(ctx context.Context, accountID, purpose string, ttl time.Duration) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "IssueCode")

	plaintext, err := generateCode()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate verification code").
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	record := &model.VerificationCode{
		AccountID: accountID,
		Code:      plaintext,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(ttl).UTC(),
	}

	if err := s.codes.Create(ctx, record); err != nil {
		logger.ErrorWithContext(ctx, "Failed to persist verification code").
			String("account_id", accountID).
			String("purpose", purpose).
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	logger.InfoWithContext(ctx, "Verification code issued").
		String("account_id", accountID).
		String("purpose", purpose).
		String("ttl", ttl.String()).
		Log()

	return plaintext, nil
}

// Claim consumes a live matching code. The store performs the match
// and the used flip in one conditional update, so two concurrent
// claims of the same code cannot both succeed.
func (s *VerificationCodeService) Claim(ctx context.Context, accountID, purpose, submitted string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ClaimCode")

	// A malformed code can never match; skip the storage round trip
	if len(submitted) != constants.CodeLength {
		return apperrors.ErrInvalidOrExpiredCode
	}

	claimed, err := s.codes.Claim(ctx, accountID, purpose, submitted, s.now().UTC())
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to claim verification code").
			String("account_id", accountID).
			String("purpose", purpose).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}
	if !claimed {
		logger.WarnWithContext(ctx, "Verification code rejected").
			String("account_id", accountID).
			String("purpose", purpose).
			Log()
		return apperrors.ErrInvalidOrExpiredCode
	}

	logger.InfoWithContext(ctx, "Verification code claimed").
		String("account_id", accountID).
		String("purpose", purpose).
		Log()

	return nil
}
