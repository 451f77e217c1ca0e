package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lawhelp/auth-service/config"
	"github.com/lawhelp/auth-service/internal/constants"
	apperrors "github.com/lawhelp/auth-service/internal/errors"
	"github.com/lawhelp/auth-service/internal/model"
	ctxutil "github.com/lawhelp/auth-service/pkg/context"
	"github.com/lawhelp/auth-service/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountStore is the persistence surface the services need from the
// account repository.
type AccountStore interface {
	Create(ctx context.Context, account *model.Account) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	SetEmailVerified(ctx context.Context, id string) error
	TouchLastActive(ctx context.Context, id string) error
}

// CredentialService owns account records and password verification
type CredentialService struct {
	accounts AccountStore
	cfg      config.PasswordConfig
}

func NewCredentialService(accounts AccountStore, cfg config.PasswordConfig) *CredentialService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.MinLength == 0 {
		cfg.MinLength = constants.MinPasswordLength
	}
	return &CredentialService{accounts: accounts, cfg: cfg}
}

// NormalizeEmail lowercases and trims an address; all storage and
// lookups go through this so email comparison is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword hashes password using bcrypt
func (s *CredentialService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// checkPassword verifies password against hash
func (s *CredentialService) checkPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// CheckPolicy validates the password against the minimum-strength policy
func (s *CredentialService) CheckPolicy(password string) error {
	if len(password) < s.cfg.MinLength {
		return apperrors.ErrWeakPassword
	}
	return nil
}

// Create registers a new account. The duplicate-email race is settled
// by the storage-layer unique index: the losing insert comes back as a
// duplicate-key error and is surfaced as EMAIL_EXISTS, never as a
// silent overwrite.
func (s *CredentialService) Create(ctx context.Context, name, email, password string, isLawyer, twoFactorEnabled bool, twoFactorMethod string, twoFactorSecret *string) (*model.Account, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateAccount")

	// The HTTP layer already binds these; the checks hold for any caller
	if len(strings.TrimSpace(name)) < constants.MinNameLength {
		return nil, apperrors.ErrInvalidInput
	}
	if err := s.CheckPolicy(password); err != nil {
		return nil, err
	}

	hashed, err := s.hashPassword(password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !twoFactorEnabled {
		twoFactorMethod = constants.TwoFactorMethodNone
	}
	if twoFactorMethod != constants.TwoFactorMethodTOTP {
		twoFactorSecret = nil
	}

	account := &model.Account{
		Name:             strings.TrimSpace(name),
		Email:            NormalizeEmail(email),
		PasswordHash:     hashed,
		IsLawyer:         isLawyer,
		TwoFactorEnabled: twoFactorEnabled,
		TwoFactorMethod:  twoFactorMethod,
		TwoFactorSecret:  twoFactorSecret,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.WarnWithContext(ctx, "Registration rejected: email already exists").
				String("email", account.Email).
				Log()
			return nil, apperrors.ErrEmailExists
		}
		logger.ErrorWithContext(ctx, "Failed to create account").
			String("email", account.Email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	logger.InfoWithContext(ctx, "Account registered").
		String("account_id", account.ID).
		String("email", account.Email).
		Bool("two_factor_enabled", account.TwoFactorEnabled).
		String("two_factor_method", account.TwoFactorMethod).
		Log()

	return account, nil
}

// Verify checks the supplied credentials. Unknown email and wrong
// password both return INVALID_CREDENTIALS; only storage faults differ.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (*model.Account, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "VerifyCredential")

	account, err := s.accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Authentication failed: account not found").
				String("email", NormalizeEmail(email)).
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.ErrorWithContext(ctx, "Failed to load account for authentication").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	if !s.checkPassword(account.PasswordHash, password) {
		logger.WarnWithContext(ctx, "Authentication failed: incorrect password").
			String("account_id", account.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	return account, nil
}

// TouchLastActive is best-effort: failures are logged and swallowed so
// they never abort the surrounding authentication flow.
func (s *CredentialService) TouchLastActive(ctx context.Context, accountID string) {
	if err := s.accounts.TouchLastActive(ctx, accountID); err != nil {
		logger.WarnWithContext(ctx, "Failed to update last active timestamp").
			String("account_id", accountID).
			Err(err).
			Log()
	}
}
