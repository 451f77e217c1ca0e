package service

import (
	"context"
	"errors"
	"time"

	"github.com/lawhelp/auth-service/config"
	"github.com/lawhelp/auth-service/internal/constants"
	"github.com/lawhelp/auth-service/internal/dto"
	apperrors "github.com/lawhelp/auth-service/internal/errors"
	"github.com/lawhelp/auth-service/internal/model"
	ctxutil "github.com/lawhelp/auth-service/pkg/context"
	"github.com/lawhelp/auth-service/pkg/logger"
	"gorm.io/gorm"
)

// Deliverer sends a rendered message to an address. The SMTP mailer
// implements it; tests substitute a recorder.
type Deliverer interface {
	DeliverVerificationCode(ctx context.Context, to, name, code string, ttl time.Duration) error
	DeliverTwoFactorCode(ctx context.Context, to, name, code string, ttl time.Duration) error
}

// AuthService coordinates the credential, code, TOTP and token
// services into the registration and login flows.
type AuthService struct {
	credentials *CredentialService
	codes       *VerificationCodeService
	totp        *TOTPService
	tokens      *TokenService
	mailer      Deliverer
	accounts    AccountStore
	cfg         config.CodesConfig
	now         func() time.Time
}

func NewAuthService(
	credentials *CredentialService,
	codes *VerificationCodeService,
	totp *TOTPService,
	tokens *TokenService,
	mailer Deliverer,
	accounts AccountStore,
	cfg config.CodesConfig,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		codes:       codes,
		totp:        totp,
		tokens:      tokens,
		mailer:      mailer,
		accounts:    accounts,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Register creates the account and kicks off email verification. It
// never returns a session token: every new account authenticates
// through the login flow.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "auth", "Register")

	method := req.TwoFactorMethod
	if method == "" {
		method = constants.TwoFactorMethodNone
	}
	if req.TwoFactorEnabled && method == constants.TwoFactorMethodNone {
		method = constants.TwoFactorMethodEmail
	}

	var secret string
	var provisioningURI string
	if req.TwoFactorEnabled && method == constants.TwoFactorMethodTOTP {
		generated, err := s.totp.GenerateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
		provisioningURI = s.totp.ProvisioningURI(NormalizeEmail(req.Email), secret)
	}

	var secretPtr *string
	if secret != "" {
		secretPtr = &secret
	}

	account, err := s.credentials.Create(ctx, req.Name, req.Email, req.Password, req.IsLawyer, req.TwoFactorEnabled, method, secretPtr)
	if err != nil {
		return nil, err
	}

	// Email-verification code delivery is best-effort: the account
	// exists either way and the code can be reissued.
	code, err := s.codes.Issue(ctx, account.ID, constants.CodePurposeEmailVerification, s.cfg.EmailVerificationTTL)
	if err != nil {
		logger.WarnWithContext(ctx, "Registered without verification code").
			String("account_id", account.ID).
			Err(err).
			Log()
	} else if err := s.mailer.DeliverVerificationCode(ctx, account.Email, account.Name, code, s.cfg.EmailVerificationTTL); err != nil {
		logger.WarnWithContext(ctx, "Failed to deliver verification email").
			String("account_id", account.ID).
			Err(err).
			Log()
	}

	return &dto.RegisterResponse{
		User:      dto.NewAccountResponse(account),
		QRCodeURL: provisioningURI,
		Message:   "Registration successful. Check your email for a verification code.",
	}, nil
}

// Login checks the credentials and either completes authentication or
// opens a second-factor challenge, depending on the account settings.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "auth", "Login")

	account, err := s.credentials.Verify(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if account.TwoFactorEnabled {
		if account.UsesEmailCodes() {
			code, err := s.codes.Issue(ctx, account.ID, constants.CodePurposeTwoFactorEmail, s.cfg.TwoFactorEmailTTL)
			if err != nil {
				return nil, err
			}
			if err := s.mailer.DeliverTwoFactorCode(ctx, account.Email, account.Name, code, s.cfg.TwoFactorEmailTTL); err != nil {
				logger.WarnWithContext(ctx, "Failed to deliver two-factor email").
					String("account_id", account.ID).
					Err(err).
					Log()
			}
		}
		logger.InfoWithContext(ctx, "Login pending second factor").
			String("account_id", account.ID).
			String("two_factor_method", account.TwoFactorMethod).
			Log()
		return &dto.LoginResponse{
			RequireTwoFactor: true,
			TwoFactorMethod:  account.TwoFactorMethod,
			Message:          "Two-factor verification required",
		}, nil
	}

	return s.completeLogin(ctx, account)
}

// VerifyTwoFactor settles a pending login with the submitted proof.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, req *dto.VerifyTwoFactorRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "auth", "VerifyTwoFactor")

	account, err := s.accounts.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	switch {
	case account.UsesEmailCodes():
		if err := s.codes.Claim(ctx, account.ID, constants.CodePurposeTwoFactorEmail, req.Code); err != nil {
			return nil, err
		}
	case account.UsesTOTP():
		if account.TwoFactorSecret == nil || !s.totp.Verify(*account.TwoFactorSecret, req.Code, s.now()) {
			logger.WarnWithContext(ctx, "TOTP verification failed").
				String("account_id", account.ID).
				Log()
			return nil, apperrors.ErrInvalidVerificationCode
		}
	default:
		return nil, apperrors.ErrTwoFactorNotConfigured
	}

	return s.completeLogin(ctx, account)
}

// VerifyEmail claims the registration code and marks the address verified.
func (s *AuthService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	ctx = ctxutil.WithOperation(ctx, "auth", "VerifyEmail")

	account, err := s.accounts.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	if err := s.codes.Claim(ctx, account.ID, constants.CodePurposeEmailVerification, req.Code); err != nil {
		return err
	}

	if err := s.accounts.SetEmailVerified(ctx, account.ID); err != nil {
		logger.ErrorWithContext(ctx, "Failed to mark email verified").
			String("account_id", account.ID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	logger.InfoWithContext(ctx, "Email verified").
		String("account_id", account.ID).
		Log()

	return nil
}

// VerifySessionToken validates a bearer token and returns its identity.
func (s *AuthService) VerifySessionToken(token string) (*SessionClaims, error) {
	return s.tokens.Verify(token)
}

// GetAccount loads the public profile for an authenticated session.
func (s *AuthService) GetAccount(ctx context.Context, accountID string) (*dto.AccountResponse, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}
	return dto.NewAccountResponse(account), nil
}

// Logout exists for API symmetry. Session tokens are stateless, so the
// server holds nothing to revoke; the client discards the token.
func (s *AuthService) Logout(ctx context.Context) {
	ctx = ctxutil.WithOperation(ctx, "auth", "Logout")
	logger.InfoWithContext(ctx, "Logout acknowledged").
		String("account_id", ctxutil.GetUserID(ctx)).
		String("email", ctxutil.GetUserEmail(ctx)).
		Log()
}

func (s *AuthService) completeLogin(ctx context.Context, account *model.Account) (*dto.LoginResponse, error) {
	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	s.credentials.TouchLastActive(ctx, account.ID)

	logger.InfoWithContext(ctx, "Authentication completed").
		String("account_id", account.ID).
		Log()

	return &dto.LoginResponse{
		User:    dto.NewAccountResponse(account),
		Token:   token,
		Message: "Login successful",
	}, nil
}
