package service

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"net/url"
	"time"

	apperrors "github.com/lawhelp/auth-service/internal/errors"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpSecretBytes = 20

// TOTPService manages time-based one-time-password secrets and
// verification for authenticator apps.
type TOTPService struct {
	issuer string
	period uint
	skew   uint
}

func NewTOTPService(issuer string, period, skew uint) *TOTPService {
	if period == 0 {
		period = 30
	}
	return &TOTPService{issuer: issuer, period: period, skew: skew}
}

// GenerateSecret returns a fresh base32-encoded 160-bit secret.
func (s *TOTPService) GenerateSecret() (string, error) {
	buf := make([]byte, totpSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// ProvisioningURI builds the otpauth:// enrollment URL the account
// holder scans into an authenticator app.
func (s *TOTPService) ProvisioningURI(email, secret string) string {
	label := url.PathEscape(fmt.Sprintf("%s:%s", s.issuer, email))
	params := url.Values{}
	params.Set("secret", secret)
	params.Set("issuer", s.issuer)
	params.Set("algorithm", "SHA1")
	params.Set("digits", "6")
	params.Set("period", fmt.Sprintf("%d", s.period))
	return fmt.Sprintf("otpauth://totp/%s?%s", label, params.Encode())
}

// Verify checks a submitted code against the secret at the given time,
// accepting adjacent time steps to absorb clock drift.
func (s *TOTPService) Verify(secret, code string, now time.Time) bool {
	valid, err := totp.ValidateCustom(code, secret, now, totp.ValidateOpts{
		Period:    s.period,
		Skew:      s.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}
