package service

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

func codeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		t.Fatalf("GenerateCodeCustom returned error: %v", err)
	}
	return code
}

func TestTOTPService_GenerateSecret(t *testing.T) {
	svc := NewTOTPService("LawHelp", 30, 1)

	first, err := svc.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}
	second, err := svc.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}

	if len(first) != 32 {
		t.Errorf("secret length = %d, want 32 base32 characters", len(first))
	}
	if first == second {
		t.Error("consecutive secrets are identical")
	}
}

func TestTOTPService_ProvisioningURI(t *testing.T) {
	svc := NewTOTPService("LawHelp", 30, 1)

	uri := svc.ProvisioningURI("user@example.com", "JBSWY3DPEHPK3PXP")

	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Errorf("URI %q does not start with otpauth://totp/", uri)
	}
	for _, want := range []string{"secret=JBSWY3DPEHPK3PXP", "issuer=LawHelp", "period=30", "digits=6", "algorithm=SHA1"} {
		if !strings.Contains(uri, want) {
			t.Errorf("URI %q missing %q", uri, want)
		}
	}
}

func TestTOTPService_VerifyCurrentStep(t *testing.T) {
	svc := NewTOTPService("LawHelp", 30, 1)
	secret, err := svc.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}

	now := time.Unix(1700000000, 0)
	if !svc.Verify(secret, codeAt(t, secret, now), now) {
		t.Error("code generated at the current step did not verify")
	}
}

func TestTOTPService_VerifyAdjacentSteps(t *testing.T) {
	svc := NewTOTPService("LawHelp", 30, 1)
	secret, err := svc.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}

	now := time.Unix(1700000000, 0)
	if !svc.Verify(secret, codeAt(t, secret, now.Add(-30*time.Second)), now) {
		t.Error("code from the previous step did not verify within skew")
	}
	if !svc.Verify(secret, codeAt(t, secret, now.Add(30*time.Second)), now) {
		t.Error("code from the next step did not verify within skew")
	}
}

func TestTOTPService_RejectsDistantStep(t *testing.T) {
	svc := NewTOTPService("LawHelp", 30, 1)
	secret, err := svc.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}

	now := time.Unix(1700000000, 0)
	distant := codeAt(t, secret, now.Add(10*time.Minute))

	// Guard against an accidental collision with a code in the
	// accepted window before asserting rejection.
	for _, offset := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		if distant == codeAt(t, secret, now.Add(offset)) {
			t.Skip("distant code collided with an in-window code")
		}
	}

	if svc.Verify(secret, distant, now) {
		t.Error("code from ten minutes ahead verified")
	}
}

func TestTOTPService_RejectsGarbage(t *testing.T) {
	svc := NewTOTPService("LawHelp", 30, 1)
	secret, err := svc.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}

	now := time.Unix(1700000000, 0)
	for _, code := range []string{"", "abcdef", "12345", "1234567"} {
		if svc.Verify(secret, code, now) {
			t.Errorf("Verify accepted %q", code)
		}
	}
}
