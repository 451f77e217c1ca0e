package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lawhelp/auth-service/config"
	apperrors "github.com/lawhelp/auth-service/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

func newTestCredentialService(store *fakeAccountStore) *CredentialService {
	// MinCost keeps the bcrypt work factor out of the test runtime
	return NewCredentialService(store, config.PasswordConfig{
		MinLength:  8,
		BcryptCost: bcrypt.MinCost,
	})
}

func TestCredentialService_CreateHashesPassword(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestCredentialService(store)

	account, err := svc.Create(context.Background(), "Ada", "Ada@Example.COM ", "correct horse", false, false, "none", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if account.Email != "ada@example.com" {
		t.Errorf("Email = %q, want normalized %q", account.Email, "ada@example.com")
	}
	if account.PasswordHash == "correct horse" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("correct horse")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
}

func TestCredentialService_CreateRejectsBlankName(t *testing.T) {
	svc := newTestCredentialService(newFakeAccountStore())

	for _, name := range []string{"", " ", "A"} {
		_, err := svc.Create(context.Background(), name, "ada@example.com", "correct horse", false, false, "none", nil)
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("Create with name %q error = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestCredentialService_CreateRejectsWeakPassword(t *testing.T) {
	svc := newTestCredentialService(newFakeAccountStore())

	_, err := svc.Create(context.Background(), "Ada", "ada@example.com", "short", false, false, "none", nil)
	if !errors.Is(err, apperrors.ErrWeakPassword) {
		t.Fatalf("Create error = %v, want ErrWeakPassword", err)
	}
}

func TestCredentialService_CreateDuplicateEmail(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestCredentialService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Ada", "ada@example.com", "correct horse", false, false, "none", nil); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	// Same address with different casing must still collide
	_, err := svc.Create(ctx, "Imposter", "ADA@example.com", "battery staple", false, false, "none", nil)
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Fatalf("second Create error = %v, want ErrEmailExists", err)
	}
}

func TestCredentialService_ConcurrentDuplicateRegistration(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestCredentialService(store)
	ctx := context.Background()

	const racers = 8
	results := make(chan error, racers)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < racers; i++ {
		go func() {
			start.Wait()
			_, err := svc.Create(ctx, "Ada", "ada@example.com", "correct horse", false, false, "none", nil)
			results <- err
		}()
	}
	start.Done()

	var wins, conflicts int
	for i := 0; i < racers; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, apperrors.ErrEmailExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("winners = %d, want exactly 1", wins)
	}
	if conflicts != racers-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, racers-1)
	}
}

func TestCredentialService_CreateDropsSecretWithoutTOTP(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestCredentialService(store)
	secret := "JBSWY3DPEHPK3PXP"

	account, err := svc.Create(context.Background(), "Ada", "ada@example.com", "correct horse", false, true, "email", &secret)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if account.TwoFactorSecret != nil {
		t.Error("secret persisted for a non-TOTP account")
	}
	if account.TwoFactorMethod != "email" {
		t.Errorf("TwoFactorMethod = %q, want %q", account.TwoFactorMethod, "email")
	}
}

func TestCredentialService_VerifySuccess(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestCredentialService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Ada", "ada@example.com", "correct horse", false, false, "none", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	account, err := svc.Verify(ctx, "ADA@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if account.ID != created.ID {
		t.Errorf("Verify returned account %q, want %q", account.ID, created.ID)
	}
}

func TestCredentialService_VerifyIndistinguishableFailures(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestCredentialService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Ada", "ada@example.com", "correct horse", false, false, "none", nil); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, unknownErr := svc.Verify(ctx, "nobody@example.com", "correct horse")
	_, wrongErr := svc.Verify(ctx, "ada@example.com", "battery staple")

	if !errors.Is(unknownErr, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongErr, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", wrongErr)
	}
	if apperrors.GetErrorMessage(unknownErr) != apperrors.GetErrorMessage(wrongErr) {
		t.Error("failure messages differ between unknown email and wrong password")
	}
}

func TestCredentialService_VerifyStorageFault(t *testing.T) {
	store := newFakeAccountStore()
	store.failAll = true
	svc := newTestCredentialService(store)

	_, err := svc.Verify(context.Background(), "ada@example.com", "correct horse")
	if !errors.Is(err, apperrors.ErrServiceUnavailable) {
		t.Fatalf("Verify error = %v, want ErrServiceUnavailable", err)
	}
}
