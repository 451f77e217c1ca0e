package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lawhelp/auth-service/internal/model"
	"gorm.io/gorm"
)

var errStorageDown = errors.New("storage down")

// fakeAccountStore is an in-memory AccountStore. It reproduces the
// storage contract the services rely on: duplicate emails surface as
// gorm.ErrDuplicatedKey, missing rows as gorm.ErrRecordNotFound.
type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	byEmail  map[string]string
	failAll  bool
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		accounts: make(map[string]*model.Account),
		byEmail:  make(map[string]string),
	}
}

func (s *fakeAccountStore) Create(_ context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		return errStorageDown
	}
	if _, exists := s.byEmail[account.Email]; exists {
		return gorm.ErrDuplicatedKey
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.TwoFactorMethod == "" {
		account.TwoFactorMethod = "none"
	}
	account.CreatedAt = time.Now()

	s.accounts[account.ID] = account
	s.byEmail[account.Email] = account.ID
	return nil
}

func (s *fakeAccountStore) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		return nil, errStorageDown
	}
	id, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s.accounts[id], nil
}

func (s *fakeAccountStore) GetByID(_ context.Context, id string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		return nil, errStorageDown
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return account, nil
}

func (s *fakeAccountStore) SetEmailVerified(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	account.EmailVerified = true
	return nil
}

func (s *fakeAccountStore) TouchLastActive(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	account.LastActiveAt = &now
	return nil
}

// fakeCodeStore is an in-memory CodeStore with the same claim
// semantics as the conditional update in the real repository.
type fakeCodeStore struct {
	mu      sync.Mutex
	records []*model.VerificationCode
	failAll bool
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{}
}

func (s *fakeCodeStore) Create(_ context.Context, code *model.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		return errStorageDown
	}
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	code.CreatedAt = time.Now()
	s.records = append(s.records, code)
	return nil
}

func (s *fakeCodeStore) Claim(_ context.Context, accountID, purpose, code string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		return false, errStorageDown
	}
	for _, rec := range s.records {
		if rec.AccountID == accountID && rec.Purpose == purpose && rec.Code == code &&
			!rec.Used && rec.ExpiresAt.After(now) {
			rec.Used = true
			return true, nil
		}
	}
	return false, nil
}

// fakeDeliverer records outbound codes instead of sending them.
type fakeDeliverer struct {
	mu                sync.Mutex
	verificationCodes map[string]string
	twoFactorCodes    map[string]string
	failAll           bool
}

func newFakeDeliverer() *fakeDeliverer {
	return &fakeDeliverer{
		verificationCodes: make(map[string]string),
		twoFactorCodes:    make(map[string]string),
	}
}

func (d *fakeDeliverer) DeliverVerificationCode(_ context.Context, to, _, code string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failAll {
		return errors.New("smtp down")
	}
	d.verificationCodes[to] = code
	return nil
}

func (d *fakeDeliverer) DeliverTwoFactorCode(_ context.Context, to, _, code string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failAll {
		return errors.New("smtp down")
	}
	d.twoFactorCodes[to] = code
	return nil
}

func (d *fakeDeliverer) verificationCodeFor(to string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.verificationCodes[to]
}

func (d *fakeDeliverer) twoFactorCodeFor(to string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.twoFactorCodes[to]
}
