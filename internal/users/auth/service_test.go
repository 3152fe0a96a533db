// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgnest/pgnest/internal/platform/apperr"
	"github.com/pgnest/pgnest/internal/platform/sec"
	"github.com/pgnest/pgnest/pkg/uuid"
)

// # Test Fakes

// fakeUserRepository is an in-memory UserRepository keyed by email.
type fakeUserRepository struct {
	mu           sync.Mutex
	accounts     map[string]*Account // by email
	findEmailErr error               // when set, FindByEmail fails with it
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{accounts: make(map[string]*Account)}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, account := range repo.accounts {
		if account.ID == id {
			copied := *account
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.findEmailErr != nil {
		return nil, repo.findEmailErr
	}
	account, found := repo.accounts[email]
	if !found {
		return nil, apperr.NotFound("User")
	}
	copied := *account
	return &copied, nil
}

func (repo *fakeUserRepository) Create(_ context.Context, account *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, found := repo.accounts[account.Email]; found {
		return apperr.Conflict("Email is already registered")
	}
	copied := *account
	repo.accounts[account.Email] = &copied
	return nil
}

func (repo *fakeUserRepository) UpdateName(_ context.Context, accountID, name string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, account := range repo.accounts {
		if account.ID == accountID {
			account.Name = name
			return nil
		}
	}
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, accountID, newHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, account := range repo.accounts {
		if account.ID == accountID {
			account.PasswordHash = newHash
			return nil
		}
	}
	return nil
}

func (repo *fakeUserRepository) SetOTP(_ context.Context, accountID, code string, expiresAt time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, account := range repo.accounts {
		if account.ID == accountID {
			account.OTP = &code
			expiry := expiresAt
			account.OTPExpiresAt = &expiry
			return nil
		}
	}
	return nil
}

func (repo *fakeUserRepository) ClearOTPExpiry(_ context.Context, accountID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, account := range repo.accounts {
		if account.ID == accountID {
			account.OTPExpiresAt = nil
			return nil
		}
	}
	return nil
}

// seed inserts an account with a bcrypt-hashed password and returns it.
func (repo *fakeUserRepository) seed(t *testing.T, name, email, password string) *Account {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	account := &Account{ID: uuid.New(), Name: name, Email: email, PasswordHash: hash}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

// fakePendingRepository is an in-memory PendingVerificationRepository.
type fakePendingRepository struct {
	mu      sync.Mutex
	records map[string]*PendingVerification // by email
}

func newFakePendingRepository() *fakePendingRepository {
	return &fakePendingRepository{records: make(map[string]*PendingVerification)}
}

func (repo *fakePendingRepository) Replace(_ context.Context, email string, record *PendingVerification) error {
	repo.mu.Lock()
	delete(repo.records, email)
	repo.mu.Unlock()

	// Separate critical sections mirror the non-atomic delete-then-set of the
	// real store so interleavings are possible under the race detector.
	repo.mu.Lock()
	copied := *record
	repo.records[email] = &copied
	repo.mu.Unlock()
	return nil
}

func (repo *fakePendingRepository) FindByEmail(_ context.Context, email string) (*PendingVerification, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	record, found := repo.records[email]
	if !found {
		return nil, ErrNoOTPRecord
	}
	copied := *record
	return &copied, nil
}

func (repo *fakePendingRepository) Delete(_ context.Context, email string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.records, email)
	return nil
}

func (repo *fakePendingRepository) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.records)
}

// fakeTokenIssuer issues predictable tokens.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(accountID string) (string, error) {
	return "token-" + accountID, nil
}

// fakeMailer records dispatched codes and can simulate relay failures.
type fakeMailer struct {
	mu     sync.Mutex
	sent   map[string][]string // email -> codes
	broken bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(map[string][]string)}
}

func (mailer *fakeMailer) SendOTP(toEmail string, code string) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if mailer.broken {
		return assert.AnError
	}
	mailer.sent[toEmail] = append(mailer.sent[toEmail], code)
	return nil
}

func (mailer *fakeMailer) codesFor(email string) []string {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	return append([]string(nil), mailer.sent[email]...)
}

// newTestService wires a Service over fresh fakes.
func newTestService() (*Service, *fakeUserRepository, *fakePendingRepository, *fakeMailer) {
	users := newFakeUserRepository()
	pending := newFakePendingRepository()
	mailer := newFakeMailer()
	service := NewService(users, pending, fakeTokenIssuer{}, mailer)
	return service, users, pending, mailer
}

// # Registration

/*
TestService_Register checks account creation, password hashing, the
duplicate-email conflict, and that a pre-check storage failure surfaces.
*/
func TestService_Register(t *testing.T) {
	ctx := context.Background()
	service, users, _, _ := newTestService()

	account, err := service.Register(ctx, RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "hunter42",
	})
	require.NoError(t, err)
	require.NotNil(t, account)

	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "asha@example.com", account.Email)

	// The stored credential must be a hash that verifies, never the plaintext.
	assert.NotEqual(t, "hunter42", account.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("hunter42", account.PasswordHash))

	// Second registration with the same email must conflict.
	_, err = service.Register(ctx, RegisterInput{
		Name:     "Someone Else",
		Email:    "asha@example.com",
		Password: "different1",
	})
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
	assert.Equal(t, 400, appError.HTTPStatus)

	// A storage outage during the existence pre-check must not read as
	// "email free" and proceed to an insert.
	users.findEmailErr = assert.AnError
	_, err = service.Register(ctx, RegisterInput{
		Name:     "Priya",
		Email:    "priya@example.com",
		Password: "hunter42",
	})
	require.ErrorIs(t, err, assert.AnError)

	users.findEmailErr = nil
	_, err = users.FindByEmail(ctx, "priya@example.com")
	assert.True(t, apperr.IsNotFound(err))
}

// # Login

/*
TestService_Login covers the three credential outcomes: success, unknown
email, and wrong password.
*/
func TestService_Login(t *testing.T) {
	ctx := context.Background()
	service, users, _, _ := newTestService()
	seeded := users.seed(t, "Asha", "asha@example.com", "hunter42")

	t.Run("success issues token and returns account", func(t *testing.T) {
		session, err := service.Login(ctx, LoginInput{Email: "asha@example.com", Password: "hunter42"})
		require.NoError(t, err)
		assert.Equal(t, "token-"+seeded.ID, session.Token)
		assert.Equal(t, seeded.ID, session.Account.ID)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "hunter42"})
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		_, err := service.Login(ctx, LoginInput{Email: "asha@example.com", Password: "wrong-pass"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

// # OTP Issuance

/*
TestService_SendOtp_AccountPath checks that a known email stores the code on
the account row and never touches the pending store.
*/
func TestService_SendOtp_AccountPath(t *testing.T) {
	ctx := context.Background()
	service, users, pending, mailer := newTestService()
	seeded := users.seed(t, "Asha", "asha@example.com", "hunter42")

	require.NoError(t, service.SendOtp(ctx, "asha@example.com"))

	stored, err := users.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OTP)
	require.NotNil(t, stored.OTPExpiresAt)

	assert.Len(t, *stored.OTP, 6)
	assert.WithinDuration(t, time.Now().Add(sec.OTPValidity), *stored.OTPExpiresAt, 5*time.Second)

	// The dispatched code is the stored code.
	codes := mailer.codesFor("asha@example.com")
	require.Len(t, codes, 1)
	assert.Equal(t, *stored.OTP, codes[0])

	// The pending store is not consulted for known emails.
	assert.Zero(t, pending.count())
}

/*
TestService_SendOtp_PendingPath checks that an unknown email produces a
pending record and that resending overwrites it.
*/
func TestService_SendOtp_PendingPath(t *testing.T) {
	ctx := context.Background()
	service, _, pending, mailer := newTestService()

	require.NoError(t, service.SendOtp(ctx, "new@example.com"))

	first, err := pending.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Len(t, first.Code, 6)
	assert.WithinDuration(t, time.Now().Add(sec.OTPValidity), first.ExpiresAt, 5*time.Second)

	// Resend replaces the record; only the latest code remains.
	require.NoError(t, service.SendOtp(ctx, "new@example.com"))
	second, err := pending.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, pending.count())
	codes := mailer.codesFor("new@example.com")
	require.Len(t, codes, 2)
	assert.Equal(t, second.Code, codes[1])
}

/*
TestService_SendOtp_MailFailure checks that a relay failure surfaces as an
internal error while the persisted code stays in place.
*/
func TestService_SendOtp_MailFailure(t *testing.T) {
	ctx := context.Background()
	service, users, _, mailer := newTestService()
	seeded := users.seed(t, "Asha", "asha@example.com", "hunter42")
	mailer.broken = true

	err := service.SendOtp(ctx, "asha@example.com")
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INTERNAL_ERROR", appError.Code)

	// No rollback: the code was persisted before dispatch and stays valid.
	stored, err := users.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.OTP)
}

/*
TestService_SendOtp_Concurrent hammers the pending path for one email and
asserts that exactly one record survives, holding one of the issued codes.
*/
func TestService_SendOtp_Concurrent(t *testing.T) {
	ctx := context.Background()
	service, _, pending, mailer := newTestService()

	const writers = 16
	var group sync.WaitGroup
	group.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer group.Done()
			assert.NoError(t, service.SendOtp(ctx, "raced@example.com"))
		}()
	}
	group.Wait()

	// Last writer wins; either way the store holds exactly one record.
	require.Equal(t, 1, pending.count())
	survivor, err := pending.FindByEmail(ctx, "raced@example.com")
	require.NoError(t, err)
	assert.Contains(t, mailer.codesFor("raced@example.com"), survivor.Code)
}

// # OTP Verification

/*
TestService_VerifyOtp walks the dual-path resolution table: account-first
matching, expiry handling, pending fallback, and the missing-record case.
*/
func TestService_VerifyOtp(t *testing.T) {
	ctx := context.Background()

	t.Run("account code matches with forgot-password context", func(t *testing.T) {
		service, users, _, _ := newTestService()
		seeded := users.seed(t, "Asha", "asha@example.com", "hunter42")
		require.NoError(t, users.SetOTP(ctx, seeded.ID, "123456", time.Now().Add(sec.OTPValidity)))

		result, err := service.VerifyOtp(ctx, "asha@example.com", "123456")
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, ContextForgotPassword, result.Context)
	})

	t.Run("account code mismatch", func(t *testing.T) {
		service, users, _, _ := newTestService()
		seeded := users.seed(t, "Asha", "asha@example.com", "hunter42")
		require.NoError(t, users.SetOTP(ctx, seeded.ID, "123456", time.Now().Add(sec.OTPValidity)))

		_, err := service.VerifyOtp(ctx, "asha@example.com", "654321")
		require.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("account without outstanding code falls through to pending", func(t *testing.T) {
		service, users, pending, _ := newTestService()
		users.seed(t, "Asha", "asha@example.com", "hunter42")
		record := &PendingVerification{Code: "999999", ExpiresAt: time.Now().Add(sec.OTPValidity)}
		require.NoError(t, pending.Replace(ctx, "asha@example.com", record))

		// No code is set on the account, so the pending record is the one
		// consulted and the flow resolves as a registration.
		result, err := service.VerifyOtp(ctx, "asha@example.com", "999999")
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, ContextRegistration, result.Context)
	})

	t.Run("account without outstanding code and no pending record", func(t *testing.T) {
		service, users, _, _ := newTestService()
		users.seed(t, "Asha", "asha@example.com", "hunter42")

		_, err := service.VerifyOtp(ctx, "asha@example.com", "123456")
		require.ErrorIs(t, err, ErrNoOTPRecord)
	})

	t.Run("account code expired", func(t *testing.T) {
		service, users, _, _ := newTestService()
		seeded := users.seed(t, "Asha", "asha@example.com", "hunter42")
		require.NoError(t, users.SetOTP(ctx, seeded.ID, "123456", time.Now().Add(-time.Minute)))

		_, err := service.VerifyOtp(ctx, "asha@example.com", "123456")
		require.ErrorIs(t, err, ErrOTPExpired)
	})

	t.Run("pending code matches with registration context", func(t *testing.T) {
		service, _, pending, _ := newTestService()
		record := &PendingVerification{Code: "123456", ExpiresAt: time.Now().Add(sec.OTPValidity)}
		require.NoError(t, pending.Replace(ctx, "new@example.com", record))

		result, err := service.VerifyOtp(ctx, "new@example.com", "123456")
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, ContextRegistration, result.Context)
	})

	t.Run("pending code expired but retained", func(t *testing.T) {
		service, _, pending, _ := newTestService()
		record := &PendingVerification{Code: "123456", ExpiresAt: time.Now().Add(-time.Minute)}
		require.NoError(t, pending.Replace(ctx, "new@example.com", record))

		// Retention keeps the record resolvable, so the outcome is an expiry,
		// not a missing record.
		_, err := service.VerifyOtp(ctx, "new@example.com", "123456")
		require.ErrorIs(t, err, ErrOTPExpired)
	})

	t.Run("no record anywhere", func(t *testing.T) {
		service, _, _, _ := newTestService()

		_, err := service.VerifyOtp(ctx, "ghost@example.com", "123456")
		require.ErrorIs(t, err, ErrNoOTPRecord)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})

	t.Run("account with a live code shadows a pending record", func(t *testing.T) {
		service, users, pending, _ := newTestService()
		seeded := users.seed(t, "Asha", "asha@example.com", "hunter42")
		require.NoError(t, users.SetOTP(ctx, seeded.ID, "123456", time.Now().Add(sec.OTPValidity)))
		record := &PendingVerification{Code: "999999", ExpiresAt: time.Now().Add(sec.OTPValidity)}
		require.NoError(t, pending.Replace(ctx, "asha@example.com", record))

		// The pending code is unreachable while the account carries its own.
		_, err := service.VerifyOtp(ctx, "asha@example.com", "999999")
		require.ErrorIs(t, err, ErrInvalidOTP)

		// The account's code resolves as a recovery, never a registration.
		result, err := service.VerifyOtp(ctx, "asha@example.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, ContextForgotPassword, result.Context)
	})
}

/*
TestPendingVerification_Expired pins the expiry boundary: the code is dead at
the exact expiry instant, not one tick after it.
*/
func TestPendingVerification_Expired(t *testing.T) {
	expiry := time.Now().Add(sec.OTPValidity)
	record := &PendingVerification{Code: "123456", ExpiresAt: expiry}

	assert.False(t, record.Expired(expiry.Add(-time.Second)))
	assert.True(t, record.Expired(expiry))
	assert.True(t, record.Expired(expiry.Add(time.Second)))
}

/*
TestService_VerifyOtp_ReadOnly confirms that verification does not consume
the code: the same code verifies repeatedly until expiry.
*/
func TestService_VerifyOtp_ReadOnly(t *testing.T) {
	ctx := context.Background()
	service, users, _, _ := newTestService()
	seeded := users.seed(t, "Asha", "asha@example.com", "hunter42")
	require.NoError(t, users.SetOTP(ctx, seeded.ID, "123456", time.Now().Add(sec.OTPValidity)))

	for i := 0; i < 3; i++ {
		result, err := service.VerifyOtp(ctx, "asha@example.com", "123456")
		require.NoError(t, err)
		assert.True(t, result.Verified)
	}
}

// # Password Recovery

/*
TestService_ResetPassword checks the recovery semantics: the password is
replaced without any OTP check, and only the code's expiry is cleared.
*/
func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	service, users, _, _ := newTestService()
	seeded := users.seed(t, "Asha", "asha@example.com", "old-pass1")
	require.NoError(t, users.SetOTP(ctx, seeded.ID, "123456", time.Now().Add(sec.OTPValidity)))

	// No OTP is submitted or checked here.
	require.NoError(t, service.ResetPassword(ctx, "asha@example.com", "new-pass1"))

	stored, err := users.FindByID(ctx, seeded.ID)
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("new-pass1", stored.PasswordHash))
	assert.False(t, sec.CheckPasswordHash("old-pass1", stored.PasswordHash))

	// The stale code stays in its column; only the expiry is nulled, which is
	// what actually disarms it.
	require.NotNil(t, stored.OTP)
	assert.Equal(t, "123456", *stored.OTP)
	assert.Nil(t, stored.OTPExpiresAt)

	// A disarmed code no longer verifies.
	_, err = service.VerifyOtp(ctx, "asha@example.com", "123456")
	require.ErrorIs(t, err, ErrOTPExpired)

	// Unknown emails are rejected.
	err = service.ResetPassword(ctx, "ghost@example.com", "whatever1")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
