// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/pgnest/pgnest/internal/platform/apperr"
	"github.com/pgnest/pgnest/internal/platform/mail"
	"github.com/pgnest/pgnest/internal/platform/sec"
	"github.com/pgnest/pgnest/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for generating session tokens.
type TokenIssuer interface {
	// Issue creates a signed session token for the given account.
	//
	// # Parameters
	//   - accountID: The ID of the account.
	//
	// # Returns
	//   - A signed token string, or an err if signing fails.
	Issue(accountID string) (string, error)
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, OTP
// resolution, or login logic must be reviewed before merge.
type Service struct {
	userRepository    UserRepository
	pendingRepository PendingVerificationRepository
	tokenIssuer       TokenIssuer
	mailer            mail.Sender
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	pendingRepo PendingVerificationRepository,
	tokenIssuer TokenIssuer,
	mailer mail.Sender,
) *Service {
	return &Service{
		userRepository:    userRepo,
		pendingRepository: pendingRepo,
		tokenIssuer:       tokenIssuer,
		mailer:            mailer,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new account.

Description: Registration does not require a prior OTP verification; the
send-otp / verify-otp sequence is a client-side convention. The existence
pre-check is advisory only: the unique index on email is the real guarantee,
and a losing concurrent insert surfaces as the same Conflict.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Account: Created entity
  - err: Conflict (if email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Account, error) {

	// Verify email uniqueness. Return a client-safe Conflict err. A storage
	// failure here must surface rather than read as "email free".
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new Account entity. Time-sortable ID to prevent PG index fragmentation.
	account := &Account{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// Persist the account to the database
	if err := service.userRepository.Create(context, account); err != nil {
		return nil, err
	}

	return account, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established session.
type LoginSession struct {
	Token   string
	Account *Account
}

/*
Login validates credentials and issues a session token.

Description: Resolves the account by email, performs constant-time password
comparison, and issues a 24-hour self-contained token. An unknown email is
reported distinctly from a wrong password.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session
  - err: NotFound, ErrInvalidCredentials, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Resolve the account by email
	account, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, err
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// Issue the session token
	token, err := service.tokenIssuer.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginSession{
		Token:   token,
		Account: account,
	}, nil
}

// # OTP Lifecycle

/*
SendOtp generates a one-time code and delivers it by email.

Description: Dual-path persistence. If the email belongs to an account, the
code is stored on the account row (recovery flow). Otherwise it is stored as
a pending-verification record in volatile storage (pre-registration flow).
Either path overwrites any earlier code for the email. The email dispatch
happens after persistence; a dispatch failure is surfaced but the stored code
is not rolled back — resending is the recovery path.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - err: Generation, storage, or dispatch failures
*/
func (service *Service) SendOtp(context context.Context, email string) error {

	// ── 1. Generate the code and its expiry ──
	code, expiresAt, err := sec.GenerateOTP()
	if err != nil {
		return fmt.Errorf("auth_service_otp_generation_failed: %w", err)
	}

	// ── 2. Persist on the matching path ──
	account, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		// Existing account: store the code on the account row.
		if err := service.userRepository.SetOTP(context, account.ID, code, expiresAt); err != nil {
			return fmt.Errorf("auth_service_set_otp_failed: %w", err)
		}
	} else if apperr.IsNotFound(err) {
		// No account yet: upsert a pending pre-registration record.
		record := &PendingVerification{Code: code, ExpiresAt: expiresAt}
		if err := service.pendingRepository.Replace(context, email, record); err != nil {
			return fmt.Errorf("auth_service_pending_otp_failed: %w", err)
		}
	} else {
		return err
	}

	// ── 3. Dispatch the code by email ──
	if err := service.mailer.SendOTP(email, code); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// VerifyOtpResult reports a successful verification and which resolution
// path produced it.
type VerifyOtpResult struct {
	Verified bool   `json:"verified"`
	Context  string `json:"context"`
}

/*
VerifyOtp checks a submitted code against the stored one for the email.

Description: Account-first resolution — an account carrying an outstanding
code shadows any pending record for the same email, and only the account's
code is consulted. An account without a set code falls through to the pending
lookup exactly like an email with no account at all. Verification is
read-only: the matched code is not consumed and remains valid until it
expires or is overwritten by a later SendOtp.

Parameters:
  - context: context.Context
  - email: string
  - code: string

Returns:
  - *VerifyOtpResult: Verified flag plus the flow context tag
  - err: ErrInvalidOTP, ErrOTPExpired, ErrNoOTPRecord, or lookup failures
*/
func (service *Service) VerifyOtp(context context.Context, email, code string) (*VerifyOtpResult, error) {
	now := time.Now()

	// ── 1. Account path: taken only when the account holds an outstanding code ──
	account, err := service.userRepository.FindByEmail(context, email)
	if err == nil && account.OTP != nil && *account.OTP != "" {
		if *account.OTP != code {
			return nil, ErrInvalidOTP
		}
		// The code dies at the exact expiry instant.
		if account.OTPExpiresAt == nil || !now.Before(*account.OTPExpiresAt) {
			return nil, ErrOTPExpired
		}
		return &VerifyOtpResult{Verified: true, Context: ContextForgotPassword}, nil
	}
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	// ── 2. Pending path: pre-registration record keyed by email ──
	pending, err := service.pendingRepository.FindByEmail(context, email)
	if err != nil {
		return nil, err
	}

	if pending.Code != code {
		return nil, ErrInvalidOTP
	}
	if pending.Expired(now) {
		return nil, ErrOTPExpired
	}

	return &VerifyOtpResult{Verified: true, Context: ContextRegistration}, nil
}

// # Password Recovery

/*
ResetPassword overwrites the password for a known email.

Description: The endpoint trusts its caller: no OTP is checked here, and the
stored code itself is not cleared — only its expiry is nulled, which is what
actually disarms the stale code. The client flow runs verify-otp first, but
nothing server-side enforces that ordering.

Parameters:
  - context: context.Context
  - email: string
  - newPassword: string

Returns:
  - err: NotFound, hashing, or update failures
*/
func (service *Service) ResetPassword(context context.Context, email, newPassword string) error {

	// Resolve the account; unknown emails are reported as NotFound.
	account, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the account's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, account.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Disarm the outstanding code by clearing its expiry
	if err := service.userRepository.ClearOTPExpiry(context, account.ID); err != nil {
		return fmt.Errorf("auth_service_reset_password_clear_otp_failed: %w", err)
	}

	return nil
}
