// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package auth

import (
	"context"
	"time"
)

// # Account Data Access

// UserRepository defines the data access contract for accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		Create persists a brand-new account to the storage.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: Persistence failures (unique violations surface as Conflict)
	*/
	Create(context context.Context, account *Account) error

	/*
		UpdateName replaces only the account's display name.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - name: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateName(context context.Context, accountID, name string) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, accountID, newHash string) error

	/*
		SetOTP stores a fresh one-time code and its expiry on the account,
		replacing any previous code.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - code: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetOTP(context context.Context, accountID, code string, expiresAt time.Time) error

	/*
		ClearOTPExpiry nulls only the OTP expiry field, leaving the code
		column untouched.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearOTPExpiry(context context.Context, accountID string) error
}

// # Pending Verification Data Access

// PendingVerificationRepository defines the contract for pre-registration
// OTP records kept in volatile storage, keyed by email.
type PendingVerificationRepository interface {

	/*
		Replace removes any existing record for the email and stores the new one.

		The two steps are not atomic: concurrent writers race, and the last
		completed write wins. At most one record per email survives.

		Parameters:
		  - context: context.Context
		  - email: string
		  - record: *PendingVerification

		Returns:
		  - error: Persistence failures
	*/
	Replace(context context.Context, email string, record *PendingVerification) error

	/*
		FindByEmail returns the pending record for the email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *PendingVerification: Hydrated record
		  - error: ErrNoOTPRecord if absent, or connectivity errors
	*/
	FindByEmail(context context.Context, email string) (*PendingVerification, error)

	/*
		Delete removes the pending record for the email, if any.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, email string) error
}
