// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

// PostgreSQL storage implementations for the auth domain.
//
// # Architecture
//
// Repositories here are strictly separated from domain logic. They implement
// domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgnest/pgnest/internal/platform/apperr"
	"github.com/pgnest/pgnest/internal/platform/dberr"
)

// # Account Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new account record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided. A concurrent insert of the same email loses to the unique
index and surfaces as a Conflict.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, account *Account) error {
	const query = `
		INSERT INTO users.account (
			id, name, email, passwordhash, otp, otpexpiresat, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.OTP,
		account.OTPExpiresAt,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves an account record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	const query = `
		SELECT id, name, email, passwordhash, otp, otpexpiresat, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	account := &Account{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.OTP,
		&account.OTPExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return account, nil
}

/*
FindByID retrieves an account record by its unique ID.

Description: Primary key resolution for accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*Account, error) {
	const query = `
		SELECT id, name, email, passwordhash, otp, otpexpiresat, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	account := &Account{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.OTP,
		&account.OTPExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return account, nil
}

/*
UpdateName replaces only the display name for a specific account.

Parameters:
  - context: context.Context
  - accountID: string
  - name: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateName(context context.Context, accountID, name string) error {
	const query = `
		UPDATE users.account
		SET name = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, accountID, name, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_name_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific account.

Parameters:
  - context: context.Context
  - accountID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, accountID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, accountID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
SetOTP stores a fresh one-time code and its expiry on the account.

Description: Overwrites any previous code unconditionally, so a resend
invalidates the earlier code.

Parameters:
  - context: context.Context
  - accountID: string
  - code: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetOTP(context context.Context, accountID, code string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET otp = $2, otpexpiresat = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, accountID, code, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_otp_failed: %w", err)
	}

	return nil
}

/*
ClearOTPExpiry nulls only the OTP expiry field.

Description: The code column is deliberately left in place; after this call
the stale code can no longer verify because its expiry is gone.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearOTPExpiry(context context.Context, accountID string) error {
	const query = `
		UPDATE users.account
		SET otpexpiresat = NULL, updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, accountID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_otp_expiry_failed: %w", err)
	}

	return nil
}
