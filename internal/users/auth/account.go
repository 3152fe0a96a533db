// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

/*
Package auth implements the identity and credential management core of PGNest.

It defines the domain entities (Account, PendingVerification) and the gateway
logic for registration, login, OTP issuance and verification, and password
recovery.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to identity.
*/
package auth

import "time"

// # Domain Entities

// Account represents a registered member of the PGNest platform.
//
// The OTP fields are nullable: they are populated only while a one-time code
// issued to this account is outstanding.
type Account struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Explicitly omitted from JSON for security.
	OTP          *string    `json:"-"` // Outstanding one-time code, if any.
	OTPExpiresAt *time.Time `json:"-"` // Expiry of the outstanding code.
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PendingVerification is a pre-registration OTP record for an email address
// that has no account yet. It lives in volatile storage, keyed by email.
type PendingVerification struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the pending record's code is dead at the given
// instant. The boundary is inclusive: the code no longer verifies at the
// exact expiry time.
func (pending *PendingVerification) Expired(now time.Time) bool {
	return !now.Before(pending.ExpiresAt)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldOTP         = "otp"
	FieldToken       = "token"
	FieldUser        = "user"
	FieldMessage     = "message"
	FieldVerified    = "verified"
	FieldVerifyScope = "context"
)
