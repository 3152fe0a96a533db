// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package auth

import "time"

// # Verification Contexts

// Context tags returned by OTP verification, identifying which resolution
// path produced the match. The frontend branches its flow on these values.
const (
	// ContextRegistration means the code matched a pre-registration record.
	ContextRegistration = "registration"

	// ContextForgotPassword means the code matched an existing account.
	ContextForgotPassword = "forgot-password"
)

// # Lifetimes

const (
	// PendingRetentionTTL is how long a pre-registration OTP record is kept
	// in volatile storage. It is retention housekeeping, not code validity:
	// codes expire after [sec.OTPValidity], but the record must outlive the
	// code so an expired submission can be told apart from a missing one.
	PendingRetentionTTL = 24 * time.Hour
)
