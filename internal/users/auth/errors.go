// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package auth

import (
	"net/http"

	"github.com/pgnest/pgnest/internal/platform/apperr"
)

// # Domain Error Taxonomy
//
// Expected failures of the auth flows, pinned to the HTTP statuses the
// public API contract defines. All OTP failures are client errors (400),
// including the missing-record case, which keeps its NOT_FOUND code but
// not the 404 status.

var (
	// ErrInvalidCredentials is returned when a login password does not match.
	ErrInvalidCredentials = &apperr.AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid credentials",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInvalidOTP is returned when a submitted code does not match the stored one.
	ErrInvalidOTP = &apperr.AppError{
		Code:       "INVALID_OTP",
		Message:    "Invalid OTP",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrOTPExpired is returned when the matching code has passed its expiry.
	ErrOTPExpired = &apperr.AppError{
		Code:       "OTP_EXPIRED",
		Message:    "OTP has expired",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrNoOTPRecord is returned when neither an account nor a pending
	// record holds a code for the submitted email.
	ErrNoOTPRecord = &apperr.AppError{
		Code:       "NOT_FOUND",
		Message:    "No OTP found for this email",
		HTTPStatus: http.StatusBadRequest,
	}
)
