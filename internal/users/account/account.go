// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

/*
Package account provides the profile operations of the users domain.

It exposes the authenticated self-service surface: reading the caller's
profile and renaming the account. Identity data itself is owned by the auth
domain; this package consumes its repository contract.

# Security

All endpoints in this package require an active session provided by the
RequireAuth middleware.
*/
package account

import "github.com/pgnest/pgnest/internal/users/auth"

// Profile is the client-facing projection of an [auth.Account].
//
// Credential and OTP fields never appear here.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// profileOf projects an account into its client-facing view.
func profileOf(account *auth.Account) *Profile {
	return &Profile{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
	}
}
