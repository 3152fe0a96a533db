// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, OTP
// generation) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenTTL is the lifetime of an issued session token.
//
// There is no revocation list: a token stays valid until it expires,
// independent of password changes or profile updates after issuance.
const SessionTokenTTL = 24 * time.Hour

// AuthClaims represents the payload embedded inside a session token.
//
// The payload carries only the account id. Handlers that need more (name,
// email) resolve it through the account repository.
type AuthClaims struct {
	jwt.RegisteredClaims

	AccountID string `json:"uid"`
}

// TokenService handles generation and verification of session tokens using HS256.
//
// The signing secret is process-wide configuration, injected once at
// construction and never rotated at runtime.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService from the configured signing secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// Issue creates a new signed session token asserting the given account id.
//
// The expiry is always [SessionTokenTTL] from the moment of issuance.
func (service *TokenService) Issue(accountID string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(SessionTokenTTL)),
		},
		AccountID: accountID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a session token string.
//
// Any structural or cryptographic failure (bad signature, expired, wrong
// algorithm, garbage input) yields a single error — never a partial result.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}
