// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// # One-Time Passwords

const (
	// otpMin is the smallest issued code. Starting at 100000 guarantees six
	// digits without leading zeros.
	otpMin = 100000

	// otpSpan is the size of the code range [100000, 999999].
	otpSpan = 900000

	// OTPValidity is how long an issued code can be redeemed.
	OTPValidity = 10 * time.Minute
)

// GenerateOTP draws a uniformly random 6-digit code and returns it together
// with its expiry timestamp (generation time + [OTPValidity]).
//
// The draw uses crypto/rand; entropy failure is the only error condition.
func GenerateOTP() (code string, expiresAt time.Time, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to generate OTP: %w", err)
	}

	return strconv.FormatInt(otpMin+n.Int64(), 10), time.Now().Add(OTPValidity), nil
}
