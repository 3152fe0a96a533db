// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pgnest/pgnest/internal/platform/constants"
)

// # Pending Verification Repository

// RedisPendingVerificationRepository implements PendingVerificationRepository
// using Redis. Records are JSON values keyed by email.
type RedisPendingVerificationRepository struct {
	client *redis.Client
}

// NewPendingVerificationRepository creates a new Redis-backed PendingVerificationRepository.
func NewPendingVerificationRepository(client *redis.Client) *RedisPendingVerificationRepository {
	return &RedisPendingVerificationRepository{client: client}
}

// pendingKey builds the Redis key for an email's pending record.
func pendingKey(email string) string {
	return constants.RedisPrefixPendingOTP + email
}

/*
Replace removes any existing record for the email and stores the new one.

Description: Delete-then-set, not a transaction. Concurrent callers race and
the last completed SET wins; either way exactly one record remains. The key
carries a retention TTL so abandoned registrations are garbage-collected,
while expired-but-retained codes stay resolvable for verification.

Parameters:
  - context: context.Context
  - email: string
  - record: *PendingVerification

Returns:
  - error: Serialization or execution errors
*/
func (repository *RedisPendingVerificationRepository) Replace(context context.Context, email string, record *PendingVerification) error {
	key := pendingKey(email)

	// 1. Drop the previous record, if any
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_pending_otp_delete_failed: %w", err)
	}

	// 2. Serialize and store the fresh record
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("redis_pending_otp_marshal_failed: %w", err)
	}

	if err := repository.client.Set(context, key, payload, PendingRetentionTTL).Err(); err != nil {
		return fmt.Errorf("redis_pending_otp_set_failed: %w", err)
	}

	return nil
}

/*
FindByEmail returns the pending record for the email.

Description: Returns ErrNoOTPRecord if the key is absent. Expiry of the code
itself is the caller's concern; this lookup only answers existence.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *PendingVerification: Hydrated record
  - error: ErrNoOTPRecord or connectivity errors
*/
func (repository *RedisPendingVerificationRepository) FindByEmail(context context.Context, email string) (*PendingVerification, error) {
	payload, err := repository.client.Get(context, pendingKey(email)).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoOTPRecord
		}
		return nil, fmt.Errorf("redis_pending_otp_get_failed: %w", err)
	}

	record := &PendingVerification{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("redis_pending_otp_unmarshal_failed: %w", err)
	}

	return record, nil
}

/*
Delete removes the pending record for the email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Execution errors
*/
func (repository *RedisPendingVerificationRepository) Delete(context context.Context, email string) error {
	if err := repository.client.Del(context, pendingKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_pending_otp_delete_failed: %w", err)
	}
	return nil
}
