// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pgnest/pgnest/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile reads and updates for authenticated accounts.
type Service struct {
	userRepository auth.UserRepository
	logger         *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(userRepo auth.UserRepository, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		logger:         logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the private profile of an account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *Profile: Client-facing projection
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, accountID string) (*Profile, error) {
	account, err := service.userRepository.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}
	return profileOf(account), nil
}

/*
UpdateName replaces the account's display name.

Parameters:
  - context: context.Context
  - accountID: string
  - name: string

Returns:
  - *Profile: The updated projection
  - error: Not found or update failures
*/
func (service *Service) UpdateName(context context.Context, accountID, name string) (*Profile, error) {

	// Resolve the account first so a stale token maps to NotFound.
	account, err := service.userRepository.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}

	if err := service.userRepository.UpdateName(context, accountID, name); err != nil {
		return nil, fmt.Errorf("account_service_update_name_failed: %w", err)
	}

	service.logger.Info("account_name_updated", slog.String("account_id", accountID))

	account.Name = name
	return profileOf(account), nil
}
