// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package account

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgnest/pgnest/internal/platform/apperr"
	"github.com/pgnest/pgnest/internal/users/auth"
)

// stubUserRepository holds a single account for profile tests.
type stubUserRepository struct {
	account *auth.Account
}

func (repo *stubUserRepository) FindByID(_ context.Context, id string) (*auth.Account, error) {
	if repo.account != nil && repo.account.ID == id {
		copied := *repo.account
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *stubUserRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	if repo.account != nil && repo.account.Email == email {
		copied := *repo.account
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *stubUserRepository) Create(_ context.Context, account *auth.Account) error {
	repo.account = account
	return nil
}

func (repo *stubUserRepository) UpdateName(_ context.Context, accountID, name string) error {
	if repo.account != nil && repo.account.ID == accountID {
		repo.account.Name = name
	}
	return nil
}

func (repo *stubUserRepository) UpdatePassword(_ context.Context, _, _ string) error { return nil }

func (repo *stubUserRepository) SetOTP(_ context.Context, _, _ string, _ time.Time) error {
	return nil
}

func (repo *stubUserRepository) ClearOTPExpiry(_ context.Context, _ string) error { return nil }

/*
TestService_GetProfile checks the projection and the stale-token case.
*/
func TestService_GetProfile(t *testing.T) {
	ctx := context.Background()
	repo := &stubUserRepository{account: &auth.Account{
		ID:           "acc-1",
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: "$2a$10$secret",
	}}
	service := NewService(repo, slog.Default())

	profile, err := service.GetProfile(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, &Profile{ID: "acc-1", Name: "Asha", Email: "asha@example.com"}, profile)

	_, err = service.GetProfile(ctx, "acc-missing")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_UpdateName checks the rename round-trip.
*/
func TestService_UpdateName(t *testing.T) {
	ctx := context.Background()
	repo := &stubUserRepository{account: &auth.Account{ID: "acc-1", Name: "Asha", Email: "asha@example.com"}}
	service := NewService(repo, slog.Default())

	profile, err := service.UpdateName(ctx, "acc-1", "Asha Rao")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", profile.Name)
	assert.Equal(t, "Asha Rao", repo.account.Name)

	_, err = service.UpdateName(ctx, "acc-missing", "Anyone")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
