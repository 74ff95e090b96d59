// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcarvalho/tasko/internal/platform/apperr"
	"github.com/rmcarvalho/tasko/internal/user"
)

// memoryRepository implements [user.Repository] over a map.
type memoryRepository struct {
	accounts map[string]*user.User
}

func newMemoryRepository(accounts ...*user.User) *memoryRepository {
	repo := &memoryRepository{accounts: map[string]*user.User{}}
	for _, account := range accounts {
		copied := *account
		repo.accounts[account.ID] = &copied
	}
	return repo
}

func (repo *memoryRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if account, ok := repo.accounts[id]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, account := range repo.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryRepository) Create(ctx context.Context, account *user.User) error {
	copied := *account
	repo.accounts[account.ID] = &copied
	return nil
}

func (repo *memoryRepository) Delete(ctx context.Context, id string) error {
	if _, ok := repo.accounts[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.accounts, id)
	return nil
}

/*
TestService_Get verifies the profile projection hides everything but the
public fields.
*/
func TestService_Get(t *testing.T) {
	repo := newMemoryRepository(&user.User{ID: "user-1", Email: "rui@tasko.app", Username: "Rui"})
	service := user.NewService(repo)

	profile, err := service.Get(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "Rui", profile.Username)
}

/*
TestService_Delete verifies that accounts can only delete themselves, and
that foreign or absent targets are indistinguishable.
*/
func TestService_Delete(t *testing.T) {
	repo := newMemoryRepository(
		&user.User{ID: "user-1", Email: "rui@tasko.app", Username: "Rui"},
		&user.User{ID: "user-2", Email: "ana@tasko.app", Username: "Ana"},
	)
	service := user.NewService(repo)

	t.Run("foreign_target", func(t *testing.T) {
		err := service.Delete(context.Background(), "user-1", "user-2")
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})

	t.Run("absent_target", func(t *testing.T) {
		err := service.Delete(context.Background(), "user-1", "ghost")
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})

	t.Run("self", func(t *testing.T) {
		require.NoError(t, service.Delete(context.Background(), "user-1", "user-1"))

		_, err := service.Get(context.Background(), "user-1")
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})
}
