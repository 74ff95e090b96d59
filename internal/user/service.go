// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package user

import (
	"context"
	"fmt"

	"github.com/rmcarvalho/tasko/internal/platform/apperr"
)

// Service implements account use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Get returns the public profile of the calling account.
func (service *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	account, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := account.Profile()
	return &profile, nil
}

// Delete removes the calling account and everything it owns.
//
// # Ownership
//
// An account may only delete itself. Any other target — foreign or absent —
// yields [apperr.NotFound], so the endpoint does not reveal which accounts exist.
func (service *Service) Delete(ctx context.Context, callerID, targetID string) error {
	if callerID != targetID {
		return apperr.NotFound("User")
	}

	if err := service.repository.Delete(ctx, targetID); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("user_service_delete_failed: %w", err)
	}

	return nil
}
