// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package user

import (
	"context"
)

// Repository defines the data access contract for user accounts.
//
// # Implementations
//
// The canonical implementation is PostgreSQL ([PostgresRepository]); tests
// use in-memory fakes.
type Repository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no account is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new account.
	//
	// Returns [apperr.Conflict] if the email is already taken; login racing
	// a concurrent first login must treat that as "lost the race, re-read".
	Create(ctx context.Context, user *User) error

	// Delete removes the account row. Owned categories and events go with it
	// via ON DELETE CASCADE.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	Delete(ctx context.Context, id string) error
}
