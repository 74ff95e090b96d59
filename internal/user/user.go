// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

// Package user defines the account entity and its use cases.
//
// # Architecture
//
// Accounts are created exclusively by the session login flow (first successful
// Google verification) and never carry credentials of their own: there is no
// password column anywhere in Tasko. The entity tolerates provider profile
// updates (username changes on Google's side) even though no flow rewrites
// them yet.
package user

import (
	"time"
)

// User represents a registered Tasko account.
//
// # Rules
//   - Email is unique and is the sole de-duplication key across logins:
//     re-login with a known email must resolve to the same ID, never create
//     a second row.
//   - Provider/ProviderID record where the identity came from; both are
//     optional and never exposed over the API.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Provider   *string   `json:"-"`
	ProviderID *string   `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Profile is the public projection of an account returned by the API.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Profile returns the public projection of the account.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username}
}
