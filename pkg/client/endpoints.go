// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package client

import (
	"context"
	"net/http"
	"time"
)

// API paths. Kept as constants so the refresh coordinator can recognize its
// own endpoint.
const (
	pathLogin      = "/api/session/auth"
	pathRefresh    = "/api/session/refresh"
	pathLogout     = "/api/session/logout"
	pathUserData   = "/api/users/data"
	pathUsers      = "/api/users"
	pathCategories = "/api/categories"
	pathEvents     = "/api/todoevents"
)

// Session is the profile returned by a successful login.
type Session struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// Profile is the caller's own account data.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Category mirrors the server's category resource.
type Category struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Color  *string `json:"color"`
}

// Event mirrors the server's to-do event resource.
type Event struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	IsDone      bool       `json:"isDone"`
	CreatedAt   time.Time  `json:"createdAt"`
	Deadline    *time.Time `json:"deadline"`
	CategoryID  *string    `json:"categoryId"`
	Category    *Category  `json:"category,omitempty"`
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// EventInput carries the writable event fields.
type EventInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	IsDone      bool       `json:"isDone"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CategoryID  *string    `json:"categoryId,omitempty"`
}

// # Session

// Login exchanges a Google ID token for a cookie-backed session.
func (c *Client) Login(ctx context.Context, credential string) (*Session, error) {
	session := &Session{}
	body := map[string]string{"credential": credential}
	if err := c.do(ctx, http.MethodPost, pathLogin, body, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout clears the session cookies. It succeeds even without a session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, pathLogout, nil, nil)
}

// # Users

// UserData fetches the caller's own profile.
func (c *Client) UserData(ctx context.Context) (*Profile, error) {
	profile := &Profile{}
	if err := c.do(ctx, http.MethodGet, pathUserData, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteUser removes the caller's account and everything it owns.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathUsers+"/"+id, nil, nil)
}

// # Categories

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	if err := c.do(ctx, http.MethodGet, pathCategories, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (*Category, error) {
	category := &Category{}
	if err := c.do(ctx, http.MethodGet, pathCategories+"/"+id, nil, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (c *Client) CreateCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	category := &Category{}
	if err := c.do(ctx, http.MethodPost, pathCategories, input, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, input CategoryInput) error {
	return c.do(ctx, http.MethodPut, pathCategories+"/"+id, input, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathCategories+"/"+id, nil, nil)
}

// # To-do events

func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	events := []Event{}
	if err := c.do(ctx, http.MethodGet, pathEvents, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	event := &Event{}
	if err := c.do(ctx, http.MethodGet, pathEvents+"/"+id, nil, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*Event, error) {
	event := &Event{}
	if err := c.do(ctx, http.MethodPost, pathEvents, input, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, input EventInput) error {
	return c.do(ctx, http.MethodPut, pathEvents+"/"+id, input, nil)
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathEvents+"/"+id, nil, nil)
}
