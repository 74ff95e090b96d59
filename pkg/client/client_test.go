// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcarvalho/tasko/pkg/client"
)

// fakeServer is a minimal stand-in for the API: cookie-based auth with an
// access token that can be invalidated to force 401s.
type fakeServer struct {
	mu           sync.Mutex
	validToken   string
	refreshCalls atomic.Int32
	listCalls    atomic.Int32

	// refreshGate, when set, blocks the refresh handler until released. It
	// lets tests hold a refresh open while more 401s pile up behind it.
	refreshGate chan struct{}

	// refreshFails makes every refresh answer 401.
	refreshFails bool

	server *httptest.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	fake := &fakeServer{validToken: "token-1"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/session/auth", fake.login)
	mux.HandleFunc("POST /api/session/refresh", fake.refresh)
	mux.HandleFunc("GET /api/categories", fake.listCategories)

	fake.server = httptest.NewServer(mux)
	t.Cleanup(fake.server.Close)
	return fake
}

func (fake *fakeServer) currentToken() string {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.validToken
}

// invalidate rotates the server-side token so outstanding cookies go stale.
func (fake *fakeServer) invalidate() {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.validToken = fake.validToken + "x"
}

func (fake *fakeServer) writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

func (fake *fakeServer) unauthorized(writer http.ResponseWriter) {
	fake.writeJSON(writer, http.StatusUnauthorized, map[string]string{
		"error": "Invalid or expired token",
		"code":  "UNAUTHORIZED",
	})
}

func (fake *fakeServer) setAccessCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:  "access_token",
		Value: fake.currentToken(),
		Path:  "/",
	})
}

func (fake *fakeServer) login(writer http.ResponseWriter, request *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(request.Body).Decode(&body)
	if body["credential"] != "good-credential" {
		fake.unauthorized(writer)
		return
	}

	fake.setAccessCookie(writer)
	fake.writeJSON(writer, http.StatusOK, map[string]any{
		"data": map[string]string{"id": "user-1", "username": "Rui", "profile_picture": ""},
	})
}

func (fake *fakeServer) refresh(writer http.ResponseWriter, request *http.Request) {
	fake.refreshCalls.Add(1)

	if fake.refreshGate != nil {
		<-fake.refreshGate
	}

	if fake.refreshFails {
		fake.unauthorized(writer)
		return
	}

	fake.setAccessCookie(writer)
	fake.writeJSON(writer, http.StatusOK, map[string]any{
		"data": map[string]string{"message": "Token refreshed"},
	})
}

func (fake *fakeServer) listCategories(writer http.ResponseWriter, request *http.Request) {
	fake.listCalls.Add(1)

	cookie, err := request.Cookie("access_token")
	if err != nil || cookie.Value != fake.currentToken() {
		fake.unauthorized(writer)
		return
	}

	fake.writeJSON(writer, http.StatusOK, map[string]any{
		"data": []map[string]any{{"id": "cat-1", "userId": "user-1", "name": "Work", "color": nil}},
	})
}

func newLoggedInClient(t *testing.T, fake *fakeServer) *client.Client {
	t.Helper()

	apiClient, err := client.New(fake.server.URL)
	require.NoError(t, err)

	_, err = apiClient.Login(context.Background(), "good-credential")
	require.NoError(t, err)

	return apiClient
}

/*
TestClient_LoginAndList verifies the cookie jar carries the session across
calls.
*/
func TestClient_LoginAndList(t *testing.T) {
	fake := newFakeServer(t)
	apiClient := newLoggedInClient(t, fake)

	categories, err := apiClient.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Work", categories[0].Name)
	assert.Equal(t, int32(0), fake.refreshCalls.Load(), "no refresh needed with a fresh session")
}

/*
TestClient_RefreshAndReplay verifies the 401 path: one refresh, one replay,
caller never sees the 401.
*/
func TestClient_RefreshAndReplay(t *testing.T) {
	fake := newFakeServer(t)
	apiClient := newLoggedInClient(t, fake)

	fake.invalidate()

	categories, err := apiClient.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, int32(1), fake.refreshCalls.Load())
	assert.Equal(t, int32(2), fake.listCalls.Load(), "original call plus one replay")
}

/*
TestClient_SingleFlightRefresh is the coordinator's core property: N
concurrent 401s produce exactly one refresh, and every caller succeeds.
*/
func TestClient_SingleFlightRefresh(t *testing.T) {
	fake := newFakeServer(t)
	fake.refreshGate = make(chan struct{})
	apiClient := newLoggedInClient(t, fake)

	fake.invalidate()

	const callers = 8
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := apiClient.ListCategories(context.Background())
			errs <- err
		}()
	}

	// Let the 401s pile up behind the blocked refresh, then release it.
	for fake.listCalls.Load() < callers {
		time.Sleep(time.Millisecond)
	}
	close(fake.refreshGate)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), fake.refreshCalls.Load(),
		"concurrent 401s must share one refresh")
}

/*
TestClient_RefreshFailurePropagates verifies that when the shared refresh
fails, every waiting caller gets the refresh error rather than a replay.
*/
func TestClient_RefreshFailurePropagates(t *testing.T) {
	fake := newFakeServer(t)
	fake.refreshFails = true
	apiClient := newLoggedInClient(t, fake)

	fake.invalidate()

	const callers = 4
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := apiClient.ListCategories(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.Error(t, err)
		assert.True(t, client.IsUnauthorized(err), "refresh failure must surface as 401: %v", err)
	}
}

/*
TestClient_LoginFailure verifies that a rejected credential surfaces as a
typed API error without triggering the refresh path.
*/
func TestClient_LoginFailure(t *testing.T) {
	fake := newFakeServer(t)

	apiClient, err := client.New(fake.server.URL)
	require.NoError(t, err)

	_, err = apiClient.Login(context.Background(), "bad-credential")
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, int32(0), fake.refreshCalls.Load())
}
