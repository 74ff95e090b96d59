// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

/*
Package client is a Go client for the Tasko API.

Cookies carry the session: the client keeps an in-memory cookie jar, so
login, refresh, and authenticated calls work without the caller ever
touching a token.

# Refresh Coordination

When a request comes back 401 the client refreshes the access token and
replays the request once. Concurrent requests that hit 401 while a refresh
is already in flight do not pile up extra refresh calls: a singleflight
group collapses them onto the one pending refresh, and every waiter shares
its outcome. A failed refresh propagates the refresh error to all waiters.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// refreshKey is the singleflight key: one logical refresh per client.
const refreshKey = "session-refresh"

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tasko: %s (%d %s)", e.Message, e.StatusCode, e.Code)
}

// IsUnauthorized reports whether err is an [APIError] with status 401.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// Client talks to one Tasko API server on behalf of one account.
//
// Client is safe for concurrent use. It is not safe to share a Client
// between accounts: the cookie jar holds a single session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	refresh    singleflight.Group
}

// Option customizes a [Client].
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client. The cookie jar is
// installed on it if it has none.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New creates a Client for the API at baseURL (scheme and host, no
// trailing slash required).
func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("client: cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}

	return c, nil
}

// do executes one API call: marshal body, send, refresh-and-replay on the
// first 401, decode the success envelope into out.
//
// The replay happens at most once per call, mirroring the retry marker the
// web frontend keeps on its requests.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}

	response, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	// A 401 from login means a bad credential, and one from refresh means
	// the session is gone; neither can be cured by refreshing.
	if response.StatusCode == http.StatusUnauthorized && path != pathRefresh && path != pathLogin {
		response.Body.Close()

		if err := c.coordinateRefresh(ctx); err != nil {
			return err
		}

		response, err = c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}
	}

	return decodeResponse(response, out)
}

// coordinateRefresh funnels every caller through one in-flight refresh.
func (c *Client) coordinateRefresh(ctx context.Context) error {
	_, err, _ := c.refresh.Do(refreshKey, func() (any, error) {
		response, err := c.send(ctx, http.MethodPost, pathRefresh, nil)
		if err != nil {
			return nil, err
		}
		return nil, decodeResponse(response, nil)
	})
	return err
}

// send builds and executes a single HTTP request. payload may be nil.
func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}

	return response, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("client: encode body: %w", err)
	}
	return payload, nil
}

// successEnvelope mirrors the server's {"data": ...} wrapper.
type successEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// errorEnvelope mirrors the server's {"error", "code"} wrapper.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// decodeResponse consumes the body, returning an [APIError] for non-2xx
// statuses and unwrapping the data envelope into out otherwise.
func decodeResponse(response *http.Response, out any) error {
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := &APIError{StatusCode: response.StatusCode}

		var envelope errorEnvelope
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
			apiErr.Code = envelope.Code
		} else {
			apiErr.Message = http.StatusText(response.StatusCode)
		}

		return apiErr
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope successEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("client: decode envelope: %w", err)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("client: decode data: %w", err)
	}

	return nil
}
