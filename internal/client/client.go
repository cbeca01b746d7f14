// Package client talks to the academy HTTP API and keeps the signed-in
// session for terminal front ends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"baseline_academy/internal/domain/model"
)

var (
	// ErrNetwork reports a request that never produced an HTTP response.
	ErrNetwork = errors.New("network error")
	// ErrSessionExpired is returned when the server rejected the stored token.
	ErrSessionExpired = errors.New("session expired")
	// ErrStaleResponse is returned for a response that started under a session
	// which has since been replaced or cleared.
	ErrStaleResponse = errors.New("stale response")
	ErrNotLoggedIn   = errors.New("not logged in")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Message returns the text to show a user for err.
func Message(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionExpired):
		return "Session expired. Please login again."
	case errors.Is(err, ErrNetwork):
		return "Network error. Please check your connection."
	case errors.As(err, &apiErr):
		return apiErr.Message
	}
	return err.Error()
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type AuthResult struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &out, "Login failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &out, "Registration failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the current server-side view of the token's user.
func (c *Client) Me(ctx context.Context, token string) (*model.PublicUser, error) {
	var out struct {
		User model.PublicUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out, "Request failed"); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", "", nil, &out, "Request failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Do sends an authenticated JSON request. in and out may be nil.
func (c *Client) Do(ctx context.Context, method, path, token string, in, out interface{}) error {
	return c.do(ctx, method, path, token, in, out, "Request failed")
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}, fallback string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
