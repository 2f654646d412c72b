// Package apiclient is the CLI's typed HTTP client for the start server
// (accounts, tokens, scaffold config) and the main server (chat).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrNeedsVerification is returned by Login when credentials are valid but
// the account's email has not been confirmed yet.
var ErrNeedsVerification = errors.New("email not verified")

// ErrUnauthorized covers rejected credentials and rejected tokens.
var ErrUnauthorized = errors.New("unauthorized")

// User is the normalized account projection the start server returns.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
	Credits   int    `json:"credits"`
	CreatedAt string `json:"created_at,omitempty"`
}

// InitConfig is the scaffold the start server hands out for `koye init`.
type InitConfig struct {
	Version string `json:"version"`
	Servers struct {
		Start string `json:"start"`
		Main  string `json:"main"`
		Web   string `json:"web"`
	} `json:"servers"`
	Assets   map[string]string `json:"assets"`
	Features map[string]bool   `json:"features"`
}

// Client calls one server's JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the given base URL. httpClient may be nil.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), http: httpClient}
}

// apiError is the server's error envelope.
type apiError struct {
	Error             string `json:"error"`
	NeedsVerification bool   `json:"needs_verification"`
}

// Register creates an unconfirmed account and returns its id.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	var out struct {
		UserID string `json:"user_id"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", body, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

// LoginResult is the token plus user snapshot persisted locally after login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status reports whether the account with this email has confirmed it.
func (c *Client) Status(ctx context.Context, email string) (bool, error) {
	var out struct {
		EmailConfirmed bool `json:"email_confirmed"`
	}
	path := "/auth/status?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return false, err
	}
	return out.EmailConfirmed, nil
}

// Profile fetches the live account record behind the token.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Validate checks that the stored token still decodes server-side.
func (c *Client) Validate(ctx context.Context, token string) (*User, error) {
	var out struct {
		Valid bool `json:"valid"`
		User  User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/validate", token, nil, &out); err != nil {
		return nil, err
	}
	if !out.Valid {
		return nil, ErrUnauthorized
	}
	return &out.User, nil
}

// FetchInitConfig downloads the scaffold config used by `koye init`.
func (c *Client) FetchInitConfig(ctx context.Context) (*InitConfig, error) {
	var out struct {
		Config InitConfig `json:"config"`
	}
	if err := c.do(ctx, http.MethodGet, "/config/init", "", nil, &out); err != nil {
		return nil, err
	}
	return &out.Config, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.NeedsVerification {
			return ErrNeedsVerification
		}
		if resp.StatusCode == http.StatusUnauthorized {
			if apiErr.Error != "" {
				return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error)
			}
			return ErrUnauthorized
		}
		if apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("request %s failed with status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
