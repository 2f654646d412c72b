package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Ensure Client satisfies the Provider interface at compile time.
var _ Provider = (*Client)(nil)

// Client talks to an Appwrite-compatible identity provider using its server
// (admin) API key plus the public session endpoint for credential checks.
type Client struct {
	endpoint string
	project  string
	key      string
	http     *http.Client
}

// NewClient builds a provider client. httpClient may be nil, in which case
// http.DefaultClient is used (no timeout policy; failures surface to callers).
func NewClient(endpoint, project, key string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		project:  project,
		key:      key,
		http:     httpClient,
	}
}

// providerError is the provider's JSON error body.
type providerError struct {
	Message string `json:"message"`
}

// userPayload mirrors the provider's user document.
type userPayload struct {
	ID                string          `json:"$id"`
	Email             string          `json:"email"`
	EmailVerification bool            `json:"emailVerification"`
	Prefs             json.RawMessage `json:"prefs"`
	CreatedAt         time.Time       `json:"$createdAt"`
}

func (u userPayload) toAccount() Account {
	acc := Account{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerification,
		CreatedAt:     u.CreatedAt,
	}
	// Prefs default to an empty object for brand-new accounts.
	if len(u.Prefs) > 0 {
		_ = json.Unmarshal(u.Prefs, &acc.Prefs)
	}
	if acc.Prefs.Plan == "" {
		acc.Prefs.Plan = PlanFree
	}
	return acc
}

// CreateUser registers an unconfirmed account via the admin API.
func (c *Client) CreateUser(ctx context.Context, email, password string) (*Account, error) {
	body := map[string]string{
		"userId":   "unique()",
		"email":    email,
		"password": password,
	}
	var out userPayload
	if err := c.do(ctx, http.MethodPost, "/v1/users", body, &out); err != nil {
		return nil, err
	}
	acc := out.toAccount()
	return &acc, nil
}

// UpdatePrefs replaces the account's metadata blob via the admin API.
func (c *Client) UpdatePrefs(ctx context.Context, userID string, prefs Prefs) error {
	body := map[string]any{"prefs": prefs}
	return c.do(ctx, http.MethodPatch, "/v1/users/"+userID+"/prefs", body, nil)
}

// SendVerification triggers the confirmation email for an account.
func (c *Client) SendVerification(ctx context.Context, userID, redirectURL string) error {
	body := map[string]string{"url": redirectURL}
	return c.do(ctx, http.MethodPost, "/v1/users/"+userID+"/verification", body, nil)
}

// CreateEmailSession delegates the credential check to the provider's
// session endpoint and returns the account id.
func (c *Client) CreateEmailSession(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		UserID string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/account/sessions/email", body, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

// GetUser fetches an account by id.
func (c *Client) GetUser(ctx context.Context, userID string) (*Account, error) {
	var out userPayload
	if err := c.do(ctx, http.MethodGet, "/v1/users/"+userID, nil, &out); err != nil {
		return nil, err
	}
	acc := out.toAccount()
	return &acc, nil
}

// ListUsers returns every account the provider knows about.
func (c *Client) ListUsers(ctx context.Context) ([]Account, error) {
	var out struct {
		Users []userPayload `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/users", nil, &out); err != nil {
		return nil, err
	}
	accounts := make([]Account, 0, len(out.Users))
	for _, u := range out.Users {
		accounts = append(accounts, u.toAccount())
	}
	return accounts, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.project)
	req.Header.Set("X-Appwrite-Key", c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

func (c *Client) mapError(resp *http.Response) error {
	var pe providerError
	_ = json.NewDecoder(resp.Body).Decode(&pe)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrAlreadyExists
	}
	if pe.Message != "" {
		return fmt.Errorf("identity provider: %s (status %d)", pe.Message, resp.StatusCode)
	}
	return fmt.Errorf("identity provider: unexpected status %d", resp.StatusCode)
}
