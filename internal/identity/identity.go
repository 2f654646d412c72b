// Package identity wraps the external identity provider that owns accounts,
// credentials, and email confirmation. The gateway never stores credentials
// itself; everything here is read-through against the provider's API.
package identity

import (
	"context"
	"errors"
	"time"
)

// Plan tiers stored in account prefs. The provider owns the authoritative value.
const (
	PlanFree = "FREE"
	PlanPro  = "PRO"
)

// DefaultCredits is granted to every freshly registered account.
const DefaultCredits = 100

// ErrNotFound indicates no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// ErrInvalidCredentials indicates the provider rejected an email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAlreadyExists indicates a uniqueness conflict on registration.
var ErrAlreadyExists = errors.New("account already exists")

// Prefs is the free-form metadata this system keeps on provider accounts.
type Prefs struct {
	Plan    string `json:"plan"`
	Credits int    `json:"credits"`
}

// Account is the provider-owned user record as consumed here.
type Account struct {
	ID            string
	Email         string
	EmailVerified bool
	Prefs         Prefs
	CreatedAt     time.Time
}

// Provider captures the identity-provider operations the gateway needs.
// Modeled as a capability interface so any provider offering equivalent
// primitives (create-account, sign-in, get-by-id, list-all) can back it.
type Provider interface {
	// CreateUser registers an unconfirmed account with the given credentials.
	CreateUser(ctx context.Context, email, password string) (*Account, error)

	// UpdatePrefs replaces the account's metadata blob.
	UpdatePrefs(ctx context.Context, userID string, prefs Prefs) error

	// SendVerification (re)sends the email-confirmation message.
	SendVerification(ctx context.Context, userID, redirectURL string) error

	// CreateEmailSession performs the provider's credential check and
	// returns the account id on success.
	CreateEmailSession(ctx context.Context, email, password string) (string, error)

	// GetUser fetches an account by id.
	GetUser(ctx context.Context, userID string) (*Account, error)

	// ListUsers returns every account. Unbounded scan; acceptable only at
	// small user-base scale.
	ListUsers(ctx context.Context) ([]Account, error)
}
