package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/khawaidev/koye-ai-cli-start/internal/auth"
	"github.com/khawaidev/koye-ai-cli-start/internal/identity"
	"github.com/khawaidev/koye-ai-cli-start/internal/middleware"
)

const testSecret = "test-secret"

// fakeProvider is an in-memory identity.Provider for handler tests.
type fakeProvider struct {
	accounts  map[string]*identity.Account // by id
	passwords map[string]string            // email -> password
	nextID    int

	verificationSent []string
	verificationErr  error
	getCalls         int
	listCalls        int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		accounts:  make(map[string]*identity.Account),
		passwords: make(map[string]string),
	}
}

// seed adds a pre-existing account and returns its id.
func (f *fakeProvider) seed(email, password, plan string, credits int, verified bool) string {
	f.nextID++
	id := fmt.Sprintf("user-%d", f.nextID)
	f.accounts[id] = &identity.Account{
		ID:            id,
		Email:         email,
		EmailVerified: verified,
		Prefs:         identity.Prefs{Plan: plan, Credits: credits},
		CreatedAt:     time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	f.passwords[email] = password
	return id
}

func (f *fakeProvider) CreateUser(ctx context.Context, email, password string) (*identity.Account, error) {
	for _, acc := range f.accounts {
		if strings.EqualFold(acc.Email, email) {
			return nil, identity.ErrAlreadyExists
		}
	}
	id := f.seed(email, password, "", 0, false)
	acc := *f.accounts[id]
	return &acc, nil
}

func (f *fakeProvider) UpdatePrefs(ctx context.Context, userID string, prefs identity.Prefs) error {
	acc, ok := f.accounts[userID]
	if !ok {
		return identity.ErrNotFound
	}
	acc.Prefs = prefs
	return nil
}

func (f *fakeProvider) SendVerification(ctx context.Context, userID, redirectURL string) error {
	if f.verificationErr != nil {
		return f.verificationErr
	}
	f.verificationSent = append(f.verificationSent, userID)
	return nil
}

func (f *fakeProvider) CreateEmailSession(ctx context.Context, email, password string) (string, error) {
	stored, ok := f.passwords[email]
	if !ok || stored != password {
		return "", identity.ErrInvalidCredentials
	}
	for id, acc := range f.accounts {
		if acc.Email == email {
			return id, nil
		}
	}
	return "", identity.ErrInvalidCredentials
}

func (f *fakeProvider) GetUser(ctx context.Context, userID string) (*identity.Account, error) {
	f.getCalls++
	acc, ok := f.accounts[userID]
	if !ok {
		return nil, identity.ErrNotFound
	}
	copied := *acc
	return &copied, nil
}

func (f *fakeProvider) ListUsers(ctx context.Context) ([]identity.Account, error) {
	f.listCalls++
	var out []identity.Account
	for _, acc := range f.accounts {
		out = append(out, *acc)
	}
	return out, nil
}

// newTestMux wires the handlers the way internal/server does.
func newTestMux(provider identity.Provider) (*http.ServeMux, *auth.TokenManager) {
	tokens := auth.NewTokenManager(testSecret)
	mux := http.NewServeMux()
	NewAuthHandler(provider, tokens, "http://localhost:5173", nil).Register(mux)

	profile := NewProfileHandler(provider, nil)
	requireAuth := middleware.RequireAuth(tokens)
	mux.Handle("GET /user/profile", requireAuth(http.HandlerFunc(profile.Profile)))
	mux.Handle("GET /auth/validate", requireAuth(http.HandlerFunc(profile.Validate)))
	return mux, tokens
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "secret1"}},
		{"missing password", map[string]string{"email": "a@x.com"}},
		{"short password", map[string]string{"email": "a@x.com", "password": "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux, _ := newTestMux(newFakeProvider())
			rec := postJSON(t, mux, "/auth/register", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestRegisterCreatesUnconfirmedAccount(t *testing.T) {
	provider := newFakeProvider()
	mux, _ := newTestMux(provider)

	rec := postJSON(t, mux, "/auth/register", map[string]string{"email": "a@x.com", "password": "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("success != true")
	}
	userID, _ := body["user_id"].(string)
	if userID == "" {
		t.Fatal("missing user_id")
	}
	if _, hasToken := body["token"]; hasToken {
		t.Error("registration must never return a token")
	}

	acc := provider.accounts[userID]
	if acc == nil {
		t.Fatal("account not created")
	}
	if acc.EmailVerified {
		t.Error("new account must be unconfirmed")
	}
	if acc.Prefs.Plan != identity.PlanFree || acc.Prefs.Credits != identity.DefaultCredits {
		t.Errorf("default prefs = %+v", acc.Prefs)
	}
	if len(provider.verificationSent) != 1 || provider.verificationSent[0] != userID {
		t.Errorf("verification sent to %v", provider.verificationSent)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("a@x.com", "other", identity.PlanFree, 100, true)
	mux, _ := newTestMux(provider)

	rec := postJSON(t, mux, "/auth/register", map[string]string{"email": "a@x.com", "password": "secret1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterSucceedsWhenResendFails(t *testing.T) {
	provider := newFakeProvider()
	provider.verificationErr = fmt.Errorf("smtp down")
	mux, _ := newTestMux(provider)

	rec := postJSON(t, mux, "/auth/register", map[string]string{"email": "a@x.com", "password": "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: resend failure must not fail registration", rec.Code)
	}
	if len(provider.accounts) != 1 {
		t.Error("account should still exist")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("a@x.com", "secret1", identity.PlanFree, 100, true)
	mux, _ := newTestMux(provider)

	rec := postJSON(t, mux, "/auth/login", map[string]string{"email": "a@x.com", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginUnconfirmedBlockedRegardlessOfPassword(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("a@x.com", "secret1", identity.PlanFree, 100, false)
	mux, _ := newTestMux(provider)

	rec := postJSON(t, mux, "/auth/login", map[string]string{"email": "a@x.com", "password": "secret1"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["needs_verification"] != true {
		t.Error("missing needs_verification flag")
	}
	if _, hasToken := body["token"]; hasToken {
		t.Error("unconfirmed login must not return a token")
	}
}

func TestLoginConfirmedAccount(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("a@x.com", "secret1", identity.PlanFree, 100, true)
	mux, tokens := newTestMux(provider)

	rec := postJSON(t, mux, "/auth/login", map[string]string{"email": "a@x.com", "password": "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			ID      string `json:"id"`
			Email   string `json:"email"`
			Plan    string `json:"plan"`
			Credits int    `json:"credits"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.User.Plan != "FREE" || out.User.Credits != 100 {
		t.Errorf("response = %+v", out)
	}

	claims, err := tokens.Verify(out.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Email != "a@x.com" || claims.Plan != "FREE" || claims.UserID() != out.User.ID {
		t.Errorf("claims = %s/%s/%s", claims.UserID(), claims.Email, claims.Plan)
	}
}

func TestStatusLookup(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("Confirmed@X.com", "secret1", identity.PlanFree, 100, true)
	provider.seed("pending@x.com", "secret1", identity.PlanFree, 100, false)
	mux, _ := newTestMux(provider)

	cases := []struct {
		name      string
		query     string
		status    int
		confirmed bool
	}{
		{"confirmed, case-insensitive", "confirmed@x.com", http.StatusOK, true},
		{"pending", "pending@x.com", http.StatusOK, false},
		{"unknown", "nobody@x.com", http.StatusNotFound, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/status?email="+tc.query, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.status == http.StatusOK {
				body := decodeBody(t, rec)
				if body["email_confirmed"] != tc.confirmed {
					t.Errorf("email_confirmed = %v, want %v", body["email_confirmed"], tc.confirmed)
				}
			}
		})
	}
}

func TestStatusRequiresEmailParam(t *testing.T) {
	mux, _ := newTestMux(newFakeProvider())
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
