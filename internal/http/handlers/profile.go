package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/khawaidev/koye-ai-cli-start/internal/http/respond"
	"github.com/khawaidev/koye-ai-cli-start/internal/identity"
	"github.com/khawaidev/koye-ai-cli-start/internal/middleware"
)

// ProfileHandler serves the token-protected user endpoints. Profile is the
// only path that reconciles stale token claims against the live account.
type ProfileHandler struct {
	provider identity.Provider
	log      *slog.Logger
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(provider identity.Provider, log *slog.Logger) *ProfileHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProfileHandler{provider: provider, log: log}
}

type profileUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
	Credits   int    `json:"credits"`
	CreatedAt string `json:"created_at"`
}

// Profile re-fetches the account behind the verified claims.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	acc, err := h.provider.GetUser(r.Context(), claims.UserID())
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "account no longer exists")
			return
		}
		h.log.Error("fetch profile failed", "user_id", claims.UserID(), "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	respond.JSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		User    profileUser `json:"user"`
	}{true, profileUser{
		ID:        acc.ID,
		Email:     acc.Email,
		Plan:      acc.Prefs.Plan,
		Credits:   acc.Prefs.Credits,
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
	}})
}

// Validate echoes the decoded claims; the CLI uses it to self-check a
// stored token before opening a chat session. No provider call is made.
func (h *ProfileHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	respond.JSON(w, http.StatusOK, struct {
		Success bool         `json:"success"`
		Valid   bool         `json:"valid"`
		User    userResponse `json:"user"`
	}{true, true, userResponse{
		ID:    claims.UserID(),
		Email: claims.Email,
		Plan:  claims.Plan,
	}})
}
