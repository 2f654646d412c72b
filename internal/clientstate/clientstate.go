// Package clientstate persists the CLI's local auth record: the last-issued
// token plus a user snapshot, cached under the home directory.
//
// Writes are plain truncate-and-write with last-write-wins semantics.
// Concurrent CLI invocations are not supported and can tear a write.
package clientstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khawaidev/koye-ai-cli-start/internal/apiclient"
)

// ErrNotLoggedIn indicates no auth record exists on this machine.
var ErrNotLoggedIn = errors.New("not logged in")

// Record is the on-disk auth record.
type Record struct {
	Token string         `json:"token"`
	User  apiclient.User `json:"user"`
}

// Path returns the auth record location, honoring KOYE_HOME for tests and
// non-standard setups.
func Path() string {
	if koyeHome := os.Getenv("KOYE_HOME"); koyeHome != "" {
		return filepath.Join(koyeHome, "auth.json")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".koye", "auth.json")
	}
	return filepath.Join(homeDir, ".koye", "auth.json")
}

// Load reads the auth record from disk.
func Load() (*Record, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("read auth record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse auth record: %w", err)
	}
	if rec.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return &rec, nil
}

// Save overwrites the auth record.
func Save(rec *Record) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode auth record: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write auth record: %w", err)
	}
	return nil
}
