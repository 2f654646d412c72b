package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port string

	// Identity provider (Appwrite-compatible admin + session API).
	IdentityEndpoint string
	IdentityProject  string
	IdentityKey      string

	JWTSecret string

	// Public base URLs baked into the served scripts and the CLI config.
	StartServerURL string
	MainServerURL  string
	WebURL         string

	CLIVersion  string
	CORSOrigins []string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:             fallback(os.Getenv("PORT"), "3001"),
		IdentityEndpoint: strings.TrimSpace(os.Getenv("APPWRITE_ENDPOINT")),
		IdentityProject:  strings.TrimSpace(os.Getenv("APPWRITE_PROJECT_ID")),
		IdentityKey:      strings.TrimSpace(os.Getenv("APPWRITE_API_KEY")),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		StartServerURL:   fallback(os.Getenv("START_SERVER_URL"), "http://localhost:3001"),
		MainServerURL:    fallback(os.Getenv("MAIN_SERVER_URL"), "http://localhost:3000"),
		WebURL:           fallback(os.Getenv("WEB_URL"), "http://localhost:5173"),
		CLIVersion:       fallback(os.Getenv("CLI_VERSION"), "1.0.0"),
		CORSOrigins:      parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	if cfg.IdentityEndpoint == "" {
		return Config{}, errors.New("APPWRITE_ENDPOINT is required")
	}
	if cfg.IdentityProject == "" {
		return Config{}, errors.New("APPWRITE_PROJECT_ID is required")
	}
	if cfg.IdentityKey == "" {
		return Config{}, errors.New("APPWRITE_API_KEY is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
