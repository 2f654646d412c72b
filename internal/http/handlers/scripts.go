package handlers

import (
	"net/http"

	"github.com/khawaidev/koye-ai-cli-start/internal/http/respond"
	"github.com/khawaidev/koye-ai-cli-start/internal/scripts"
)

// ScriptsHandler serves the pre-rendered install scripts, the CLI script,
// and the scaffold config the CLI consumes during init. Everything here is
// static per process lifetime.
type ScriptsHandler struct {
	bundle  *scripts.Bundle
	version string
	servers ServerURLs
}

// ServerURLs are the public base URLs advertised to clients.
type ServerURLs struct {
	Start string `json:"start"`
	Main  string `json:"main"`
	Web   string `json:"web"`
}

// NewScriptsHandler constructs the handler from a rendered bundle.
func NewScriptsHandler(bundle *scripts.Bundle, version string, servers ServerURLs) *ScriptsHandler {
	return &ScriptsHandler{bundle: bundle, version: version, servers: servers}
}

// Register attaches the script and config routes to the mux.
func (h *ScriptsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /install.sh", h.serveText(h.bundle.InstallSh, "text/plain; charset=utf-8"))
	mux.HandleFunc("GET /install.ps1", h.serveText(h.bundle.InstallPs1, "text/plain; charset=utf-8"))
	mux.HandleFunc("GET /cli/koye.js", h.serveText(h.bundle.CLIScript, "application/javascript; charset=utf-8"))
	mux.HandleFunc("GET /config/init", h.handleConfigInit)
}

func (h *ScriptsHandler) serveText(body []byte, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

type initConfig struct {
	Version  string            `json:"version"`
	Servers  ServerURLs        `json:"servers"`
	Assets   map[string]string `json:"assets"`
	Features map[string]bool   `json:"features"`
}

func (h *ScriptsHandler) handleConfigInit(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, struct {
		Success bool       `json:"success"`
		Config  initConfig `json:"config"`
	}{true, initConfig{
		Version: h.version,
		Servers: h.servers,
		Assets: map[string]string{
			"prompts": "koye/prompts",
			"outputs": "koye/outputs",
			"scripts": "koye/scripts",
		},
		Features: map[string]bool{
			"chat":    true,
			"actions": true,
		},
	}})
}
