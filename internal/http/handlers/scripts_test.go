package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khawaidev/koye-ai-cli-start/internal/scripts"
)

func newScriptsMux(t *testing.T) *http.ServeMux {
	t.Helper()
	bundle, err := scripts.Render(scripts.Params{
		StartServerURL: "https://start.koye.ai",
		MainServerURL:  "https://api.koye.ai",
		WebURL:         "https://koye.ai",
		CLIVersion:     "1.2.3",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mux := http.NewServeMux()
	NewScriptsHandler(bundle, "1.2.3", ServerURLs{
		Start: "https://start.koye.ai",
		Main:  "https://api.koye.ai",
		Web:   "https://koye.ai",
	}).Register(mux)
	return mux
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestInstallShContainsDownloadURL(t *testing.T) {
	rec := get(newScriptsMux(t), "/install.sh")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "https://start.koye.ai/cli/koye.js") {
		t.Error("install.sh missing the CLI download URL")
	}
	if !strings.Contains(body, "# koye-cli PATH") {
		t.Error("install.sh missing the idempotency marker")
	}
}

func TestInstallPs1Rendered(t *testing.T) {
	rec := get(newScriptsMux(t), "/install.ps1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "https://start.koye.ai/cli/koye.js") {
		t.Error("install.ps1 missing the CLI download URL")
	}
}

func TestCLIScriptHasServersBakedIn(t *testing.T) {
	rec := get(newScriptsMux(t), "/cli/koye.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	for _, url := range []string{"https://start.koye.ai", "https://api.koye.ai", "https://koye.ai"} {
		if !strings.Contains(body, url) {
			t.Errorf("koye.js missing %s", url)
		}
	}
	if strings.Contains(body, "{{") {
		t.Error("koye.js contains unrendered template markers")
	}
}

func TestConfigInit(t *testing.T) {
	rec := get(newScriptsMux(t), "/config/init")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Success bool `json:"success"`
		Config  struct {
			Version string `json:"version"`
			Servers struct {
				Start string `json:"start"`
				Main  string `json:"main"`
				Web   string `json:"web"`
			} `json:"servers"`
			Assets   map[string]string `json:"assets"`
			Features map[string]bool   `json:"features"`
		} `json:"config"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.Config.Version != "1.2.3" {
		t.Errorf("config = %+v", out.Config)
	}
	if out.Config.Servers.Start != "https://start.koye.ai" || out.Config.Servers.Main != "https://api.koye.ai" {
		t.Errorf("servers = %+v", out.Config.Servers)
	}
	if len(out.Config.Assets) == 0 || !out.Config.Features["chat"] {
		t.Errorf("assets/features = %v / %v", out.Config.Assets, out.Config.Features)
	}
}
