// Package scripts renders the downloadable install scripts and the CLI
// script. Output is a pure function of the configured server URLs, so
// everything is rendered once at startup and served as static bytes.
package scripts

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Params are the values interpolated into the served artifacts.
type Params struct {
	StartServerURL string
	MainServerURL  string
	WebURL         string
	CLIVersion     string
}

// Bundle holds the rendered artifacts.
type Bundle struct {
	InstallSh  []byte
	InstallPs1 []byte
	CLIScript  []byte
}

// Render evaluates all three templates against the given params.
func Render(p Params) (*Bundle, error) {
	installSh, err := render("install.sh.tmpl", p)
	if err != nil {
		return nil, err
	}
	installPs1, err := render("install.ps1.tmpl", p)
	if err != nil {
		return nil, err
	}
	cliScript, err := render("koye.js.tmpl", p)
	if err != nil {
		return nil, err
	}
	return &Bundle{InstallSh: installSh, InstallPs1: installPs1, CLIScript: cliScript}, nil
}

func render(name string, p Params) ([]byte, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
