// Package cmd implements the koye CLI: project scaffolding, account
// registration/login against the start server, and the chat loop against
// the main server.
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/khawaidev/koye-ai-cli-start/internal/project"
)

const (
	defaultStartServer = "http://localhost:3001"
	defaultMainServer  = "http://localhost:3000"
	defaultWebServer   = "http://localhost:5173"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

var rootCmd = &cobra.Command{
	Use:   "koye",
	Short: "Koye AI project CLI",
	Long: `koye scaffolds AI projects and chats with the Koye assistant.

Typical first run:

  koye init       # scaffold koye.config.json in the current directory
  koye register   # create an account (email confirmation required)
  koye login      # sign in and cache a token locally
  koye chat       # open a chat session

Auth is cached in ~/.koye/auth.json; per-project settings live in
koye.config.json next to your code.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// resolveServers prefers the project config, then environment overrides,
// then compiled-in defaults.
func resolveServers() project.Servers {
	if project.Exists(".") {
		if cfg, err := project.Load("."); err == nil && cfg.Servers.Start != "" {
			return cfg.Servers
		}
	}
	servers := project.Servers{
		Start: defaultStartServer,
		Main:  defaultMainServer,
		Web:   defaultWebServer,
	}
	if v := os.Getenv("KOYE_START_SERVER"); v != "" {
		servers.Start = v
	}
	if v := os.Getenv("KOYE_MAIN_SERVER"); v != "" {
		servers.Main = v
	}
	if v := os.Getenv("KOYE_WEB_SERVER"); v != "" {
		servers.Web = v
	}
	return servers
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when attached to a terminal.
func promptPassword(label string) (string, error) {
	fmt.Print(label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return promptLine("")
}

func promptConfirm(label string, defaultYes bool) (bool, error) {
	suffix := " [y/N] "
	if defaultYes {
		suffix = " [Y/n] "
	}
	answer, err := promptLine(label + suffix)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	if answer == "" {
		return defaultYes, nil
	}
	return answer == "y" || answer == "yes", nil
}
