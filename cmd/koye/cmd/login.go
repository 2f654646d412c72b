package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khawaidev/koye-ai-cli-start/internal/apiclient"
	"github.com/khawaidev/koye-ai-cli-start/internal/clientstate"
	"github.com/khawaidev/koye-ai-cli-start/internal/project"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and cache a token locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := promptLine("Email: ")
		if err != nil {
			return err
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		return doLogin(cmd.Context(), email, password)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// doLogin performs the login round trip and persists the result. Shared
// with the register flow.
func doLogin(ctx context.Context, email, password string) error {
	servers := resolveServers()
	client := apiclient.New(servers.Start, nil)

	result, err := client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, apiclient.ErrNeedsVerification) {
			fmt.Println(warnStyle.Render("Your email is not confirmed yet. Check your inbox, then log in again."))
			return nil
		}
		return err
	}

	if err := clientstate.Save(&clientstate.Record{Token: result.Token, User: result.User}); err != nil {
		return err
	}

	// Re-point the project at the active user when run inside a project.
	if project.Exists(".") {
		if cfg, err := project.Load("."); err == nil {
			cfg.UserID = result.User.ID
			cfg.Plan = result.User.Plan
			if err := cfg.Save("."); err != nil {
				return err
			}
		}
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("Logged in as %s (%s plan, %d credits)",
		result.User.Email, result.User.Plan, result.User.Credits)))
	return nil
}
