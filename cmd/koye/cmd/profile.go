package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khawaidev/koye-ai-cli-start/internal/apiclient"
	"github.com/khawaidev/koye-ai-cli-start/internal/clientstate"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the live account behind your cached token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := clientstate.Load()
		if err != nil {
			if errors.Is(err, clientstate.ErrNotLoggedIn) {
				return errors.New("not logged in, run 'koye login' first")
			}
			return err
		}

		servers := resolveServers()
		client := apiclient.New(servers.Start, nil)
		user, err := client.Profile(cmd.Context(), rec.Token)
		if err != nil {
			if errors.Is(err, apiclient.ErrUnauthorized) {
				return errors.New("token expired or revoked, run 'koye login' again")
			}
			return err
		}

		fmt.Println(headerStyle.Render("Koye account"))
		fmt.Printf("  id:       %s\n", user.ID)
		fmt.Printf("  email:    %s\n", user.Email)
		fmt.Printf("  plan:     %s\n", user.Plan)
		fmt.Printf("  credits:  %d\n", user.Credits)
		fmt.Printf("  created:  %s\n", user.CreatedAt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
