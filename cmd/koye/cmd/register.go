package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khawaidev/koye-ai-cli-start/internal/apiclient"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a Koye account",
	Long: `Create an account, wait for you to confirm the email, then log in.

Registration never returns a token: the confirmation link has to be
clicked first. The command blocks on a prompt while you do that, checks
the confirmation status once, and attempts a login if it went through.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	email, err := promptLine("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password (6+ characters): ")
	if err != nil {
		return err
	}

	servers := resolveServers()
	client := apiclient.New(servers.Start, nil)

	userID, err := client.Register(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render("Account created (" + userID + ")."))
	fmt.Printf("We sent a confirmation link to %s.\n", email)

	if _, err := promptLine("Press Enter once you have clicked the link..."); err != nil {
		return err
	}

	confirmed, err := client.Status(cmd.Context(), email)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println(warnStyle.Render("Email still unconfirmed. Run 'koye login' after clicking the link."))
		return nil
	}

	return doLogin(cmd.Context(), email, password)
}
