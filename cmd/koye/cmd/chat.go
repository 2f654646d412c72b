package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khawaidev/koye-ai-cli-start/internal/apiclient"
	"github.com/khawaidev/koye-ai-cli-start/internal/chat"
	"github.com/khawaidev/koye-ai-cli-start/internal/clientstate"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the Koye assistant",
	Long: `Open one chat session and loop: read a line, send it, print the reply
and any attached action results. Type 'exit' to quit; empty lines
re-prompt without a round trip.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	rec, err := clientstate.Load()
	if err != nil {
		if errors.Is(err, clientstate.ErrNotLoggedIn) {
			return errors.New("not logged in, run 'koye login' first")
		}
		return err
	}

	servers := resolveServers()
	startClient := apiclient.New(servers.Start, nil)
	mainClient := apiclient.New(servers.Main, nil)

	// Self-check the cached token before opening a session.
	if _, err := startClient.Validate(cmd.Context(), rec.Token); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return errors.New("token expired, run 'koye login' again")
		}
		return err
	}

	sessionID, err := mainClient.CreateChatSession(cmd.Context(), rec.Token)
	if err != nil {
		return fmt.Errorf("open chat session: %w", err)
	}

	fmt.Println(headerStyle.Render("Koye chat") + " — type 'exit' to quit")

	send := func(ctx context.Context, message string) (*apiclient.ChatReply, error) {
		return mainClient.SendChatMessage(ctx, rec.Token, sessionID, message)
	}
	return chat.Run(cmd.Context(), os.Stdin, os.Stdout, send)
}
