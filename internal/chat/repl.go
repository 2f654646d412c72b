// Package chat implements the CLI's chat loop: read a line, send it, print
// the reply and any attached action results, repeat until "exit".
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/khawaidev/koye-ai-cli-start/internal/apiclient"
)

// exitSentinel terminates the loop without a round trip.
const exitSentinel = "exit"

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	replyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Sender delivers one user message within an open session.
type Sender func(ctx context.Context, message string) (*apiclient.ChatReply, error)

// Run drives the REPL over the given reader/writer until the input ends or
// the user types the exit sentinel. One request is in flight at a time.
func Run(ctx context.Context, in io.Reader, out io.Writer, send Sender) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptStyle.Render("you>")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			// Empty input re-prompts without a round trip.
			continue
		}
		if line == exitSentinel {
			return nil
		}

		reply, err := send(ctx, line)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
			continue
		}
		fmt.Fprintln(out, replyStyle.Render("koye>")+" "+reply.Reply)
		for _, action := range reply.Actions {
			fmt.Fprintln(out, actionStyle.Render(fmt.Sprintf("  [%s] %s", action.Type, action.Result)))
		}
	}
}
