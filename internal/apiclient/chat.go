package apiclient

import (
	"context"
	"net/http"
)

// ActionResult is a side-effect the main server performed while answering.
type ActionResult struct {
	Type   string `json:"type"`
	Result string `json:"result"`
}

// ChatReply is one assistant turn, possibly with attached action results.
type ChatReply struct {
	Reply   string         `json:"reply"`
	Actions []ActionResult `json:"actions,omitempty"`
}

// CreateChatSession opens one chat session on the main server. The CLI
// opens exactly one per `koye chat` invocation.
func (c *Client) CreateChatSession(ctx context.Context, token string) (string, error) {
	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/chat/sessions", token, struct{}{}, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// SendChatMessage sends one user line and returns the assistant's reply.
func (c *Client) SendChatMessage(ctx context.Context, token, sessionID, message string) (*ChatReply, error) {
	var out ChatReply
	body := map[string]string{"message": message}
	if err := c.do(ctx, http.MethodPost, "/chat/sessions/"+sessionID+"/messages", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
