package action

import (
	"context"
	"fmt"

	"frontdesk/app/client/llm"
	"frontdesk/app/service/router"
	"frontdesk/app/service/session"

	_ "embed"
)

//go:embed chat_prompt.txt
var chatPrompt string

const (
	chatTemperature = 0.7
	chatMaxTokens   = 300
	chatConfidence  = 0.8
)

var _ Capability = (*GeneralChat)(nil)

// GeneralChat handles greetings and small talk. No grounding, recent turns
// carry the conversational continuity.
type GeneralChat struct {
	client llm.Client
}

func NewGeneralChat(client llm.Client) *GeneralChat {
	return &GeneralChat{client: client}
}

func (c *GeneralChat) Execute(ctx context.Context, decision *router.Decision, recentTurns []session.Turn) (*Result, error) {
	messages := historyMessages(recentTurns)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: param(decision, "raw_text")})

	content, err := c.client.Complete(ctx, llm.Request{
		System:      chatPrompt,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return &Result{
		Content:    content,
		Confidence: chatConfidence,
		SuggestedNextActions: []string{
			"Ask a question",
			"Check ticket status",
			"Get help with password",
		},
	}, nil
}
