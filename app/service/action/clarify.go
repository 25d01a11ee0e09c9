package action

import (
	"context"
	"fmt"

	"frontdesk/app/client/llm"
	"frontdesk/app/service/router"
	"frontdesk/app/service/session"

	_ "embed"
)

//go:embed clarify_prompt.txt
var clarifyPrompt string

const (
	clarifyTemperature = 0.5
	clarifyMaxTokens   = 200
)

var _ Capability = (*Clarification)(nil)

// Clarification asks the user to narrow down an ambiguous request. A
// question supplied by the understanding stage is returned verbatim without
// a model call.
type Clarification struct {
	client llm.Client
}

func NewClarification(client llm.Client) *Clarification {
	return &Clarification{client: client}
}

func (c *Clarification) Execute(ctx context.Context, decision *router.Decision, _ []session.Turn) (*Result, error) {
	if question := param(decision, "question"); question != "" {
		return &Result{
			Content:       question,
			Confidence:    0.6,
			NeedsFollowup: true,
		}, nil
	}

	userPrompt := fmt.Sprintf(
		"The user said: %q\n\nMy best guess at their intent: %s (confidence: %s)\n\nGenerate a brief, friendly clarification question to understand what they need.",
		param(decision, "raw_text"),
		param(decision, "intent_guess"),
		param(decision, "confidence"),
	)

	content, err := c.client.Complete(ctx, llm.Request{
		System:      clarifyPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userPrompt}},
		Temperature: clarifyTemperature,
		MaxTokens:   clarifyMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("clarification completion failed: %w", err)
	}

	return &Result{
		Content:       content,
		Confidence:    0.5,
		NeedsFollowup: true,
		SuggestedNextActions: []string{
			"Ask about policies",
			"Check ticket status",
			"Reset password",
			"Talk to human",
		},
	}, nil
}
