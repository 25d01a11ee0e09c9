package action

import (
	"context"

	"frontdesk/app/client/llm"
	"frontdesk/app/service/router"
	"frontdesk/app/service/session"
)

// Source is one citation backing a retrieval-grounded answer.
type Source struct {
	ID      int
	Title   string
	Preview string
	Score   float64
}

// Result is the externally visible outcome of a pipeline run.
type Result struct {
	Content              string
	Sources              []Source
	Confidence           float64
	NeedsFollowup        bool
	SuggestedNextActions []string
	Metadata             map[string]string
}

// Capability is the shared contract of every action handler. recentTurns is
// a bounded window of prior exchanges for conversational continuity.
type Capability interface {
	Execute(ctx context.Context, decision *router.Decision, recentTurns []session.Turn) (*Result, error)
}

// historyMessages converts recent turns into alternating chat messages.
func historyMessages(turns []session.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns)*2)

	for _, turn := range turns {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.UserMessage},
			llm.Message{Role: llm.RoleAssistant, Content: turn.AgentResponse},
		)
	}

	return messages
}

func param(decision *router.Decision, key string) string {
	if decision.Parameters == nil {
		return ""
	}

	return decision.Parameters[key]
}
