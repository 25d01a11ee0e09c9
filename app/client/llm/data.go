package llm

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

type Request struct {
	System      string
	Messages    []Message
	Temperature float32
	MaxTokens   int
	// JSONMode constrains the model to emit a single JSON object
	JSONMode bool
}

// Client is the completion collaborator used by the pipeline stages.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
