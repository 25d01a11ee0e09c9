package action

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"frontdesk/app/client/llm"
	"frontdesk/app/client/search"
	"frontdesk/app/service/router"
	"frontdesk/app/service/session"

	_ "embed"
)

//go:embed rag_prompt.txt
var ragPrompt string

//go:embed degraded_prompt.txt
var degradedPrompt string

const (
	ragTemperature = 0.3
	ragMaxTokens   = 600

	groundedConfidence  = 0.85
	noPassageConfidence = 0.5
	degradedConfidence  = 0.4

	previewLength = 200
)

var _ Capability = (*Retrieve)(nil)

// Retrieve answers knowledge questions strictly from retrieved passages,
// with numbered citations. When the retrieval collaborator is unreachable it
// degrades to an ungrounded reply with a disclosed limitation instead of
// failing.
type Retrieve struct {
	client   llm.Client
	searcher search.Searcher
	topK     int
}

func NewRetrieve(client llm.Client, searcher search.Searcher, topK int) *Retrieve {
	return &Retrieve{
		client:   client,
		searcher: searcher,
		topK:     topK,
	}
}

func (c *Retrieve) Execute(ctx context.Context, decision *router.Decision, recentTurns []session.Turn) (*Result, error) {
	searchQuery := param(decision, "search_query")
	if searchQuery == "" {
		searchQuery = param(decision, "raw_text")
	}

	passages, err := c.searcher.Search(ctx, searchQuery, c.topK, param(decision, "filter"))
	if err != nil {
		slog.Warn("Retrieval collaborator unavailable, degrading to ungrounded reply", "error", err)
		return c.degraded(ctx, searchQuery, recentTurns)
	}

	contextBlock := buildContextBlock(passages)

	userMessage := fmt.Sprintf("## Retrieved Context\n\n%s\n\n## Question\n\n%s", contextBlock, searchQuery)

	content, err := c.client.Complete(ctx, llm.Request{
		System:      ragPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMessage}},
		Temperature: ragTemperature,
		MaxTokens:   ragMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("grounded completion failed: %w", err)
	}

	sources := make([]Source, 0, len(passages))
	for i, passage := range passages {
		sources = append(sources, Source{
			ID:      i + 1,
			Title:   passageTitle(passage, i+1),
			Preview: preview(passage.Content),
			Score:   passage.Score,
		})
	}

	confidence := groundedConfidence
	if len(sources) == 0 {
		confidence = noPassageConfidence
	}

	return &Result{
		Content:              content,
		Sources:              sources,
		Confidence:           confidence,
		NeedsFollowup:        len(sources) == 0,
		SuggestedNextActions: []string{"Ask a follow-up question", "Need more help?"},
		Metadata: map[string]string{
			"passages": fmt.Sprintf("%d", len(passages)),
		},
	}, nil
}

func (c *Retrieve) degraded(ctx context.Context, searchQuery string, recentTurns []session.Turn) (*Result, error) {
	messages := historyMessages(recentTurns)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: searchQuery})

	content, err := c.client.Complete(ctx, llm.Request{
		System:      degradedPrompt,
		Messages:    messages,
		Temperature: 0.5,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("degraded completion failed: %w", err)
	}

	return &Result{
		Content:              content,
		Confidence:           degradedConfidence,
		NeedsFollowup:        true,
		SuggestedNextActions: []string{"Try again", "Speak to human support"},
		Metadata: map[string]string{
			"fallback_mode": "true",
		},
	}, nil
}

func buildContextBlock(passages []search.Passage) string {
	if len(passages) == 0 {
		return "No relevant documents found in the knowledge base."
	}

	parts := make([]string, 0, len(passages))
	for i, passage := range passages {
		parts = append(parts, fmt.Sprintf("[%d] (Source: %s, Relevance: %.3f)\n%s",
			i+1, passageTitle(passage, i+1), passage.Score, passage.Content))
	}

	return strings.Join(parts, "\n\n---\n\n")
}

func passageTitle(passage search.Passage, n int) string {
	if title := passage.Metadata["source"]; title != "" {
		return title
	}

	return fmt.Sprintf("Source %d", n)
}

func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}

	return content[:previewLength] + "..."
}
