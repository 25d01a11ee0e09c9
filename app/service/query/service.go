package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"frontdesk/app/client/llm"

	_ "embed"

	"github.com/samber/do"
)

//go:embed system_prompt.txt
var systemPrompt string

const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 500

	defaultConfidence       = 0.5
	defaultEntityConfidence = 0.8
)

type Service struct {
	client llm.Client
}

func New(di *do.Injector) (*Service, error) {
	return NewService(do.MustInvoke[llm.Client](di)), nil
}

func NewService(client llm.Client) *Service {
	return &Service{client: client}
}

// Analyze classifies the message into the fixed intent taxonomy and extracts
// entities. contextSummary carries prior-turn context for follow-up
// questions and may be empty.
func (s *Service) Analyze(ctx context.Context, text, contextSummary string) (*StructuredQuery, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	result, err := s.client.Complete(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserPrompt(text, contextSummary)},
		},
		Temperature: classifyTemperature,
		MaxTokens:   classifyMaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("classification completion failed: %w", err)
	}

	var response classifyResponse
	if err = json.Unmarshal([]byte(llm.StripFence(result)), &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal classification: %w", err)
	}

	structured := parseResponse(text, &response)

	slog.Debug("Analyzed message",
		"intent", structured.Intent,
		"confidence", structured.Confidence,
		"entities", len(structured.Entities),
	)

	return structured, nil
}

func buildUserPrompt(text, contextSummary string) string {
	var builder strings.Builder

	if contextSummary != "" {
		builder.WriteString("## Conversation Context\n" + contextSummary + "\n\n")
	}

	builder.WriteString("## Current User Message\n" + text + "\n\n")
	builder.WriteString("Analyze this message and respond with JSON.")

	return builder.String()
}

type classifyResponse struct {
	Intent                string             `json:"intent"`
	Confidence            *float64           `json:"confidence"`
	Entities              map[string]any     `json:"entities"`
	EntityConfidences     map[string]float64 `json:"entity_confidences"`
	RequiresClarification bool               `json:"requires_clarification"`
	ClarificationQuestion string             `json:"clarification_question"`
	Urgency               string             `json:"urgency"`
}

// parseResponse is deliberately forgiving: an intent outside the taxonomy
// becomes unknown, a missing confidence becomes 0.5, null entities are
// skipped. A malformed-but-parseable classification never fails the stage.
func parseResponse(rawText string, response *classifyResponse) *StructuredQuery {
	confidence := defaultConfidence
	if response.Confidence != nil {
		confidence = *response.Confidence
	}

	entities := make([]Entity, 0, len(response.Entities))
	for name, value := range response.Entities {
		if value == nil {
			continue
		}

		entityConfidence, ok := response.EntityConfidences[name]
		if !ok {
			entityConfidence = defaultEntityConfidence
		}

		entities = append(entities, Entity{
			Name:       name,
			Value:      fmt.Sprint(value),
			Category:   entityCategory(name),
			Confidence: entityConfidence,
		})
	}

	urgency := response.Urgency
	if urgency == "" {
		urgency = "low"
	}

	return &StructuredQuery{
		RawText:             rawText,
		Intent:              ParseIntent(response.Intent),
		Entities:            entities,
		Confidence:          confidence,
		NeedsClarification:  response.RequiresClarification,
		ClarificationPrompt: response.ClarificationQuestion,
		Metadata: map[string]string{
			"urgency": urgency,
		},
	}
}
