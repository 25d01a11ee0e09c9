package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
)

// Turn is one completed exchange. Immutable once appended.
type Turn struct {
	ID             string
	Timestamp      time.Time
	UserMessage    string
	AgentResponse  string
	Intent         string
	Entities       map[string]string
	CapabilityUsed string
	Confidence     float64
}

// Session holds the volatile state of one conversation. Nothing here
// survives a process restart.
type Session struct {
	ID           string
	CreatedAt    time.Time
	Turns        []Turn
	Entities     map[string]string
	LastActivity time.Time
}

func newSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now()

	return &Session{
		ID:           id,
		CreatedAt:    now,
		Entities:     make(map[string]string),
		LastActivity: now,
	}
}

// AddTurn appends a completed exchange and folds its entities into the
// session-wide entity map. Re-inserting an identical entity is a no-op.
func (s *Session) AddTurn(userMessage, agentResponse, intent string, entities map[string]string, capability string, confidence float64) Turn {
	turn := Turn{
		ID:             uuid.NewString(),
		Timestamp:      time.Now(),
		UserMessage:    userMessage,
		AgentResponse:  agentResponse,
		Intent:         intent,
		Entities:       entities,
		CapabilityUsed: capability,
		Confidence:     confidence,
	}

	s.Turns = append(s.Turns, turn)
	s.LastActivity = turn.Timestamp

	for name, value := range entities {
		s.Entities[name] = value
	}

	return turn
}

// RecentTurns returns up to n most recent turns, oldest first.
func (s *Session) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.Turns) == 0 {
		return nil
	}

	if len(s.Turns) > n {
		return s.Turns[len(s.Turns)-n:]
	}

	return s.Turns
}

// ContextSummary renders the conversation context fed to the understanding
// stage: recent topics, accumulated entities and prior exchanges.
func (s *Session) ContextSummary() string {
	if len(s.Turns) == 0 {
		return "This is the start of a new conversation."
	}

	var builder strings.Builder

	recentIntents := pie.Unique(pie.Map(s.RecentTurns(3), func(t Turn) string {
		return t.Intent
	}))
	builder.WriteString("Recent topics: " + strings.Join(recentIntents, ", ") + "\n")

	if len(s.Entities) > 0 {
		pairs := make([]string, 0, len(s.Entities))
		for name, value := range s.Entities {
			pairs = append(pairs, name+"="+value)
		}

		builder.WriteString("Known information: " + strings.Join(pie.Sort(pairs), ", ") + "\n")
	}

	for _, turn := range s.RecentTurns(3) {
		builder.WriteString(fmt.Sprintf("User: %s\nAgent: %s\n", turn.UserMessage, turn.AgentResponse))
	}

	builder.WriteString(fmt.Sprintf("Conversation length: %d turns", len(s.Turns)))

	return builder.String()
}
