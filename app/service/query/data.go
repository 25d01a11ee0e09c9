package query

import "errors"

// ErrEmptyMessage is returned before any model call when the incoming text
// is blank.
var ErrEmptyMessage = errors.New("message is empty or whitespace")

type Intent string

const (
	IntentKnowledgeQuery Intent = "knowledge_query"
	IntentPasswordReset  Intent = "password_reset"
	IntentTicketStatus   Intent = "ticket_status"
	IntentGeneralChat    Intent = "general_chat"
	IntentEscalation     Intent = "escalation"
	IntentCourseInfo     Intent = "course_info"
	IntentUnknown        Intent = "unknown"
)

// ParseIntent coerces anything outside the fixed taxonomy to IntentUnknown.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentKnowledgeQuery, IntentPasswordReset, IntentTicketStatus,
		IntentGeneralChat, IntentEscalation, IntentCourseInfo, IntentUnknown:
		return Intent(s)
	default:
		return IntentUnknown
	}
}

// Entity is one extracted fact from the message.
type Entity struct {
	Name       string
	Value      string
	Category   string
	Confidence float64
}

// StructuredQuery is the understanding stage's output. Built once per
// message, read-only afterwards.
type StructuredQuery struct {
	RawText             string
	Intent              Intent
	Entities            []Entity
	Confidence          float64
	NeedsClarification  bool
	ClarificationPrompt string
	Metadata            map[string]string
}

func (q *StructuredQuery) Entity(name string) (Entity, bool) {
	for _, entity := range q.Entities {
		if entity.Name == name {
			return entity, true
		}
	}

	return Entity{}, false
}

func (q *StructuredQuery) EntityValue(name string) string {
	entity, ok := q.Entity(name)
	if !ok {
		return ""
	}

	return entity.Value
}

// EntityMap flattens entities to name→value, the shape recorded on turns.
func (q *StructuredQuery) EntityMap() map[string]string {
	result := make(map[string]string, len(q.Entities))
	for _, entity := range q.Entities {
		result[entity.Name] = entity.Value
	}

	return result
}

// entityCategories maps the fixed entity vocabulary to categories.
var entityCategories = map[string]string{
	"ticket_id":     "identifier",
	"course_number": "identifier",
	"user_name":     "name",
	"date":          "date",
	"topic":         "topic",
	"urgency":       "urgency",
}

func entityCategory(name string) string {
	if category, ok := entityCategories[name]; ok {
		return category
	}

	return "unknown"
}
