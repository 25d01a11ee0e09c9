package router

import (
	"fmt"
	"log/slog"
	"strings"

	"frontdesk/app/service/query"

	"github.com/samber/do"
)

// confidenceThreshold below which any classification is routed to
// clarification regardless of intent.
const confidenceThreshold = 0.6

type route struct {
	primary  string
	fallback string
}

var routingTable = map[query.Intent]route{
	query.IntentKnowledgeQuery: {CapabilityRetrieve, CapabilityGeneralChat},
	query.IntentPasswordReset:  {CapabilityRetrieve, CapabilityEscalation},
	query.IntentTicketStatus:   {CapabilityTicketStatus, CapabilityGeneralChat},
	query.IntentGeneralChat:    {CapabilityGeneralChat, ""},
	query.IntentEscalation:     {CapabilityEscalation, ""},
	query.IntentCourseInfo:     {CapabilityRetrieve, CapabilityGeneralChat},
	query.IntentUnknown:        {CapabilityClarification, CapabilityGeneralChat},
}

type Service struct{}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

// Route maps a structured query to a capability. Deterministic rule order:
// escalation trigger scan, upstream clarification, low confidence, then the
// static intent table.
func (s *Service) Route(q *query.StructuredQuery) *Decision {
	if decision := s.checkTriggers(q); decision != nil {
		slog.Warn("Escalation triggered",
			"priority", decision.Priority,
			"reason", decision.EscalationReason,
		)

		return decision
	}

	if q.NeedsClarification {
		return &Decision{
			Target: CapabilityClarification,
			Parameters: map[string]string{
				"question":     q.ClarificationPrompt,
				"raw_text":     q.RawText,
				"intent_guess": string(q.Intent),
			},
			Fallback:  CapabilityGeneralChat,
			Priority:  PriorityMedium,
			Rationale: "understanding stage requested clarification before proceeding",
		}
	}

	if q.Confidence < confidenceThreshold {
		return &Decision{
			Target: CapabilityClarification,
			Parameters: map[string]string{
				"raw_text":     q.RawText,
				"intent_guess": string(q.Intent),
				"confidence":   fmt.Sprintf("%.2f", q.Confidence),
			},
			Fallback:  CapabilityGeneralChat,
			Priority:  PriorityMedium,
			Rationale: fmt.Sprintf("low confidence (%.2f) - requesting clarification", q.Confidence),
		}
	}

	r, ok := routingTable[q.Intent]
	if !ok {
		r = route{CapabilityGeneralChat, ""}
	}

	return &Decision{
		Target:     r.primary,
		Parameters: buildParameters(q),
		Fallback:   r.fallback,
		Priority:   determinePriority(q),
		Rationale:  fmt.Sprintf("intent %q with confidence %.2f", q.Intent, q.Confidence),
	}
}

func (s *Service) checkTriggers(q *query.StructuredQuery) *Decision {
	class, matched := scanTriggers(q.RawText)
	if class == nil {
		return nil
	}

	return &Decision{
		Target: CapabilityEscalation,
		Parameters: map[string]string{
			"raw_text":      q.RawText,
			"trigger_class": class.name,
			"keywords":      strings.Join(matched, ", "),
		},
		// Escalation must not degrade further.
		Fallback:         "",
		Priority:         class.priority,
		Rationale:        fmt.Sprintf("escalation triggers matched: %s", strings.Join(matched, ", ")),
		Escalate:         true,
		EscalationReason: class.reason,
	}
}

// buildParameters hands each capability only the entities it needs, so
// capabilities stay decoupled from the full query record.
func buildParameters(q *query.StructuredQuery) map[string]string {
	params := map[string]string{
		"raw_text":   q.RawText,
		"intent":     string(q.Intent),
		"confidence": fmt.Sprintf("%.2f", q.Confidence),
	}

	switch q.Intent {
	case query.IntentTicketStatus:
		params["ticket_id"] = q.EntityValue("ticket_id")

	case query.IntentKnowledgeQuery:
		params["search_query"] = q.RawText
		if topic := q.EntityValue("topic"); topic != "" {
			params["topic"] = topic
		}

	case query.IntentPasswordReset:
		params["search_query"] = q.RawText
		if name := q.EntityValue("user_name"); name != "" {
			params["user_name"] = name
		}

	case query.IntentCourseInfo:
		params["search_query"] = q.RawText
		if course := q.EntityValue("course_number"); course != "" {
			params["course_number"] = course
		}
	}

	return params
}

func determinePriority(q *query.StructuredQuery) Priority {
	priority := PriorityMedium

	switch q.Metadata["urgency"] {
	case "high":
		priority = PriorityHigh
	case "medium":
		priority = PriorityMedium
	case "low":
		priority = PriorityLow
	}

	// Escalation-classified intents never drop below high.
	if q.Intent == query.IntentEscalation && priority != PriorityUrgent {
		priority = PriorityHigh
	}

	return priority
}
