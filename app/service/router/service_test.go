package router

import (
	"testing"

	"frontdesk/app/service/query"
)

func confidentQuery(intent query.Intent, text string) *query.StructuredQuery {
	return &query.StructuredQuery{
		RawText:    text,
		Intent:     intent,
		Confidence: 0.9,
		Metadata:   map[string]string{"urgency": "low"},
	}
}

func TestRoute_EscalationTriggersWinOverIntent(t *testing.T) {
	svc := &Service{}

	q := confidentQuery(query.IntentKnowledgeQuery, "I want to talk to a real person right now")

	decision := svc.Route(q)

	if decision.Target != CapabilityEscalation {
		t.Fatalf("target = %q, want %q", decision.Target, CapabilityEscalation)
	}
	if !decision.Escalate {
		t.Error("Escalate not set on trigger match")
	}
	if decision.Fallback != "" {
		t.Errorf("escalation must not have a fallback, got %q", decision.Fallback)
	}
	if decision.Parameters["trigger_class"] != TriggerClassGeneral {
		t.Errorf("trigger_class = %q, want %q", decision.Parameters["trigger_class"], TriggerClassGeneral)
	}
}

func TestRoute_TriggerClassSeverity(t *testing.T) {
	svc := &Service{}

	tests := []struct {
		name         string
		text         string
		triggerClass string
		priority     Priority
	}{
		{"safety beats legal", "I want to hurt myself, my lawyer said so", TriggerClassSafety, PriorityUrgent},
		{"legal beats general", "my attorney will sue, get me a manager", TriggerClassLegal, PriorityHigh},
		{"general alone", "let me speak to someone immediately", TriggerClassGeneral, PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := svc.Route(confidentQuery(query.IntentGeneralChat, tt.text))

			if decision.Parameters["trigger_class"] != tt.triggerClass {
				t.Errorf("trigger_class = %q, want %q", decision.Parameters["trigger_class"], tt.triggerClass)
			}
			if decision.Priority != tt.priority {
				t.Errorf("priority = %q, want %q", decision.Priority, tt.priority)
			}
		})
	}
}

func TestRoute_ClarificationFlag(t *testing.T) {
	svc := &Service{}

	q := confidentQuery(query.IntentKnowledgeQuery, "what about it")
	q.NeedsClarification = true
	q.ClarificationPrompt = "What topic are you asking about?"

	decision := svc.Route(q)

	if decision.Target != CapabilityClarification {
		t.Fatalf("target = %q, want %q", decision.Target, CapabilityClarification)
	}
	if decision.Fallback != CapabilityGeneralChat {
		t.Errorf("fallback = %q, want %q", decision.Fallback, CapabilityGeneralChat)
	}
	if decision.Parameters["question"] != "What topic are you asking about?" {
		t.Errorf("question param not forwarded: %q", decision.Parameters["question"])
	}
}

func TestRoute_LowConfidence(t *testing.T) {
	svc := &Service{}

	q := confidentQuery(query.IntentKnowledgeQuery, "hmm")
	q.Confidence = 0.45

	decision := svc.Route(q)

	if decision.Target != CapabilityClarification {
		t.Fatalf("target = %q, want %q", decision.Target, CapabilityClarification)
	}
	if decision.Parameters["confidence"] != "0.45" {
		t.Errorf("confidence param = %q, want %q", decision.Parameters["confidence"], "0.45")
	}
}

func TestRoute_ConfidenceAtThresholdUsesTable(t *testing.T) {
	svc := &Service{}

	q := confidentQuery(query.IntentGeneralChat, "hello there")
	q.Confidence = 0.6

	decision := svc.Route(q)

	if decision.Target != CapabilityGeneralChat {
		t.Errorf("target = %q, want %q", decision.Target, CapabilityGeneralChat)
	}
}

func TestRoute_IntentTable(t *testing.T) {
	svc := &Service{}

	tests := []struct {
		intent   query.Intent
		target   string
		fallback string
	}{
		{query.IntentKnowledgeQuery, CapabilityRetrieve, CapabilityGeneralChat},
		{query.IntentPasswordReset, CapabilityRetrieve, CapabilityEscalation},
		{query.IntentTicketStatus, CapabilityTicketStatus, CapabilityGeneralChat},
		{query.IntentGeneralChat, CapabilityGeneralChat, ""},
		{query.IntentEscalation, CapabilityEscalation, ""},
		{query.IntentCourseInfo, CapabilityRetrieve, CapabilityGeneralChat},
		{query.IntentUnknown, CapabilityClarification, CapabilityGeneralChat},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			decision := svc.Route(confidentQuery(tt.intent, "please check on things"))

			if decision.Target != tt.target {
				t.Errorf("target = %q, want %q", decision.Target, tt.target)
			}
			if decision.Fallback != tt.fallback {
				t.Errorf("fallback = %q, want %q", decision.Fallback, tt.fallback)
			}
		})
	}
}

func TestRoute_TicketStatusExtractsTicketID(t *testing.T) {
	svc := &Service{}

	q := confidentQuery(query.IntentTicketStatus, "status of my ticket TKT-12345")
	q.Entities = []query.Entity{{Name: "ticket_id", Value: "TKT-12345", Category: "identifier", Confidence: 0.9}}

	decision := svc.Route(q)

	if decision.Parameters["ticket_id"] != "TKT-12345" {
		t.Errorf("ticket_id = %q, want TKT-12345", decision.Parameters["ticket_id"])
	}
}

func TestRoute_KnowledgeQueryCarriesSearchQuery(t *testing.T) {
	svc := &Service{}

	q := confidentQuery(query.IntentKnowledgeQuery, "how do I enroll in a course?")
	q.Entities = []query.Entity{{Name: "topic", Value: "enrollment", Category: "topic", Confidence: 0.9}}

	decision := svc.Route(q)

	if decision.Parameters["search_query"] != q.RawText {
		t.Errorf("search_query = %q, want raw text", decision.Parameters["search_query"])
	}
	if decision.Parameters["topic"] != "enrollment" {
		t.Errorf("topic = %q, want enrollment", decision.Parameters["topic"])
	}
}

func TestRoute_EscalationIntentFloorsAtHigh(t *testing.T) {
	svc := &Service{}

	// No trigger keywords so the static table handles it.
	q := confidentQuery(query.IntentEscalation, "this has gone on long enough, I give up")

	decision := svc.Route(q)

	if decision.Target != CapabilityEscalation {
		t.Fatalf("target = %q, want %q", decision.Target, CapabilityEscalation)
	}
	if decision.Priority != PriorityHigh {
		t.Errorf("priority = %q, want %q", decision.Priority, PriorityHigh)
	}
}

func TestRoute_UrgencyMapsToPriority(t *testing.T) {
	svc := &Service{}

	q := confidentQuery(query.IntentKnowledgeQuery, "how does billing work?")
	q.Metadata["urgency"] = "high"

	decision := svc.Route(q)

	if decision.Priority != PriorityHigh {
		t.Errorf("priority = %q, want %q", decision.Priority, PriorityHigh)
	}
}
