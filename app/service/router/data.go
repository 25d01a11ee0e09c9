package router

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Capability names the router can target. The action registry maps these to
// implementations.
const (
	CapabilityRetrieve      = "retrieve"
	CapabilityGeneralChat   = "general_chat"
	CapabilityClarification = "clarification"
	CapabilityEscalation    = "escalation"
	CapabilityTicketStatus  = "ticket_status"
)

// Decision is the routing stage's output: which capability runs, with what
// parameters, and what to try when it fails. Fallback is empty when no
// degradation is allowed (escalations).
type Decision struct {
	Target           string
	Parameters       map[string]string
	Fallback         string
	Priority         Priority
	Rationale        string
	Escalate         bool
	EscalationReason string
}
