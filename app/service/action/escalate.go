package action

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"frontdesk/app/client/tickets"
	"frontdesk/app/service/router"
	"frontdesk/app/service/session"

	"github.com/google/uuid"
)

const safetyTemplate = `I'm concerned about what you've shared. Your wellbeing is our top priority.

Please know that help is available:
- National Suicide Prevention Lifeline: 988
- Crisis Text Line: Text HOME to 741741
- Campus Counseling Services: contact your campus counseling center

A support team member will reach out to you within 1 hour. In the meantime, please reach out to one of these resources if you need immediate support.

Your reference number is: %s

Is there anything else I can help with right now?`

const legalTemplate = `I understand this involves a legal matter. I'm connecting you with our support team who can properly address your concerns.

A team member will contact you within 2 business hours. Please have any relevant documentation ready.

Your reference number is: %s

Is there any other information you'd like to provide?`

const defaultTemplate = `I understand you'd like to speak with a human support agent.

I'm creating a support ticket for you now. A member of our team will reach out within 2 business hours during business days.

Your reference number is: %s

In the meantime, is there anything specific you'd like me to document for the support team?`

var _ Capability = (*Escalation)(nil)

// Escalation acknowledges a hand-off to human support. No interpretation
// uncertainty remains at this point, so confidence is fixed at maximum. A
// tracking ticket is opened on the desk; the acknowledgment still renders if
// that fails.
type Escalation struct {
	desk tickets.Desk
}

func NewEscalation(desk tickets.Desk) *Escalation {
	return &Escalation{desk: desk}
}

func (c *Escalation) Execute(ctx context.Context, decision *router.Decision, _ []session.Turn) (*Result, error) {
	reference := newReference()

	triggerClass := param(decision, "trigger_class")

	var template string
	switch triggerClass {
	case router.TriggerClassSafety:
		template = safetyTemplate
	case router.TriggerClassLegal:
		template = legalTemplate
	default:
		template = defaultTemplate
	}

	metadata := map[string]string{
		"reference":     reference,
		"trigger_class": triggerClass,
	}

	ticket, err := c.desk.Create(ctx, tickets.CreateRequest{
		Summary:     "Escalation to human support",
		Description: escalationDescription(decision, reference),
		Priority:    string(decision.Priority),
	})
	if err != nil {
		slog.Warn("Failed to create escalation ticket", "reference", reference, "error", err)
	} else {
		metadata["ticket_id"] = ticket.ID
		metadata["tracking_url"] = ticket.TrackingURL
	}

	slog.Warn("Escalated to human support",
		"reference", reference,
		"trigger_class", triggerClass,
		"priority", decision.Priority,
		"telegram", true,
	)

	return &Result{
		Content:       fmt.Sprintf(template, reference),
		Confidence:    1.0,
		NeedsFollowup: true,
		SuggestedNextActions: []string{
			"Provide more details",
			"Confirm contact info",
		},
		Metadata: metadata,
	}, nil
}

func escalationDescription(decision *router.Decision, reference string) string {
	lines := []string{
		"Reference: " + reference,
		"Priority: " + string(decision.Priority),
	}

	if reason := decision.EscalationReason; reason != "" {
		lines = append(lines, "Reason: "+reason)
	}
	if keywords := param(decision, "keywords"); keywords != "" {
		lines = append(lines, "Matched triggers: "+keywords)
	}
	if raw := param(decision, "raw_text"); raw != "" {
		lines = append(lines, "User message: "+raw)
	}

	return strings.Join(lines, "\n")
}

func newReference() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")

	return "ESC-" + strings.ToUpper(hex[:8])
}
