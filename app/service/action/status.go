package action

import (
	"context"
	"errors"
	"fmt"

	"frontdesk/app/client/tickets"
	"frontdesk/app/service/router"
	"frontdesk/app/service/session"
)

var _ Capability = (*StatusLookup)(nil)

// StatusLookup reports the state of an existing ticket. A missing
// identifier or an unknown ticket is a conversational outcome, not an error.
type StatusLookup struct {
	desk tickets.Desk
}

func NewStatusLookup(desk tickets.Desk) *StatusLookup {
	return &StatusLookup{desk: desk}
}

func (c *StatusLookup) Execute(ctx context.Context, decision *router.Decision, _ []session.Turn) (*Result, error) {
	ticketID := param(decision, "ticket_id")
	if ticketID == "" {
		return &Result{
			Content:       "I'd be happy to check your ticket status. Could you please provide your ticket number? It usually starts with 'TKT-' followed by numbers.",
			Confidence:    0.8,
			NeedsFollowup: true,
		}, nil
	}

	ticket, err := c.desk.Status(ctx, ticketID)
	if errors.Is(err, tickets.ErrNotFound) {
		return &Result{
			Content: fmt.Sprintf(
				"I couldn't find a ticket with ID %s in our system.\n\nThis could mean:\n- The ticket number might be different (check your confirmation email)\n- The ticket may have been closed and archived\n- There might be a typo in the ticket number\n\nCould you double-check the ticket number? It should look like TKT-12345.",
				tickets.Normalize(ticketID)),
			Confidence:    0.7,
			NeedsFollowup: true,
			SuggestedNextActions: []string{
				"Try another ticket number",
				"Create new ticket",
				"Talk to support",
			},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ticket lookup failed: %w", err)
	}

	content := fmt.Sprintf(
		"Here's the status of your ticket %s:\n\n- Status: %s\n- Assigned to: %s\n- Last updated: %s\n- Summary: %s\n\nYou can follow it at %s. Is there anything else you'd like to know about this ticket?",
		ticket.ID,
		ticket.Status,
		ticket.AssignedTo,
		ticket.UpdatedAt.Format("2006-01-02"),
		ticket.Summary,
		ticket.TrackingURL,
	)

	return &Result{
		Content:    content,
		Confidence: 0.95,
		SuggestedNextActions: []string{
			"Add a comment",
			"Escalate ticket",
			"Check another ticket",
		},
		Metadata: map[string]string{
			"ticket_id": ticket.ID,
			"status":    string(ticket.Status),
		},
	}, nil
}
