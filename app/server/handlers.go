package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"frontdesk/app/client/tickets"
)

// handleProcessMessage runs a message through the pipeline and returns the
// agent response plus the session id for follow-ups.
func (s *Server) handleProcessMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	sessionID := request.GetString("session_id", "")

	result, sessionID := s.pipeline.Process(ctx, message, sessionID)

	var b strings.Builder
	b.WriteString(result.Content)
	b.WriteString(fmt.Sprintf("\n\n---\nsession_id: %s\nconfidence: %.2f", sessionID, result.Confidence))

	if len(result.Sources) > 0 {
		b.WriteString("\nsources:")
		for _, source := range result.Sources {
			b.WriteString(fmt.Sprintf("\n  - %s (%.3f)", source.Title, source.Score))
		}
	}

	if len(result.SuggestedNextActions) > 0 {
		b.WriteString("\nsuggested: " + strings.Join(result.SuggestedNextActions, ", "))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// handleSearchKnowledge exposes the hybrid index directly.
func (s *Server) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	topK := request.GetInt("top_k", 5)
	if topK <= 0 {
		topK = 5
	}

	passages, err := s.searcher.Search(ctx, query, topK, request.GetString("filter", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(passages) == 0 {
		return mcp.NewToolResultText("No matching passages found in the knowledge base."), nil
	}

	var b strings.Builder
	for i, passage := range passages {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		b.WriteString(fmt.Sprintf("[%d] (Source: %s, Relevance: %.3f)\n%s",
			i+1, passage.Metadata["source"], passage.Score, passage.Content))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// handleGetTicketStatus looks a ticket up on the desk.
func (s *Server) handleGetTicketStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticketID, err := request.RequireString("ticket_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: ticket_id"), nil
	}

	ticket, err := s.desk.Status(ctx, ticketID)
	if err != nil {
		if errors.Is(err, tickets.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("ticket %q not found", tickets.Normalize(ticketID))), nil
		}

		return mcp.NewToolResultError(fmt.Sprintf("ticket lookup failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatTicket(ticket)), nil
}

// handleCreateTicket creates a ticket outside the pipeline.
func (s *Server) handleCreateTicket(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := request.RequireString("summary")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: summary"), nil
	}

	ticket, err := s.desk.Create(ctx, tickets.CreateRequest{
		Summary:     summary,
		Description: request.GetString("description", ""),
		Priority:    request.GetString("priority", "medium"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ticket creation failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatTicket(ticket)), nil
}

// handleClearSession deletes a session and its history.
func (s *Server) handleClearSession(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	if !s.pipeline.ClearSession(sessionID) {
		return mcp.NewToolResultText(fmt.Sprintf("No session %q to clear.", sessionID)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %q cleared.", sessionID)), nil
}

func formatTicket(ticket tickets.Ticket) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Ticket: %s\nSummary: %s\nStatus: %s\nPriority: %s\nAssigned to: %s",
		ticket.ID, ticket.Summary, ticket.Status, ticket.Priority, ticket.AssignedTo))

	if ticket.TrackingURL != "" {
		b.WriteString("\nTracking: " + ticket.TrackingURL)
	}

	b.WriteString("\nLast updated: " + ticket.UpdatedAt.Format("2006-01-02 15:04"))

	return b.String()
}
