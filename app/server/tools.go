package server

import "github.com/mark3labs/mcp-go/mcp"

// processMessageTool defines the process_message MCP tool.
var processMessageTool = mcp.NewTool("process_message",
	mcp.WithDescription("Send a user message through the support triage pipeline. Returns the agent response together with the session id to use for follow-up messages."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The user's message"),
	),
	mcp.WithString("session_id",
		mcp.Description("Session id from a previous call. Omit to start a new conversation."),
	),
)

// searchKnowledgeTool defines the search_knowledge MCP tool.
var searchKnowledgeTool = mcp.NewTool("search_knowledge",
	mcp.WithDescription("Search the support knowledge base directly, bypassing the pipeline. Returns ranked passages."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Maximum number of passages to return (default 5)"),
	),
	mcp.WithString("filter",
		mcp.Description("Metadata filter as comma-separated key=value pairs, e.g. source=faq.md"),
	),
)

// getTicketStatusTool defines the get_ticket_status MCP tool.
var getTicketStatusTool = mcp.NewTool("get_ticket_status",
	mcp.WithDescription("Look up a support ticket by its id."),
	mcp.WithString("ticket_id",
		mcp.Required(),
		mcp.Description("Ticket id, e.g. TKT-12345"),
	),
)

// createTicketTool defines the create_ticket MCP tool.
var createTicketTool = mcp.NewTool("create_ticket",
	mcp.WithDescription("Create a support ticket directly."),
	mcp.WithString("summary",
		mcp.Required(),
		mcp.Description("Short summary of the issue"),
	),
	mcp.WithString("description",
		mcp.Description("Full description of the issue"),
	),
	mcp.WithString("priority",
		mcp.Description("Ticket priority"),
		mcp.Enum("low", "medium", "high", "urgent"),
	),
)

// clearSessionTool defines the clear_session MCP tool.
var clearSessionTool = mcp.NewTool("clear_session",
	mcp.WithDescription("Delete a conversation session and its history."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session id to delete"),
	),
)
