package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"

	"frontdesk/app/client/search"
	"frontdesk/app/client/tickets"
	"frontdesk/app/service/pipeline"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server exposes the triage pipeline over MCP stdio.
type Server struct {
	pipeline *pipeline.Service
	searcher search.Searcher
	desk     tickets.Desk
	mcp      *server.MCPServer
}

func New(di *do.Injector) (*Server, error) {
	return NewServer(
		do.MustInvoke[*pipeline.Service](di),
		do.MustInvoke[*search.Index](di),
		do.MustInvoke[tickets.Desk](di),
	), nil
}

func NewServer(pipelineSvc *pipeline.Service, searcher search.Searcher, desk tickets.Desk) *Server {
	s := &Server{
		pipeline: pipelineSvc,
		searcher: searcher,
		desk:     desk,
	}

	s.mcp = server.NewMCPServer(
		"frontdesk",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(processMessageTool, s.handleProcessMessage)
	s.mcp.AddTool(searchKnowledgeTool, s.handleSearchKnowledge)
	s.mcp.AddTool(getTicketStatusTool, s.handleGetTicketStatus)
	s.mcp.AddTool(createTicketTool, s.handleCreateTicket)
	s.mcp.AddTool(clearSessionTool, s.handleClearSession)
}

// Serve starts the MCP server on stdio. Stdout carries MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
