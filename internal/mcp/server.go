package mcp

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/docmentor/docmentor-mcp/internal/catalog"
	"github.com/docmentor/docmentor-mcp/internal/feedback"
	"github.com/docmentor/docmentor-mcp/internal/retriever"
)

const (
	// ServerName is the MCP server name
	ServerName = "docmentor-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	store     *catalog.Store
	retriever *retriever.Retriever
	feedback  *feedback.Store
	log       *zap.Logger
}

// Deps carries the wired application components the server exposes.
type Deps struct {
	Store     *catalog.Store
	Retriever *retriever.Retriever
	Feedback  *feedback.Store
	Logger    *zap.Logger
}

// NewServer creates a new MCP server instance over already-built
// components.
func NewServer(deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if deps.Retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if deps.Feedback == nil {
		return nil, fmt.Errorf("feedback store is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:       mcpServer,
		store:     deps.Store,
		retriever: deps.Retriever,
		feedback:  deps.Feedback,
		log:       deps.Logger,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until the client
// closes stdin or ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving MCP on stdio",
		zap.String("server", ServerName),
		zap.String("version", ServerVersion))
	return s.serve(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(getOverviewTool(), s.handleGetOverview)
	s.mcp.AddTool(findAPITool(), s.handleFindAPI)
	s.mcp.AddTool(getExamplesTool(), s.handleGetExamples)
	s.mcp.AddTool(reportIssueTool(), s.handleReportIssue)
	s.mcp.AddTool(getAPIDetailsTool(), s.handleGetAPIDetails)
	s.mcp.AddTool(getExampleDetailsTool(), s.handleGetExampleDetails)
}
