// Package mcpserver exposes the WordPress bridge as MCP (Model Context
// Protocol) tools for LLM integration via stdio or streamable HTTP
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tessirov/pressgate/internal/apperr"
	"github.com/tessirov/pressgate/internal/drafts"
	"github.com/tessirov/pressgate/internal/session"
	"github.com/tessirov/pressgate/internal/wordpress"
)

// Server wraps the MCP server with the WordPress tools.
type Server struct {
	mcp     *server.MCPServer
	session *session.Session
	wp      *wordpress.Client
	drafts  *drafts.Store
	log     *slog.Logger
}

// New creates an MCP server with all tools registered against the given
// session, WordPress client, and draft store.
func New(sess *session.Session, wp *wordpress.Client, store *drafts.Store, log *slog.Logger) *Server {
	s := &Server{session: sess, wp: wp, drafts: store, log: log}
	if s.log == nil {
		s.log = slog.Default()
	}

	s.mcp = server.NewMCPServer(
		"Pressgate",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.registerSiteTools()
	s.registerPostTools()
	s.registerTaxonomyTools()
	s.registerUserTools()
	s.registerMediaTools()
	s.registerDraftTools()

	// Resource: usage contract.
	s.mcp.AddResource(
		mcp.NewResource("pressgate://usage", "WordPress Bridge Usage Contract",
			mcp.WithResourceDescription("Authentication flow and tool conventions for the WordPress bridge."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readUsageResource,
	)

	return s
}

// ServeStdio runs the MCP server on stdin/stdout until the context is
// cancelled or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// HTTPHandler returns the streamable HTTP transport for mounting on an
// HTTP router.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// jsonResult renders a success envelope as indented JSON.
func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// errorResult renders a failure. Remote errors keep their HTTP metadata as
// a structured JSON body; local errors surface their message with a kind
// prefix.
func errorResult(err error) *mcp.CallToolResult {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind == apperr.KindRemote {
		out, _ := json.Marshal(map[string]any{
			"kind":       e.Kind.String(),
			"status":     e.Status,
			"statusText": e.StatusText,
			"data":       e.Body,
			"message":    e.Message,
		})
		return mcp.NewToolResultError(string(out))
	}
	if e != nil && e.Kind != apperr.KindUnknown {
		return mcp.NewToolResultError(e.Kind.String() + ": " + e.Message)
	}
	return mcp.NewToolResultError(err.Error())
}
