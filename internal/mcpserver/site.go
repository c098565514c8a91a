package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tessirov/pressgate/internal/apperr"
	"github.com/tessirov/pressgate/internal/session"
)

func (s *Server) registerSiteTools() {
	s.mcp.AddTool(mcp.NewTool("test_connection",
		mcp.WithDescription("Check whether a WordPress site is reachable and exposes the wp/v2 REST namespace. Unauthenticated."),
		mcp.WithString("siteUrl", mcp.Required(), mcp.Description("Base URL of the WordPress site (e.g. https://example.com)")),
	), s.testConnection)

	s.mcp.AddTool(mcp.NewTool("authenticate",
		mcp.WithDescription("Configure the session and verify credentials against the site. "+
			"Must succeed before any other WordPress tool can be used. "+
			"An application password takes precedence over a regular password."),
		mcp.WithString("siteUrl", mcp.Required(), mcp.Description("Base URL of the WordPress site")),
		mcp.WithString("username", mcp.Required(), mcp.Description("WordPress account username")),
		mcp.WithString("password", mcp.Description("Account password")),
		mcp.WithString("appPassword", mcp.Description("WordPress application password (preferred)")),
	), s.authenticate)

	s.mcp.AddTool(mcp.NewTool("get_site_info",
		mcp.WithDescription("Fetch the site's REST discovery document: name, description, URL, and available namespaces."),
	), s.getSiteInfo)

	s.mcp.AddTool(mcp.NewTool("get_usage_guide",
		mcp.WithDescription("Returns the usage contract for this bridge: authentication flow and tool conventions."),
	), s.getUsageGuide)
}

func (s *Server) testConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	siteURL, err := req.RequireString("siteUrl")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ok := s.wp.TestConnection(ctx, siteURL)
	return jsonResult(map[string]any{"connected": ok}), nil
}

func (s *Server) authenticate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	siteURL, err := req.RequireString("siteUrl")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	password := req.GetString("password", "")
	appPassword := req.GetString("appPassword", "")
	if password == "" && appPassword == "" {
		return errorResult(apperr.Validation("either password or appPassword is required")), nil
	}

	s.session.Configure(session.Settings{
		SiteURL:  siteURL,
		Username: username,
	})
	// Both secrets are replaced, empty included, so re-authenticating with
	// a different kind of secret never inherits the previous account's.
	s.session.ReplaceSecrets(password, appPassword)

	info, err := s.wp.Authenticate(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"authenticated": true, "user": info}), nil
}

func (s *Server) getSiteInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := s.wp.SiteInfo(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(info), nil
}

func (s *Server) getUsageGuide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(UsageContract), nil
}

func (s *Server) readUsageResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "pressgate://usage",
			MIMEType: "text/markdown",
			Text:     UsageContract,
		},
	}, nil
}
