package mcpserver

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tessirov/pressgate/internal/drafts"
)

func (s *Server) registerDraftTools() {
	s.mcp.AddTool(mcp.NewTool("save_draft",
		mcp.WithDescription("Save a local working draft. Drafts live on disk, not on the WordPress site."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Draft identifier")),
		mcp.WithString("title", mcp.Description("Draft title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Draft body")),
	), s.saveDraft)

	s.mcp.AddTool(mcp.NewTool("load_draft",
		mcp.WithDescription("Load a local working draft by key."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Draft identifier")),
	), s.loadDraft)

	s.mcp.AddTool(mcp.NewTool("list_drafts",
		mcp.WithDescription("List the keys of all local working drafts."),
	), s.listDrafts)

	s.mcp.AddTool(mcp.NewTool("delete_draft",
		mcp.WithDescription("Delete a local working draft."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Draft identifier")),
	), s.deleteDraft)
}

func (s *Server) saveDraft(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.drafts.Save(key, drafts.Draft{
		Title:   req.GetString("title", ""),
		Content: content,
	}); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"key": key, "saved": true}), nil
}

func (s *Server) loadDraft(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	draft, err := s.drafts.Load(key)
	if errors.Is(err, drafts.ErrNotFound) {
		return mcp.NewToolResultError("draft not found: " + key), nil
	}
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"key": key, "title": draft.Title, "content": draft.Content}), nil
}

func (s *Server) listDrafts(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys, err := s.drafts.List()
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"drafts": keys}), nil
}

func (s *Server) deleteDraft(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.drafts.Delete(key); err != nil {
		if errors.Is(err, drafts.ErrNotFound) {
			return mcp.NewToolResultError("draft not found: " + key), nil
		}
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"key": key, "deleted": true}), nil
}
