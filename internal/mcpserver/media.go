package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tessirov/pressgate/internal/wordpress"
)

func (s *Server) registerMediaTools() {
	s.mcp.AddTool(mcp.NewTool("list_media",
		mcp.WithDescription("List media library items with filtering and pagination."),
		mcp.WithNumber("page", mcp.Description("Page number"), mcp.DefaultNumber(1), mcp.Min(1)),
		mcp.WithNumber("perPage", mcp.Description("Results per page"), mcp.DefaultNumber(10), mcp.Min(1), mcp.Max(100)),
		mcp.WithString("search", mcp.Description("Search term")),
		mcp.WithString("mediaType", mcp.Description("Filter by media type"),
			mcp.Enum("image", "video", "audio", "application", "text")),
		mcp.WithString("mimeType", mcp.Description("Filter by exact MIME type, e.g. image/png")),
		mcp.WithString("orderBy", mcp.Description("Sort field"), mcp.DefaultString("date"),
			mcp.Enum("date", "modified", "title", "id", "slug")),
		mcp.WithString("order", mcp.Description("Sort direction"), mcp.DefaultString("desc"), mcp.Enum("asc", "desc")),
	), s.listMedia)

	s.mcp.AddTool(mcp.NewTool("get_media",
		mcp.WithDescription("Fetch a media item by ID."),
		mcp.WithNumber("mediaId", mcp.Required(), mcp.Description("Media ID")),
	), s.getMedia)

	s.mcp.AddTool(mcp.NewTool("upload_media",
		mcp.WithDescription("Upload a file to the media library from a local path or a URL."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Local file path or http(s) URL")),
		mcp.WithString("fileName", mcp.Description("Override the stored file name")),
		mcp.WithString("title", mcp.Description("Attachment title")),
		mcp.WithString("altText", mcp.Description("Alternative text")),
		mcp.WithString("caption", mcp.Description("Caption")),
		mcp.WithString("description", mcp.Description("Description")),
		mcp.WithNumber("postId", mcp.Description("Attach to this post")),
	), s.uploadMedia)

	s.mcp.AddTool(mcp.NewTool("update_media",
		mcp.WithDescription("Update media metadata. Omitted fields are left untouched."),
		mcp.WithNumber("mediaId", mcp.Required(), mcp.Description("Media ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("altText", mcp.Description("New alternative text")),
		mcp.WithString("caption", mcp.Description("New caption")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithNumber("postId", mcp.Description("Attach to this post")),
	), s.updateMedia)

	s.mcp.AddTool(mcp.NewTool("delete_media",
		mcp.WithDescription("Delete a media item. With force=false it is moved to trash where supported."),
		mcp.WithNumber("mediaId", mcp.Required(), mcp.Description("Media ID")),
		mcp.WithBoolean("force", mcp.Description("Delete permanently"), mcp.DefaultBool(true)),
	), s.deleteMedia)

	s.mcp.AddTool(mcp.NewTool("bulk_delete_media",
		mcp.WithDescription("Delete several media items, reporting per-item successes and failures."),
		mcp.WithArray("mediaIds", mcp.Required(), mcp.Description("Media IDs to delete"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithBoolean("force", mcp.Description("Delete permanently"), mcp.DefaultBool(true)),
	), s.bulkDeleteMedia)

	s.mcp.AddTool(mcp.NewTool("optimize_media",
		mcp.WithDescription("Compress an image through the configured compression service, optionally replacing the original."),
		mcp.WithNumber("mediaId", mcp.Required(), mcp.Description("Media ID of the image")),
		mcp.WithNumber("quality", mcp.Description("Compression quality"), mcp.DefaultNumber(80), mcp.Min(1), mcp.Max(100)),
		mcp.WithBoolean("replaceOriginal", mcp.Description("Upload the compressed file and delete the original"), mcp.DefaultBool(false)),
	), s.optimizeMedia)
}

func (s *Server) listMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.wp.ListMedia(ctx, wordpress.ListMediaInput{
		Page:      req.GetInt("page", 1),
		PerPage:   req.GetInt("perPage", 10),
		Search:    req.GetString("search", ""),
		MediaType: req.GetString("mediaType", ""),
		MimeType:  req.GetString("mimeType", ""),
		OrderBy:   req.GetString("orderBy", "date"),
		Order:     req.GetString("order", "desc"),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(list), nil
}

func (s *Server) getMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("mediaId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	media, err := s.wp.GetMedia(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(media), nil
}

func (s *Server) uploadMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	media, err := s.wp.UploadMedia(ctx, wordpress.UploadMediaInput{
		Source:      source,
		FileName:    req.GetString("fileName", ""),
		Title:       req.GetString("title", ""),
		AltText:     req.GetString("altText", ""),
		Caption:     req.GetString("caption", ""),
		Description: req.GetString("description", ""),
		Post:        req.GetInt("postId", 0),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(media), nil
}

func (s *Server) updateMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("mediaId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	media, err := s.wp.UpdateMedia(ctx, id, wordpress.UpdateMediaInput{
		Title:       optString(req, "title"),
		AltText:     optString(req, "altText"),
		Caption:     optString(req, "caption"),
		Description: optString(req, "description"),
		Post:        optInt(req, "postId"),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(media), nil
}

func (s *Server) deleteMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("mediaId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.wp.DeleteMedia(ctx, id, req.GetBool("force", true))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) bulkDeleteMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.wp.BulkDeleteMedia(ctx, req.GetIntSlice("mediaIds", nil), req.GetBool("force", true))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) optimizeMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("mediaId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.wp.OptimizeMedia(ctx, wordpress.OptimizeMediaInput{
		MediaID:         id,
		Quality:         req.GetInt("quality", 80),
		ReplaceOriginal: req.GetBool("replaceOriginal", false),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}
