package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tessirov/pressgate/internal/wordpress"
)

func (s *Server) registerPostTools() {
	s.mcp.AddTool(mcp.NewTool("create_post",
		mcp.WithDescription("Create a blog post. Defaults to draft status."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Post title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Post body (HTML or block markup)")),
		mcp.WithString("excerpt", mcp.Description("Optional excerpt")),
		mcp.WithString("status", mcp.Description("Post status"),
			mcp.Enum("draft", "publish", "pending", "private", "future"), mcp.DefaultString("draft")),
		mcp.WithString("slug", mcp.Description("URL slug")),
		mcp.WithArray("categories", mcp.Description("Category IDs"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithArray("tags", mcp.Description("Tag IDs"), mcp.Items(map[string]any{"type": "number"})),
	), s.createPost)

	s.mcp.AddTool(mcp.NewTool("get_post",
		mcp.WithDescription("Fetch a single post by ID."),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post ID")),
	), s.getPost)

	s.mcp.AddTool(mcp.NewTool("update_post",
		mcp.WithDescription("Update fields of an existing post. Omitted fields are left untouched."),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New body")),
		mcp.WithString("excerpt", mcp.Description("New excerpt")),
		mcp.WithString("status", mcp.Description("New status"),
			mcp.Enum("draft", "publish", "pending", "private", "future")),
		mcp.WithString("slug", mcp.Description("New slug")),
		mcp.WithArray("categories", mcp.Description("Replacement category IDs"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithArray("tags", mcp.Description("Replacement tag IDs"), mcp.Items(map[string]any{"type": "number"})),
	), s.updatePost)

	s.mcp.AddTool(mcp.NewTool("delete_post",
		mcp.WithDescription("Delete a post. With force=false the post is moved to trash instead."),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post ID")),
		mcp.WithBoolean("force", mcp.Description("Skip trash and delete permanently"), mcp.DefaultBool(false)),
	), s.deletePost)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List posts with filtering and pagination."),
		mcp.WithNumber("page", mcp.Description("Page number"), mcp.DefaultNumber(1), mcp.Min(1)),
		mcp.WithNumber("perPage", mcp.Description("Results per page"), mcp.DefaultNumber(10), mcp.Min(1), mcp.Max(100)),
		mcp.WithString("status", mcp.Description("Filter by status (e.g. publish, draft, any)"), mcp.DefaultString("any")),
		mcp.WithString("search", mcp.Description("Search term")),
		mcp.WithNumber("author", mcp.Description("Filter by author ID")),
		mcp.WithArray("categories", mcp.Description("Filter by category IDs"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithArray("tags", mcp.Description("Filter by tag IDs"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithString("orderBy", mcp.Description("Sort field"), mcp.DefaultString("date"),
			mcp.Enum("date", "modified", "title", "id", "author", "slug")),
		mcp.WithString("order", mcp.Description("Sort direction"), mcp.DefaultString("desc"), mcp.Enum("asc", "desc")),
		mcp.WithString("after", mcp.Description("Only posts published after this ISO-8601 date")),
		mcp.WithString("before", mcp.Description("Only posts published before this ISO-8601 date")),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("list_post_revisions",
		mcp.WithDescription("List the stored revisions of a post."),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post ID")),
	), s.listPostRevisions)
}

func (s *Server) createPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	post, err := s.wp.CreatePost(ctx, wordpress.CreatePostInput{
		Title:      title,
		Content:    content,
		Excerpt:    req.GetString("excerpt", ""),
		Status:     req.GetString("status", "draft"),
		Slug:       req.GetString("slug", ""),
		Categories: req.GetIntSlice("categories", nil),
		Tags:       req.GetIntSlice("tags", nil),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(post), nil
}

func (s *Server) getPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("postId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	post, err := s.wp.GetPost(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(post), nil
}

// optString returns a pointer only when the argument was actually given,
// so omitted fields stay untouched on the remote resource.
func optString(req mcp.CallToolRequest, key string) *string {
	args := req.GetArguments()
	if _, ok := args[key]; !ok {
		return nil
	}
	v := req.GetString(key, "")
	return &v
}

func optInt(req mcp.CallToolRequest, key string) *int {
	args := req.GetArguments()
	if _, ok := args[key]; !ok {
		return nil
	}
	v := req.GetInt(key, 0)
	return &v
}

func (s *Server) updatePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("postId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := wordpress.UpdatePostInput{
		Title:   optString(req, "title"),
		Content: optString(req, "content"),
		Excerpt: optString(req, "excerpt"),
		Status:  optString(req, "status"),
		Slug:    optString(req, "slug"),
	}
	if _, ok := req.GetArguments()["categories"]; ok {
		in.Categories = req.GetIntSlice("categories", []int{})
	}
	if _, ok := req.GetArguments()["tags"]; ok {
		in.Tags = req.GetIntSlice("tags", []int{})
	}

	post, err := s.wp.UpdatePost(ctx, id, in)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(post), nil
}

func (s *Server) deletePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("postId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.wp.DeletePost(ctx, id, req.GetBool("force", false))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.wp.ListPosts(ctx, wordpress.ListPostsInput{
		Page:       req.GetInt("page", 1),
		PerPage:    req.GetInt("perPage", 10),
		Status:     req.GetString("status", "any"),
		Search:     req.GetString("search", ""),
		Author:     req.GetInt("author", 0),
		Categories: req.GetIntSlice("categories", nil),
		Tags:       req.GetIntSlice("tags", nil),
		OrderBy:    req.GetString("orderBy", "date"),
		Order:      req.GetString("order", "desc"),
		After:      req.GetString("after", ""),
		Before:     req.GetString("before", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(list), nil
}

func (s *Server) listPostRevisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("postId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	revs, err := s.wp.ListPostRevisions(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"revisions": revs}), nil
}
