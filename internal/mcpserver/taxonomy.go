package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tessirov/pressgate/internal/wordpress"
)

func (s *Server) registerTaxonomyTools() {
	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List categories with pagination and search."),
		mcp.WithNumber("page", mcp.Description("Page number"), mcp.DefaultNumber(1), mcp.Min(1)),
		mcp.WithNumber("perPage", mcp.Description("Results per page"), mcp.DefaultNumber(10), mcp.Min(1), mcp.Max(100)),
		mcp.WithString("search", mcp.Description("Search term")),
		mcp.WithBoolean("hideEmpty", mcp.Description("Only terms assigned to at least one post"), mcp.DefaultBool(false)),
		mcp.WithNumber("parent", mcp.Description("Filter by parent category ID")),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("create_category",
		mcp.WithDescription("Create a category."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Category name")),
		mcp.WithString("description", mcp.Description("Category description")),
		mcp.WithString("slug", mcp.Description("URL slug")),
		mcp.WithNumber("parent", mcp.Description("Parent category ID")),
	), s.createCategory)

	s.mcp.AddTool(mcp.NewTool("update_category",
		mcp.WithDescription("Update a category. Omitted fields are left untouched."),
		mcp.WithNumber("categoryId", mcp.Required(), mcp.Description("Category ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("slug", mcp.Description("New slug")),
		mcp.WithNumber("parent", mcp.Description("New parent ID")),
	), s.updateCategory)

	s.mcp.AddTool(mcp.NewTool("delete_category",
		mcp.WithDescription("Delete a category permanently. Posts keep their other categories."),
		mcp.WithNumber("categoryId", mcp.Required(), mcp.Description("Category ID")),
	), s.deleteCategory)

	s.mcp.AddTool(mcp.NewTool("merge_categories",
		mcp.WithDescription("Reassign every post from a source category to a target category, optionally deleting the source afterwards."),
		mcp.WithNumber("sourceId", mcp.Required(), mcp.Description("Category to merge away")),
		mcp.WithNumber("targetId", mcp.Required(), mcp.Description("Category that receives the posts")),
		mcp.WithBoolean("deleteSource", mcp.Description("Delete the source category when every post was moved"), mcp.DefaultBool(true)),
	), s.mergeCategories)

	s.mcp.AddTool(mcp.NewTool("bulk_assign_categories",
		mcp.WithDescription("Assign categories to several posts at once."),
		mcp.WithArray("postIds", mcp.Required(), mcp.Description("Posts to update"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithArray("categoryIds", mcp.Required(), mcp.Description("Categories to assign"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithBoolean("replaceExisting", mcp.Description("Replace existing categories instead of adding"), mcp.DefaultBool(false)),
	), s.bulkAssignCategories)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List tags with pagination and search."),
		mcp.WithNumber("page", mcp.Description("Page number"), mcp.DefaultNumber(1), mcp.Min(1)),
		mcp.WithNumber("perPage", mcp.Description("Results per page"), mcp.DefaultNumber(10), mcp.Min(1), mcp.Max(100)),
		mcp.WithString("search", mcp.Description("Search term")),
		mcp.WithBoolean("hideEmpty", mcp.Description("Only terms assigned to at least one post"), mcp.DefaultBool(false)),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("create_tag",
		mcp.WithDescription("Create a tag."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Tag name")),
		mcp.WithString("description", mcp.Description("Tag description")),
		mcp.WithString("slug", mcp.Description("URL slug")),
	), s.createTag)

	s.mcp.AddTool(mcp.NewTool("update_tag",
		mcp.WithDescription("Update a tag. Omitted fields are left untouched."),
		mcp.WithNumber("tagId", mcp.Required(), mcp.Description("Tag ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("slug", mcp.Description("New slug")),
	), s.updateTag)

	s.mcp.AddTool(mcp.NewTool("delete_tag",
		mcp.WithDescription("Delete a tag permanently."),
		mcp.WithNumber("tagId", mcp.Required(), mcp.Description("Tag ID")),
	), s.deleteTag)

	s.mcp.AddTool(mcp.NewTool("bulk_assign_tags",
		mcp.WithDescription("Assign tags to several posts at once."),
		mcp.WithArray("postIds", mcp.Required(), mcp.Description("Posts to update"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithArray("tagIds", mcp.Required(), mcp.Description("Tags to assign"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithBoolean("replaceExisting", mcp.Description("Replace existing tags instead of adding"), mcp.DefaultBool(false)),
	), s.bulkAssignTags)

	s.mcp.AddTool(mcp.NewTool("list_taxonomies",
		mcp.WithDescription("List all registered taxonomies, including custom ones."),
	), s.listTaxonomies)
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.wp.ListCategories(ctx, wordpress.ListTermsInput{
		Page:      req.GetInt("page", 1),
		PerPage:   req.GetInt("perPage", 10),
		Search:    req.GetString("search", ""),
		HideEmpty: req.GetBool("hideEmpty", false),
		Parent:    req.GetInt("parent", 0),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(list), nil
}

func (s *Server) createCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	term, err := s.wp.CreateCategory(ctx, wordpress.CreateTermInput{
		Name:        name,
		Description: req.GetString("description", ""),
		Slug:        req.GetString("slug", ""),
		Parent:      req.GetInt("parent", 0),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(term), nil
}

func (s *Server) updateCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("categoryId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	term, err := s.wp.UpdateCategory(ctx, id, wordpress.UpdateTermInput{
		Name:        optString(req, "name"),
		Description: optString(req, "description"),
		Slug:        optString(req, "slug"),
		Parent:      optInt(req, "parent"),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(term), nil
}

func (s *Server) deleteCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("categoryId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.wp.DeleteCategory(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) mergeCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireInt("sourceId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := req.RequireInt("targetId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.wp.MergeCategories(ctx, wordpress.MergeCategoriesInput{
		SourceID:     source,
		TargetID:     target,
		DeleteSource: req.GetBool("deleteSource", true),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) bulkAssignCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.wp.BulkAssignTerms(ctx, wordpress.BulkAssignInput{
		PostIDs:         req.GetIntSlice("postIds", nil),
		TermIDs:         req.GetIntSlice("categoryIds", nil),
		Taxonomy:        wordpress.TaxCategories,
		ReplaceExisting: req.GetBool("replaceExisting", false),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.wp.ListTags(ctx, wordpress.ListTermsInput{
		Page:      req.GetInt("page", 1),
		PerPage:   req.GetInt("perPage", 10),
		Search:    req.GetString("search", ""),
		HideEmpty: req.GetBool("hideEmpty", false),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(list), nil
}

func (s *Server) createTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	term, err := s.wp.CreateTag(ctx, wordpress.CreateTermInput{
		Name:        name,
		Description: req.GetString("description", ""),
		Slug:        req.GetString("slug", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(term), nil
}

func (s *Server) updateTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("tagId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	term, err := s.wp.UpdateTag(ctx, id, wordpress.UpdateTermInput{
		Name:        optString(req, "name"),
		Description: optString(req, "description"),
		Slug:        optString(req, "slug"),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(term), nil
}

func (s *Server) deleteTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("tagId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.wp.DeleteTag(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) bulkAssignTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.wp.BulkAssignTerms(ctx, wordpress.BulkAssignInput{
		PostIDs:         req.GetIntSlice("postIds", nil),
		TermIDs:         req.GetIntSlice("tagIds", nil),
		Taxonomy:        wordpress.TaxTags,
		ReplaceExisting: req.GetBool("replaceExisting", false),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) listTaxonomies(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taxes, err := s.wp.ListTaxonomies(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"taxonomies": taxes}), nil
}
