package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tessirov/pressgate/internal/wordpress"
)

func (s *Server) registerUserTools() {
	s.mcp.AddTool(mcp.NewTool("list_users",
		mcp.WithDescription("List user accounts. Requires a role that may list users."),
		mcp.WithNumber("page", mcp.Description("Page number"), mcp.DefaultNumber(1), mcp.Min(1)),
		mcp.WithNumber("perPage", mcp.Description("Results per page"), mcp.DefaultNumber(10), mcp.Min(1), mcp.Max(100)),
		mcp.WithString("search", mcp.Description("Search term")),
		mcp.WithArray("roles", mcp.Description("Filter by role slugs"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("orderBy", mcp.Description("Sort field"), mcp.DefaultString("registered_date"),
			mcp.Enum("id", "name", "registered_date", "email", "url")),
		mcp.WithString("order", mcp.Description("Sort direction"), mcp.DefaultString("desc"), mcp.Enum("asc", "desc")),
	), s.listUsers)

	s.mcp.AddTool(mcp.NewTool("get_user",
		mcp.WithDescription("Fetch a user account by ID."),
		mcp.WithNumber("userId", mcp.Required(), mcp.Description("User ID")),
	), s.getUser)

	s.mcp.AddTool(mcp.NewTool("create_user",
		mcp.WithDescription("Create a user account."),
		mcp.WithString("username", mcp.Required(), mcp.Description("Login name")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Email address")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Initial password")),
		mcp.WithString("name", mcp.Description("Display name")),
		mcp.WithArray("roles", mcp.Description("Role slugs, e.g. [\"editor\"]"), mcp.Items(map[string]any{"type": "string"})),
	), s.createUser)

	s.mcp.AddTool(mcp.NewTool("update_user",
		mcp.WithDescription("Update a user account. Omitted fields are left untouched."),
		mcp.WithNumber("userId", mcp.Required(), mcp.Description("User ID")),
		mcp.WithString("name", mcp.Description("New display name")),
		mcp.WithString("email", mcp.Description("New email address")),
		mcp.WithString("password", mcp.Description("New password")),
		mcp.WithArray("roles", mcp.Description("Replacement role slugs"), mcp.Items(map[string]any{"type": "string"})),
	), s.updateUser)

	s.mcp.AddTool(mcp.NewTool("delete_user",
		mcp.WithDescription("Delete a user account, reassigning their content to another user."),
		mcp.WithNumber("userId", mcp.Required(), mcp.Description("User ID")),
		mcp.WithNumber("reassign", mcp.Description("User ID that inherits the deleted user's content")),
	), s.deleteUser)

	s.mcp.AddTool(mcp.NewTool("reset_user_password",
		mcp.WithDescription("Set a new password for a user, identified by ID or email. Without newPassword one is generated, which requires revealPassword=true."),
		mcp.WithNumber("userId", mcp.Description("User ID")),
		mcp.WithString("email", mcp.Description("Email address, used when userId is omitted")),
		mcp.WithString("newPassword", mcp.Description("Password to set; omit to generate one")),
		mcp.WithBoolean("revealPassword", mcp.Description("Return a generated password in the result"), mcp.DefaultBool(false)),
	), s.resetUserPassword)

	s.mcp.AddTool(mcp.NewTool("set_user_role",
		mcp.WithDescription("Assign a role to a user, optionally removing their other roles."),
		mcp.WithNumber("userId", mcp.Required(), mcp.Description("User ID")),
		mcp.WithString("role", mcp.Required(), mcp.Description("Role slug"),
			mcp.Enum("administrator", "editor", "author", "contributor", "subscriber")),
		mcp.WithBoolean("removeOtherRoles", mcp.Description("Replace all roles instead of adding"), mcp.DefaultBool(false)),
	), s.setUserRole)
}

func (s *Server) listUsers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.wp.ListUsers(ctx, wordpress.ListUsersInput{
		Page:    req.GetInt("page", 1),
		PerPage: req.GetInt("perPage", 10),
		Search:  req.GetString("search", ""),
		Roles:   req.GetStringSlice("roles", nil),
		OrderBy: req.GetString("orderBy", "registered_date"),
		Order:   req.GetString("order", "desc"),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(list), nil
}

func (s *Server) getUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("userId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	user, err := s.wp.GetUser(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(user), nil
}

func (s *Server) createUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email, err := req.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	password, err := req.RequireString("password")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	user, err := s.wp.CreateUser(ctx, wordpress.CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		Name:     req.GetString("name", ""),
		Roles:    req.GetStringSlice("roles", nil),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(user), nil
}

func (s *Server) updateUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("userId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := wordpress.UpdateUserInput{
		Name:     optString(req, "name"),
		Email:    optString(req, "email"),
		Password: optString(req, "password"),
	}
	if _, ok := req.GetArguments()["roles"]; ok {
		in.Roles = req.GetStringSlice("roles", []string{})
	}
	user, err := s.wp.UpdateUser(ctx, id, in)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(user), nil
}

func (s *Server) deleteUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("userId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.wp.DeleteUser(ctx, id, req.GetInt("reassign", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) resetUserPassword(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.wp.ResetUserPassword(ctx, wordpress.ResetUserPasswordInput{
		UserID:         req.GetInt("userId", 0),
		Email:          req.GetString("email", ""),
		NewPassword:    req.GetString("newPassword", ""),
		RevealPassword: req.GetBool("revealPassword", false),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) setUserRole(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("userId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	role, err := req.RequireString("role")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	user, err := s.wp.SetUserRole(ctx, wordpress.SetUserRoleInput{
		UserID:           id,
		Role:             role,
		RemoveOtherRoles: req.GetBool("removeOtherRoles", false),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(user), nil
}
