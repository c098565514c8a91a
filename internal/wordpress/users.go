package wordpress

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tessirov/pressgate/internal/apperr"
)

// ListUsersInput paginates and filters a user listing.
type ListUsersInput struct {
	Page    int
	PerPage int
	Search  string
	Roles   []string
	OrderBy string
	Order   string
}

func (in *ListUsersInput) normalize() {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.PerPage == 0 {
		in.PerPage = 10
	}
	if in.OrderBy == "" {
		in.OrderBy = "registered_date"
	}
	if in.Order == "" {
		in.Order = "desc"
	}
}

// Validate rejects out-of-range parameters before any request is made.
func (in ListUsersInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Page, validation.Min(1)),
		validation.Field(&in.PerPage, validation.Min(1), validation.Max(100)),
		validation.Field(&in.Order, validation.In("asc", "desc")),
	)
}

// UserList is one page of users plus header totals.
type UserList struct {
	Users      []User `json:"users"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
}

// ListUsers fetches one page of users. Roles and email fields need
// edit-context permissions, which the authenticated account provides.
func (c *Client) ListUsers(ctx context.Context, in ListUsersInput) (UserList, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return UserList{}, validationErr(err)
	}

	q := url.Values{"context": {"edit"}}
	q.Set("page", strconv.Itoa(in.Page))
	q.Set("per_page", strconv.Itoa(in.PerPage))
	q.Set("orderby", in.OrderBy)
	q.Set("order", in.Order)
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	if len(in.Roles) > 0 {
		q.Set("roles", strings.Join(in.Roles, ","))
	}

	var users []User
	h, err := c.do(ctx, http.MethodGet, "/users", q, nil, &users)
	if err != nil {
		return UserList{}, err
	}
	total, pages := totalsFromHeader(h)
	return UserList{Users: users, Total: total, TotalPages: pages}, nil
}

// GetUser fetches a single user by ID.
func (c *Client) GetUser(ctx context.Context, id int) (User, error) {
	if id <= 0 {
		return User{}, validationErr(fmt.Errorf("user id must be positive"))
	}
	var user User
	q := url.Values{"context": {"edit"}}
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), q, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// CreateUserInput carries the fields for a new account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Roles    []string
}

// Validate checks the required account fields.
func (in CreateUserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required),
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}

// CreateUser creates a user account.
func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	if err := in.Validate(); err != nil {
		return User{}, validationErr(err)
	}
	body := map[string]any{
		"username": in.Username,
		"email":    in.Email,
		"password": in.Password,
	}
	if in.Name != "" {
		body["name"] = in.Name
	}
	if len(in.Roles) > 0 {
		body["roles"] = in.Roles
	}
	var user User
	if _, err := c.do(ctx, http.MethodPost, "/users", nil, body, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// UpdateUserInput is a partial account update.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Roles    []string
}

// UpdateUser applies a partial update to a user account.
func (c *Client) UpdateUser(ctx context.Context, id int, in UpdateUserInput) (User, error) {
	if id <= 0 {
		return User{}, validationErr(fmt.Errorf("user id must be positive"))
	}
	body := map[string]any{}
	if in.Name != nil {
		body["name"] = *in.Name
	}
	if in.Email != nil {
		body["email"] = *in.Email
	}
	if in.Password != nil {
		body["password"] = *in.Password
	}
	if in.Roles != nil {
		body["roles"] = in.Roles
	}
	if len(body) == 0 {
		return User{}, validationErr(fmt.Errorf("no fields to update"))
	}
	var user User
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, body, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// DeleteUser removes a user account. WordPress requires forced deletion
// for users; content is reassigned to the given user ID when positive.
func (c *Client) DeleteUser(ctx context.Context, id, reassign int) (DeleteResult, error) {
	if id <= 0 {
		return DeleteResult{}, validationErr(fmt.Errorf("user id must be positive"))
	}
	q := url.Values{"force": {"true"}}
	if reassign > 0 {
		q.Set("reassign", strconv.Itoa(reassign))
	}
	var envelope struct {
		Deleted bool `json:"deleted"`
	}
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), q, nil, &envelope); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{ID: id, Deleted: envelope.Deleted}, nil
}

// ResetUserPasswordInput parameterizes a password reset. When UserID is
// zero the account is resolved by searching for Email and taking the first
// match, which is ambiguous when several accounts share the term.
type ResetUserPasswordInput struct {
	UserID      int
	Email       string
	NewPassword string
	// RevealPassword opts in to echoing a locally generated password back
	// to the caller. Without it a generated password would be unrecoverable,
	// so the combination is rejected up front.
	RevealPassword bool
}

// ResetPasswordResult reports a completed reset. Password is only set when
// it was generated locally and the caller opted in to seeing it.
type ResetPasswordResult struct {
	UserID    int    `json:"userId"`
	Generated bool   `json:"generated"`
	Password  string `json:"password,omitempty"`
}

// ResetUserPassword sets a new password on an account, generating a
// 12-character alphanumeric one when none is supplied.
func (c *Client) ResetUserPassword(ctx context.Context, in ResetUserPasswordInput) (ResetPasswordResult, error) {
	if in.UserID <= 0 && in.Email == "" {
		return ResetPasswordResult{}, apperr.Validation("either userId or email is required")
	}
	if in.NewPassword == "" && !in.RevealPassword {
		return ResetPasswordResult{}, apperr.Validation("a generated password is only returned with revealPassword=true; pass newPassword or opt in")
	}

	userID := in.UserID
	if userID <= 0 {
		list, err := c.ListUsers(ctx, ListUsersInput{Search: in.Email, PerPage: 10})
		if err != nil {
			return ResetPasswordResult{}, err
		}
		if len(list.Users) == 0 {
			return ResetPasswordResult{}, apperr.Validation("no user found matching %q", in.Email)
		}
		userID = list.Users[0].ID
	}

	password := in.NewPassword
	generated := false
	if password == "" {
		p, err := randomPassword(12)
		if err != nil {
			return ResetPasswordResult{}, apperr.Wrap(err)
		}
		password = p
		generated = true
	}

	if _, err := c.UpdateUser(ctx, userID, UpdateUserInput{Password: &password}); err != nil {
		return ResetPasswordResult{}, err
	}

	result := ResetPasswordResult{UserID: userID, Generated: generated}
	if generated && in.RevealPassword {
		result.Password = password
	}
	return result, nil
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomPassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// SetUserRoleInput parameterizes a role change.
type SetUserRoleInput struct {
	UserID int
	Role   string
	// RemoveOtherRoles replaces the entire role array with [Role];
	// otherwise a single role field is sent. The two payload shapes are
	// mutually exclusive on the WordPress side.
	RemoveOtherRoles bool
}

// SetUserRole assigns a role to a user.
func (c *Client) SetUserRole(ctx context.Context, in SetUserRoleInput) (User, error) {
	if in.UserID <= 0 {
		return User{}, validationErr(fmt.Errorf("user id must be positive"))
	}
	if in.Role == "" {
		return User{}, validationErr(fmt.Errorf("role is required"))
	}

	var body map[string]any
	if in.RemoveOtherRoles {
		body = map[string]any{"roles": []string{in.Role}}
	} else {
		body = map[string]any{"role": in.Role}
	}

	var user User
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", in.UserID), nil, body, &user); err != nil {
		return User{}, err
	}
	return user, nil
}
