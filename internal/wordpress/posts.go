package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ListPostsInput filters and paginates a post listing.
type ListPostsInput struct {
	Page       int
	PerPage    int
	Status     string
	Search     string
	Author     int
	Categories []int
	Tags       []int
	OrderBy    string
	Order      string
	After      string // ISO-8601 lower bound on publish date
	Before     string // ISO-8601 upper bound on publish date
}

func (in *ListPostsInput) normalize() {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.PerPage == 0 {
		in.PerPage = 10
	}
	// WordPress defaults an absent status filter to publish-only, which
	// would hide drafts from listings. Ask for everything unless told
	// otherwise.
	if in.Status == "" {
		in.Status = "any"
	}
	if in.OrderBy == "" {
		in.OrderBy = "date"
	}
	if in.Order == "" {
		in.Order = "desc"
	}
}

// Validate rejects out-of-range parameters before any request is made.
func (in ListPostsInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Page, validation.Min(1)),
		validation.Field(&in.PerPage, validation.Min(1), validation.Max(100)),
		validation.Field(&in.Order, validation.In("asc", "desc")),
	)
}

// PostList is one page of posts plus the totals WordPress reports in its
// pagination headers.
type PostList struct {
	Posts      []Post `json:"posts"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
}

// ListPosts fetches one page of posts.
func (c *Client) ListPosts(ctx context.Context, in ListPostsInput) (PostList, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return PostList{}, validationErr(err)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(in.Page))
	q.Set("per_page", strconv.Itoa(in.PerPage))
	q.Set("orderby", in.OrderBy)
	q.Set("order", in.Order)
	q.Set("status", in.Status)
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	if in.Author > 0 {
		q.Set("author", strconv.Itoa(in.Author))
	}
	if len(in.Categories) > 0 {
		q.Set("categories", joinInts(in.Categories))
	}
	if len(in.Tags) > 0 {
		q.Set("tags", joinInts(in.Tags))
	}
	if in.After != "" {
		q.Set("after", in.After)
	}
	if in.Before != "" {
		q.Set("before", in.Before)
	}

	var posts []Post
	h, err := c.do(ctx, http.MethodGet, "/posts", q, nil, &posts)
	if err != nil {
		return PostList{}, err
	}
	total, pages := totalsFromHeader(h)
	return PostList{Posts: posts, Total: total, TotalPages: pages}, nil
}

// CreatePostInput carries the fields for a new post. Status defaults to
// draft.
type CreatePostInput struct {
	Title      string
	Content    string
	Excerpt    string
	Status     string
	Slug       string
	Categories []int
	Tags       []int
}

func (in *CreatePostInput) normalize() {
	if in.Status == "" {
		in.Status = "draft"
	}
}

// Validate checks required fields and the status enum.
func (in CreatePostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Status, validation.In("draft", "publish", "pending", "private", "future")),
	)
}

// CreatePost creates a post and returns its simplified view.
func (c *Client) CreatePost(ctx context.Context, in CreatePostInput) (Post, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return Post{}, validationErr(err)
	}

	body := map[string]any{
		"title":   in.Title,
		"content": in.Content,
		"status":  in.Status,
	}
	if in.Excerpt != "" {
		body["excerpt"] = in.Excerpt
	}
	if in.Slug != "" {
		body["slug"] = in.Slug
	}
	if len(in.Categories) > 0 {
		body["categories"] = in.Categories
	}
	if len(in.Tags) > 0 {
		body["tags"] = in.Tags
	}

	var post Post
	if _, err := c.do(ctx, http.MethodPost, "/posts", nil, body, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// GetPost fetches a single post by ID.
func (c *Client) GetPost(ctx context.Context, id int) (Post, error) {
	if id <= 0 {
		return Post{}, validationErr(fmt.Errorf("post id must be positive"))
	}
	var post Post
	q := url.Values{"context": {"edit"}}
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), q, nil, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// UpdatePostInput is a partial update; nil pointer fields and nil slices
// are left untouched on the remote post.
type UpdatePostInput struct {
	Title      *string
	Content    *string
	Excerpt    *string
	Status     *string
	Slug       *string
	Categories []int
	Tags       []int
}

func (in UpdatePostInput) body() map[string]any {
	body := map[string]any{}
	if in.Title != nil {
		body["title"] = *in.Title
	}
	if in.Content != nil {
		body["content"] = *in.Content
	}
	if in.Excerpt != nil {
		body["excerpt"] = *in.Excerpt
	}
	if in.Status != nil {
		body["status"] = *in.Status
	}
	if in.Slug != nil {
		body["slug"] = *in.Slug
	}
	if in.Categories != nil {
		body["categories"] = in.Categories
	}
	if in.Tags != nil {
		body["tags"] = in.Tags
	}
	return body
}

// UpdatePost applies a partial update to a post.
func (c *Client) UpdatePost(ctx context.Context, id int, in UpdatePostInput) (Post, error) {
	if id <= 0 {
		return Post{}, validationErr(fmt.Errorf("post id must be positive"))
	}
	body := in.body()
	if len(body) == 0 {
		return Post{}, validationErr(fmt.Errorf("no fields to update"))
	}
	var post Post
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), nil, body, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// DeleteResult reports a deletion. When force was false the resource was
// only trashed and Deleted stays false.
type DeleteResult struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}

// DeletePost deletes (force) or trashes a post.
func (c *Client) DeletePost(ctx context.Context, id int, force bool) (DeleteResult, error) {
	if id <= 0 {
		return DeleteResult{}, validationErr(fmt.Errorf("post id must be positive"))
	}
	return c.deleteResource(ctx, fmt.Sprintf("/posts/%d", id), id, force)
}

// deleteResource handles the two response shapes of a WordPress DELETE:
// `{"deleted":true,"previous":{...}}` when forced, the trashed resource
// otherwise.
func (c *Client) deleteResource(ctx context.Context, path string, id int, force bool) (DeleteResult, error) {
	q := url.Values{"force": {strconv.FormatBool(force)}}
	var raw json.RawMessage
	if _, err := c.do(ctx, http.MethodDelete, path, q, nil, &raw); err != nil {
		return DeleteResult{}, err
	}
	var envelope struct {
		Deleted bool `json:"deleted"`
	}
	_ = json.Unmarshal(raw, &envelope)
	return DeleteResult{ID: id, Deleted: envelope.Deleted}, nil
}

// ListPostRevisions returns the stored revisions of a post, newest first.
func (c *Client) ListPostRevisions(ctx context.Context, postID int) ([]Revision, error) {
	if postID <= 0 {
		return nil, validationErr(fmt.Errorf("post id must be positive"))
	}
	var revs []Revision
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/revisions", postID), nil, nil, &revs); err != nil {
		return nil, err
	}
	return revs, nil
}
