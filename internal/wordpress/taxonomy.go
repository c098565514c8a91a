package wordpress

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Taxonomy endpoint bases under wp/v2.
const (
	TaxCategories = "categories"
	TaxTags       = "tags"
)

// ListTermsInput paginates and filters a category or tag listing.
type ListTermsInput struct {
	Page      int
	PerPage   int
	Search    string
	OrderBy   string
	Order     string
	HideEmpty bool
	Parent    int
}

func (in *ListTermsInput) normalize() {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.PerPage == 0 {
		in.PerPage = 10
	}
	if in.OrderBy == "" {
		in.OrderBy = "name"
	}
	if in.Order == "" {
		in.Order = "asc"
	}
}

// Validate rejects out-of-range parameters before any request is made.
func (in ListTermsInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Page, validation.Min(1)),
		validation.Field(&in.PerPage, validation.Min(1), validation.Max(100)),
		validation.Field(&in.Order, validation.In("asc", "desc")),
	)
}

// TermList is one page of terms plus header totals.
type TermList struct {
	Terms      []Term `json:"terms"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
}

func (c *Client) listTerms(ctx context.Context, base string, in ListTermsInput) (TermList, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return TermList{}, validationErr(err)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(in.Page))
	q.Set("per_page", strconv.Itoa(in.PerPage))
	q.Set("orderby", in.OrderBy)
	q.Set("order", in.Order)
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	if in.HideEmpty {
		q.Set("hide_empty", "true")
	}
	if in.Parent > 0 {
		q.Set("parent", strconv.Itoa(in.Parent))
	}

	var terms []Term
	h, err := c.do(ctx, http.MethodGet, "/"+base, q, nil, &terms)
	if err != nil {
		return TermList{}, err
	}
	total, pages := totalsFromHeader(h)
	return TermList{Terms: terms, Total: total, TotalPages: pages}, nil
}

// CreateTermInput carries the fields for a new category or tag. Parent is
// only honored for categories.
type CreateTermInput struct {
	Name        string
	Description string
	Slug        string
	Parent      int
}

// Validate checks the required name.
func (in CreateTermInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
	)
}

func (c *Client) createTerm(ctx context.Context, base string, in CreateTermInput) (Term, error) {
	if err := in.Validate(); err != nil {
		return Term{}, validationErr(err)
	}
	body := map[string]any{"name": in.Name}
	if in.Description != "" {
		body["description"] = in.Description
	}
	if in.Slug != "" {
		body["slug"] = in.Slug
	}
	if base == TaxCategories && in.Parent > 0 {
		body["parent"] = in.Parent
	}
	var term Term
	if _, err := c.do(ctx, http.MethodPost, "/"+base, nil, body, &term); err != nil {
		return Term{}, err
	}
	return term, nil
}

// UpdateTermInput is a partial term update.
type UpdateTermInput struct {
	Name        *string
	Description *string
	Slug        *string
	Parent      *int
}

func (c *Client) updateTerm(ctx context.Context, base string, id int, in UpdateTermInput) (Term, error) {
	if id <= 0 {
		return Term{}, validationErr(fmt.Errorf("term id must be positive"))
	}
	body := map[string]any{}
	if in.Name != nil {
		body["name"] = *in.Name
	}
	if in.Description != nil {
		body["description"] = *in.Description
	}
	if in.Slug != nil {
		body["slug"] = *in.Slug
	}
	if in.Parent != nil && base == TaxCategories {
		body["parent"] = *in.Parent
	}
	if len(body) == 0 {
		return Term{}, validationErr(fmt.Errorf("no fields to update"))
	}
	var term Term
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/%s/%d", base, id), nil, body, &term); err != nil {
		return Term{}, err
	}
	return term, nil
}

func (c *Client) deleteTerm(ctx context.Context, base string, id int) (DeleteResult, error) {
	if id <= 0 {
		return DeleteResult{}, validationErr(fmt.Errorf("term id must be positive"))
	}
	// WordPress only deletes terms with force=true.
	return c.deleteResource(ctx, fmt.Sprintf("/%s/%d", base, id), id, true)
}

// ListCategories fetches one page of categories.
func (c *Client) ListCategories(ctx context.Context, in ListTermsInput) (TermList, error) {
	return c.listTerms(ctx, TaxCategories, in)
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in CreateTermInput) (Term, error) {
	return c.createTerm(ctx, TaxCategories, in)
}

// UpdateCategory applies a partial update to a category.
func (c *Client) UpdateCategory(ctx context.Context, id int, in UpdateTermInput) (Term, error) {
	return c.updateTerm(ctx, TaxCategories, id, in)
}

// DeleteCategory removes a category. Posts keep their other categories.
func (c *Client) DeleteCategory(ctx context.Context, id int) (DeleteResult, error) {
	return c.deleteTerm(ctx, TaxCategories, id)
}

// ListTags fetches one page of tags.
func (c *Client) ListTags(ctx context.Context, in ListTermsInput) (TermList, error) {
	return c.listTerms(ctx, TaxTags, in)
}

// CreateTag creates a tag.
func (c *Client) CreateTag(ctx context.Context, in CreateTermInput) (Term, error) {
	return c.createTerm(ctx, TaxTags, in)
}

// UpdateTag applies a partial update to a tag.
func (c *Client) UpdateTag(ctx context.Context, id int, in UpdateTermInput) (Term, error) {
	return c.updateTerm(ctx, TaxTags, id, in)
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, id int) (DeleteResult, error) {
	return c.deleteTerm(ctx, TaxTags, id)
}

// MergeCategoriesInput parameterizes a category merge.
type MergeCategoriesInput struct {
	SourceID     int
	TargetID     int
	DeleteSource bool
}

// MergeResult reports a category merge. The per-post writes are sequential
// and non-transactional: Failed lists the posts left behind, and the source
// category is only deleted when every post migrated.
type MergeResult struct {
	MergedPosts   int           `json:"mergedPosts"`
	PostIDs       []int         `json:"postIds"`
	Failed        []BulkFailure `json:"failed,omitempty"`
	SourceDeleted bool          `json:"sourceDeleted"`
	DeleteError   string        `json:"deleteError,omitempty"`
}

// MergeCategories re-tags up to 100 posts from the source category onto the
// target, dropping the source ID and de-duplicating, then optionally
// deletes the source.
func (c *Client) MergeCategories(ctx context.Context, in MergeCategoriesInput) (MergeResult, error) {
	if in.SourceID <= 0 || in.TargetID <= 0 {
		return MergeResult{}, validationErr(fmt.Errorf("category ids must be positive"))
	}
	if in.SourceID == in.TargetID {
		return MergeResult{}, validationErr(fmt.Errorf("source and target categories must differ"))
	}

	list, err := c.ListPosts(ctx, ListPostsInput{
		Categories: []int{in.SourceID},
		PerPage:    100,
	})
	if err != nil {
		return MergeResult{}, err
	}

	result := MergeResult{PostIDs: []int{}}
	for _, post := range list.Posts {
		cats := rewriteTerms(post.Categories, in.SourceID, in.TargetID)
		if _, err := c.UpdatePost(ctx, post.ID, UpdatePostInput{Categories: cats}); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: post.ID, Error: err.Error()})
			continue
		}
		result.PostIDs = append(result.PostIDs, post.ID)
		result.MergedPosts++
	}

	if in.DeleteSource && len(result.Failed) == 0 {
		if _, err := c.DeleteCategory(ctx, in.SourceID); err != nil {
			result.DeleteError = err.Error()
		} else {
			result.SourceDeleted = true
		}
	}
	return result, nil
}

// rewriteTerms drops the source ID, ensures the target ID is present, and
// de-duplicates while preserving order.
func rewriteTerms(existing []int, drop, add int) []int {
	out := make([]int, 0, len(existing)+1)
	seen := map[int]bool{}
	for _, id := range existing {
		if id == drop || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if !seen[add] {
		out = append(out, add)
	}
	return out
}

// BulkAssignInput parameterizes a bulk term assignment across posts.
type BulkAssignInput struct {
	PostIDs []int
	TermIDs []int
	// Taxonomy is TaxCategories or TaxTags.
	Taxonomy string
	// ReplaceExisting replaces each post's term list outright and skips
	// the per-post refetch; otherwise the new IDs are unioned in.
	ReplaceExisting bool
}

// Validate rejects empty ID sets and unknown taxonomies before any request.
func (in BulkAssignInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PostIDs, validation.Required),
		validation.Field(&in.TermIDs, validation.Required),
		validation.Field(&in.Taxonomy, validation.Required, validation.In(TaxCategories, TaxTags)),
	)
}

// BulkAssignResult partitions a bulk assignment into updated and failed
// post IDs; one failure never aborts the batch.
type BulkAssignResult struct {
	Updated []int         `json:"updated"`
	Failed  []BulkFailure `json:"failed,omitempty"`
}

// BulkAssignTerms assigns categories or tags to each post in turn.
func (c *Client) BulkAssignTerms(ctx context.Context, in BulkAssignInput) (BulkAssignResult, error) {
	if err := in.Validate(); err != nil {
		return BulkAssignResult{}, validationErr(err)
	}

	result := BulkAssignResult{Updated: []int{}}
	for _, postID := range in.PostIDs {
		ids := dedupeInts(in.TermIDs)
		if !in.ReplaceExisting {
			post, err := c.GetPost(ctx, postID)
			if err != nil {
				result.Failed = append(result.Failed, BulkFailure{ID: postID, Error: err.Error()})
				continue
			}
			existing := post.Categories
			if in.Taxonomy == TaxTags {
				existing = post.Tags
			}
			ids = dedupeInts(append(existing, in.TermIDs...))
		}

		patch := UpdatePostInput{}
		if in.Taxonomy == TaxCategories {
			patch.Categories = ids
		} else {
			patch.Tags = ids
		}
		if _, err := c.UpdatePost(ctx, postID, patch); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: postID, Error: err.Error()})
			continue
		}
		result.Updated = append(result.Updated, postID)
	}
	return result, nil
}

func dedupeInts(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := map[int]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ListTaxonomies returns the registered taxonomies, sorted by slug.
func (c *Client) ListTaxonomies(ctx context.Context) ([]Taxonomy, error) {
	var raw map[string]struct {
		Name         string   `json:"name"`
		Description  string   `json:"description"`
		Types        []string `json:"types"`
		Hierarchical bool     `json:"hierarchical"`
		RestBase     string   `json:"rest_base"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/taxonomies", nil, nil, &raw); err != nil {
		return nil, err
	}

	out := make([]Taxonomy, 0, len(raw))
	for slug, doc := range raw {
		out = append(out, Taxonomy{
			Slug:         slug,
			Name:         doc.Name,
			Description:  doc.Description,
			Types:        doc.Types,
			Hierarchical: doc.Hierarchical,
			RestBase:     doc.RestBase,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}
