package wordpress

import (
	"context"
	"reflect"
	"testing"

	"github.com/tessirov/pressgate/internal/apperr"
	"github.com/tessirov/pressgate/internal/testutil"
)

func TestMergeCategoriesRewritesPosts(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	src := site.SeedTerm("category", "old")
	tgt := site.SeedTerm("category", "new")
	other := site.SeedTerm("category", "other")

	p1 := site.SeedPost("one", "body", []int{src}, nil)
	p2 := site.SeedPost("two", "body", []int{src, other}, nil)
	p3 := site.SeedPost("three", "body", []int{src, tgt}, nil)

	res, err := c.MergeCategories(context.Background(), MergeCategoriesInput{
		SourceID: src, TargetID: tgt, DeleteSource: true,
	})
	if err != nil {
		t.Fatalf("MergeCategories: %v", err)
	}
	if res.MergedPosts != 3 {
		t.Errorf("mergedPosts = %d, want 3", res.MergedPosts)
	}
	if !res.SourceDeleted {
		t.Error("source should be deleted")
	}
	if site.TermExists(src) {
		t.Error("source term should be gone")
	}

	for _, tc := range []struct {
		id   int
		want []int
	}{
		{p1, []int{tgt}},
		{p2, []int{other, tgt}},
		{p3, []int{tgt}},
	} {
		p, _ := site.Post(tc.id)
		if !reflect.DeepEqual(p.Categories, tc.want) {
			t.Errorf("post %d categories = %v, want %v", tc.id, p.Categories, tc.want)
		}
	}
}

func TestMergeCategoriesNoPostsStillDeletesSource(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	src := site.SeedTerm("category", "empty")
	tgt := site.SeedTerm("category", "new")

	res, err := c.MergeCategories(context.Background(), MergeCategoriesInput{
		SourceID: src, TargetID: tgt, DeleteSource: true,
	})
	if err != nil {
		t.Fatalf("MergeCategories: %v", err)
	}
	if res.MergedPosts != 0 {
		t.Errorf("mergedPosts = %d, want 0", res.MergedPosts)
	}
	if !res.SourceDeleted {
		t.Error("source should still be deleted with zero posts")
	}
}

func TestMergeCategoriesSameIDsRejected(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.MergeCategories(context.Background(), MergeCategoriesInput{SourceID: 5, TargetID: 5})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestMergeCategoriesPartialFailureKeepsSource(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	src := site.SeedTerm("category", "old")
	tgt := site.SeedTerm("category", "new")

	ok1 := site.SeedPost("one", "body", []int{src}, nil)
	bad := site.SeedPost("two", "body", []int{src}, nil)
	site.FailPostUpdate[bad] = true

	res, err := c.MergeCategories(context.Background(), MergeCategoriesInput{
		SourceID: src, TargetID: tgt, DeleteSource: true,
	})
	if err != nil {
		t.Fatalf("MergeCategories: %v", err)
	}
	if res.MergedPosts != 1 {
		t.Errorf("mergedPosts = %d, want 1", res.MergedPosts)
	}
	if len(res.Failed) != 1 || res.Failed[0].ID != bad {
		t.Errorf("failed = %v", res.Failed)
	}
	if res.SourceDeleted || !site.TermExists(src) {
		t.Error("source must survive a partial failure")
	}
	if p, _ := site.Post(ok1); !reflect.DeepEqual(p.Categories, []int{tgt}) {
		t.Errorf("migrated post categories = %v", p.Categories)
	}
}

func TestBulkAssignUnionsExisting(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	a := site.SeedTerm("category", "a")
	b := site.SeedTerm("category", "b")
	p := site.SeedPost("one", "body", []int{a}, nil)

	res, err := c.BulkAssignTerms(context.Background(), BulkAssignInput{
		PostIDs: []int{p}, TermIDs: []int{b, b, a}, Taxonomy: TaxCategories,
	})
	if err != nil {
		t.Fatalf("BulkAssignTerms: %v", err)
	}
	if len(res.Updated) != 1 {
		t.Fatalf("updated = %v", res.Updated)
	}
	got, _ := site.Post(p)
	if !reflect.DeepEqual(got.Categories, []int{a, b}) {
		t.Errorf("categories = %v, want union [%d %d]", got.Categories, a, b)
	}
}

func TestBulkAssignReplaceSkipsRefetch(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	a := site.SeedTerm("post_tag", "a")
	b := site.SeedTerm("post_tag", "b")
	p := site.SeedPost("one", "body", nil, []int{a})

	before := site.Requests()
	res, err := c.BulkAssignTerms(context.Background(), BulkAssignInput{
		PostIDs: []int{p}, TermIDs: []int{b}, Taxonomy: TaxTags, ReplaceExisting: true,
	})
	if err != nil {
		t.Fatalf("BulkAssignTerms: %v", err)
	}
	if got := site.Requests() - before; got != 1 {
		t.Errorf("requests = %d, want 1 (no per-post refetch)", got)
	}
	if len(res.Updated) != 1 {
		t.Fatalf("updated = %v", res.Updated)
	}
	got, _ := site.Post(p)
	if !reflect.DeepEqual(got.Tags, []int{b}) {
		t.Errorf("tags = %v, want [%d]", got.Tags, b)
	}
}

func TestBulkAssignEmptyIDsRejected(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.BulkAssignTerms(context.Background(), BulkAssignInput{
		TermIDs: []int{1}, Taxonomy: TaxCategories,
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestCategoryCRUD(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	ctx := context.Background()

	term, err := c.CreateCategory(ctx, CreateTermInput{Name: "News"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if term.ID == 0 || term.Name != "News" {
		t.Errorf("term = %+v", term)
	}

	name := "Updates"
	term, err = c.UpdateCategory(ctx, term.ID, UpdateTermInput{Name: &name})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if term.Name != "Updates" {
		t.Errorf("name = %q", term.Name)
	}

	list, err := c.ListCategories(ctx, ListTermsInput{})
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(list.Terms) != 1 {
		t.Errorf("terms = %v", list.Terms)
	}

	res, err := c.DeleteCategory(ctx, term.ID)
	if err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if !res.Deleted {
		t.Error("term delete should be forced")
	}
}

func TestCreateTermRequiresName(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.CreateTag(context.Background(), CreateTermInput{})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestListTaxonomiesSorted(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	taxes, err := c.ListTaxonomies(context.Background())
	if err != nil {
		t.Fatalf("ListTaxonomies: %v", err)
	}
	if len(taxes) != 2 {
		t.Fatalf("taxonomies = %v", taxes)
	}
	if taxes[0].Slug != "category" || taxes[1].Slug != "post_tag" {
		t.Errorf("order = %s, %s", taxes[0].Slug, taxes[1].Slug)
	}
	if !taxes[0].Hierarchical {
		t.Error("category should be hierarchical")
	}
}

func TestRewriteTerms(t *testing.T) {
	cases := []struct {
		existing  []int
		drop, add int
		want      []int
	}{
		{[]int{1}, 1, 2, []int{2}},
		{[]int{1, 3}, 1, 2, []int{3, 2}},
		{[]int{1, 2}, 1, 2, []int{2}},
		{[]int{2, 2, 1}, 1, 2, []int{2}},
		{nil, 1, 2, []int{2}},
	}
	for _, tc := range cases {
		if got := rewriteTerms(tc.existing, tc.drop, tc.add); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("rewriteTerms(%v, %d, %d) = %v, want %v", tc.existing, tc.drop, tc.add, got, tc.want)
		}
	}
}
