package wordpress

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Rendered flattens the WordPress `{"rendered": "..."}` wrapper objects
// used for title/content/excerpt/caption/description fields into plain
// strings. Plain string values decode as-is.
type Rendered string

func (r *Rendered) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*r = Rendered(plain)
		return nil
	}
	var wrapped struct {
		Rendered string `json:"rendered"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*r = Rendered(wrapped.Rendered)
	return nil
}

// Post is the simplified view of a WordPress post.
type Post struct {
	ID         int      `json:"id"`
	Date       string   `json:"date"`
	Modified   string   `json:"modified,omitempty"`
	Slug       string   `json:"slug"`
	Status     string   `json:"status"`
	Link       string   `json:"link"`
	Title      Rendered `json:"title"`
	Content    Rendered `json:"content,omitempty"`
	Excerpt    Rendered `json:"excerpt,omitempty"`
	Author     int      `json:"author"`
	Categories []int    `json:"categories"`
	Tags       []int    `json:"tags"`
}

// Revision is a stored revision of a post.
type Revision struct {
	ID       int      `json:"id"`
	Parent   int      `json:"parent"`
	Author   int      `json:"author"`
	Date     string   `json:"date"`
	Modified string   `json:"modified,omitempty"`
	Title    Rendered `json:"title"`
}

// Term is a category or tag. Parent is only meaningful for categories.
type Term struct {
	ID          int    `json:"id"`
	Count       int    `json:"count"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Taxonomy    string `json:"taxonomy"`
	Parent      int    `json:"parent,omitempty"`
	Link        string `json:"link,omitempty"`
}

// User is the simplified view of a WordPress user account.
type User struct {
	ID             int      `json:"id"`
	Username       string   `json:"username,omitempty"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Email          string   `json:"email,omitempty"`
	Roles          []string `json:"roles,omitempty"`
	RegisteredDate string   `json:"registered_date,omitempty"`
	Link           string   `json:"link,omitempty"`
}

// Media is the simplified view of a WordPress media attachment.
type Media struct {
	ID          int      `json:"id"`
	Date        string   `json:"date"`
	Slug        string   `json:"slug"`
	Title       Rendered `json:"title"`
	AltText     string   `json:"alt_text,omitempty"`
	Caption     Rendered `json:"caption,omitempty"`
	Description Rendered `json:"description,omitempty"`
	MediaType   string   `json:"media_type,omitempty"`
	MimeType    string   `json:"mime_type,omitempty"`
	SourceURL   string   `json:"source_url"`
	Link        string   `json:"link,omitempty"`
	Post        int      `json:"post,omitempty"`
}

// Taxonomy describes a registered taxonomy (categories, tags, custom ones).
type Taxonomy struct {
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Types        []string `json:"types"`
	Hierarchical bool     `json:"hierarchical"`
	RestBase     string   `json:"rest_base"`
}

// UserInfo is the identity extracted by the authentication probe.
type UserInfo struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// SiteInfo summarizes the REST discovery document.
type SiteInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	Namespaces  []string `json:"namespaces"`
}

// BulkFailure records one failed item of a best-effort batch operation.
type BulkFailure struct {
	ID    int    `json:"id"`
	Error string `json:"error"`
}

// totalsFromHeader reads the WordPress pagination headers, defaulting to
// 0 results / 1 page when absent.
func totalsFromHeader(h http.Header) (total, totalPages int) {
	total, totalPages = 0, 1
	if v := h.Get("X-WP-Total"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			total = n
		}
	}
	if v := h.Get("X-WP-TotalPages"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			totalPages = n
		}
	}
	return total, totalPages
}
