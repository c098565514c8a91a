// Package testutil provides a fake WordPress site for exercising the REST
// client and the MCP tool handlers without a real installation.
package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// PostRecord is the fake site's view of a post.
type PostRecord struct {
	ID         int
	Title      string
	Content    string
	Excerpt    string
	Status     string
	Categories []int
	Tags       []int
	Author     int
}

// TermRecord is the fake site's view of a category or tag.
type TermRecord struct {
	ID       int
	Name     string
	Taxonomy string
	Parent   int
}

// UserRecord is the fake site's view of a user account.
type UserRecord struct {
	ID       int
	Username string
	Name     string
	Email    string
	Password string
	Roles    []string
}

// MediaRecord is the fake site's view of a media attachment.
type MediaRecord struct {
	ID       int
	FileName string
	Data     []byte
	Title    string
	AltText  string
}

// Site is an in-memory WordPress REST double covering the wp/v2 surface
// the client uses. It enforces Basic-Auth on the wp/v2 namespace and
// emits the rendered-wrapper response shapes and pagination headers of a
// real installation.
type Site struct {
	Server *httptest.Server

	Username    string
	AppPassword string

	// MeName/MeSlug/MeRoles shape the /users/me response.
	MeID    int
	MeName  string
	MeSlug  string
	MeRoles []string

	// RejectAuth makes every authenticated request fail with 401.
	RejectAuth bool

	// FailMediaDelete lists media IDs whose deletion returns 500.
	FailMediaDelete map[int]bool

	// FailPostUpdate lists post IDs whose update returns 500.
	FailPostUpdate map[int]bool

	mu       sync.Mutex
	requests int
	nextID   int
	posts    map[int]*PostRecord
	terms    map[int]*TermRecord
	users    map[int]*UserRecord
	media    map[int]*MediaRecord
}

// NewSite starts a fake site that is torn down with the test.
func NewSite(t *testing.T) *Site {
	t.Helper()
	s := &Site{
		Username:        "bot",
		AppPassword:     "abcd 1234",
		MeID:            1,
		MeName:          "Bot",
		MeSlug:          "bot",
		MeRoles:         []string{"administrator"},
		FailMediaDelete: map[int]bool{},
		FailPostUpdate:  map[int]bool{},
		nextID:          100,
		posts:           map[int]*PostRecord{},
		terms:           map[int]*TermRecord{},
		users:           map[int]*UserRecord{},
		media:           map[int]*MediaRecord{},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Server.Close)
	return s
}

// URL returns the fake site's base URL.
func (s *Site) URL() string { return s.Server.URL }

// Requests returns how many HTTP requests the site has received.
func (s *Site) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Site) allocID() int {
	s.nextID++
	return s.nextID
}

// SeedPost inserts a published post and returns its ID.
func (s *Site) SeedPost(title, content string, categories, tags []int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.posts[id] = &PostRecord{
		ID: id, Title: title, Content: content, Status: "publish",
		Categories: append([]int{}, categories...),
		Tags:       append([]int{}, tags...),
		Author:     1,
	}
	return id
}

// SeedTerm inserts a category or tag and returns its ID.
func (s *Site) SeedTerm(taxonomy, name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.terms[id] = &TermRecord{ID: id, Name: name, Taxonomy: taxonomy}
	return id
}

// SeedUser inserts a user account and returns its ID.
func (s *Site) SeedUser(username, name, email string, roles []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.users[id] = &UserRecord{ID: id, Username: username, Name: name, Email: email, Roles: roles}
	return id
}

// SeedMedia inserts a media attachment and returns its ID.
func (s *Site) SeedMedia(filename string, data []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.media[id] = &MediaRecord{ID: id, FileName: filename, Data: data}
	return id
}

// Post returns a copy of a stored post for assertions.
func (s *Site) Post(id int) (PostRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return PostRecord{}, false
	}
	return *p, true
}

// User returns a copy of a stored user for assertions.
func (s *Site) User(id int) (UserRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return UserRecord{}, false
	}
	out := *u
	out.Roles = append([]string{}, u.Roles...)
	return out, true
}

// TermExists reports whether a term is still stored.
func (s *Site) TermExists(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.terms[id]
	return ok
}

// MediaExists reports whether a media item is still stored.
func (s *Site) MediaExists(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.media[id]
	return ok
}

// Media returns a copy of a stored media item for assertions.
func (s *Site) Media(id int) (MediaRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.media[id]
	if !ok {
		return MediaRecord{}, false
	}
	return *m, true
}

func (s *Site) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s.mu.Lock()
			s.requests++
			s.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/wp-json/", s.discovery)
	r.Get("/files/{id}", s.serveFile)

	r.Route("/wp-json/wp/v2", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/users/me", s.me)

		r.Get("/posts", s.listPosts)
		r.Post("/posts", s.createPost)
		r.Get("/posts/{id}", s.getPost)
		r.Put("/posts/{id}", s.updatePost)
		r.Delete("/posts/{id}", s.deletePost)
		r.Get("/posts/{id}/revisions", s.listRevisions)

		r.Get("/categories", s.listTermsHandler("category"))
		r.Post("/categories", s.createTermHandler("category"))
		r.Put("/categories/{id}", s.updateTermHandler)
		r.Delete("/categories/{id}", s.deleteTermHandler)

		r.Get("/tags", s.listTermsHandler("post_tag"))
		r.Post("/tags", s.createTermHandler("post_tag"))
		r.Put("/tags/{id}", s.updateTermHandler)
		r.Delete("/tags/{id}", s.deleteTermHandler)

		r.Get("/users", s.listUsers)
		r.Post("/users", s.createUser)
		r.Get("/users/{id}", s.getUser)
		r.Put("/users/{id}", s.updateUser)
		r.Delete("/users/{id}", s.deleteUser)

		r.Get("/media", s.listMedia)
		r.Post("/media", s.uploadMedia)
		r.Get("/media/{id}", s.getMedia)
		r.Put("/media/{id}", s.updateMedia)
		r.Delete("/media/{id}", s.deleteMedia)

		r.Get("/taxonomies", s.listTaxonomies)
	})

	return r
}

func (s *Site) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte(s.Username+":"+s.AppPassword))
		if s.RejectAuth || req.Header.Get("Authorization") != want {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"code":    "rest_cannot_access",
				"message": "Sorry, you are not allowed to do that.",
			})
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (s *Site) discovery(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "Fake Site",
		"description": "Just another fake WordPress site",
		"url":         s.Server.URL,
		"namespaces":  []string{"oembed/1.0", "wp/v2"},
	})
}

func (s *Site) me(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    s.MeID,
		"name":  s.MeName,
		"slug":  s.MeSlug,
		"roles": s.MeRoles,
	})
}

func (s *Site) serveFile(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	s.mu.Lock()
	m, ok := s.media[id]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, req)
		return
	}
	_, _ = w.Write(m.Data)
}

func (s *Site) postDoc(p *PostRecord) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"date":       "2026-01-02T03:04:05",
		"modified":   "2026-01-02T03:04:05",
		"slug":       strings.ToLower(strings.ReplaceAll(p.Title, " ", "-")),
		"status":     p.Status,
		"link":       fmt.Sprintf("%s/?p=%d", s.Server.URL, p.ID),
		"title":      map[string]any{"rendered": p.Title},
		"content":    map[string]any{"rendered": p.Content},
		"excerpt":    map[string]any{"rendered": p.Excerpt},
		"author":     p.Author,
		"categories": p.Categories,
		"tags":       p.Tags,
	}
}

func (s *Site) listPosts(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	perPage := intParam(q.Get("per_page"), 10)
	page := intParam(q.Get("page"), 1)
	catFilter := intsParam(q.Get("categories"))
	search := q.Get("search")
	// WordPress treats an absent status filter as publish-only.
	status := q.Get("status")
	if status == "" {
		status = "publish"
	}

	s.mu.Lock()
	var matched []*PostRecord
	for _, p := range s.posts {
		if len(catFilter) > 0 && !intersects(p.Categories, catFilter) {
			continue
		}
		if status != "any" && p.Status != status {
			continue
		}
		if search != "" && !strings.Contains(p.Title, search) && !strings.Contains(p.Content, search) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := len(matched)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	docs := make([]map[string]any, 0, end-start)
	for _, p := range matched[start:end] {
		docs = append(docs, s.postDoc(p))
	}
	writePaged(w, docs, total, perPage)
}

func (s *Site) createPost(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		Excerpt    string `json:"excerpt"`
		Status     string `json:"status"`
		Categories []int  `json:"categories"`
		Tags       []int  `json:"tags"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "rest_invalid_json")
		return
	}
	if body.Status == "" {
		body.Status = "draft"
	}

	s.mu.Lock()
	id := s.allocID()
	p := &PostRecord{
		ID: id, Title: body.Title, Content: body.Content, Excerpt: body.Excerpt,
		Status: body.Status, Categories: body.Categories, Tags: body.Tags, Author: s.MeID,
	}
	s.posts[id] = p
	doc := s.postDoc(p)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, doc)
}

func (s *Site) getPost(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	s.mu.Lock()
	p, ok := s.posts[id]
	var doc map[string]any
	if ok {
		doc = s.postDoc(p)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) updatePost(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	if s.FailPostUpdate[id] {
		writeError(w, http.StatusInternalServerError, "rest_update_failed")
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "rest_invalid_json")
		return
	}

	s.mu.Lock()
	p, ok := s.posts[id]
	if ok {
		setString := func(key string, dst *string) {
			if raw, present := body[key]; present {
				_ = json.Unmarshal(raw, dst)
			}
		}
		setString("title", &p.Title)
		setString("content", &p.Content)
		setString("excerpt", &p.Excerpt)
		setString("status", &p.Status)
		if raw, present := body["categories"]; present {
			_ = json.Unmarshal(raw, &p.Categories)
		}
		if raw, present := body["tags"]; present {
			_ = json.Unmarshal(raw, &p.Tags)
		}
	}
	var doc map[string]any
	if ok {
		doc = s.postDoc(p)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) deletePost(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	force := req.URL.Query().Get("force") == "true"

	s.mu.Lock()
	p, ok := s.posts[id]
	var doc map[string]any
	if ok {
		if force {
			doc = map[string]any{"deleted": true, "previous": s.postDoc(p)}
			delete(s.posts, id)
		} else {
			p.Status = "trash"
			doc = s.postDoc(p)
		}
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) listRevisions(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	s.mu.Lock()
	p, ok := s.posts[id]
	var docs []map[string]any
	if ok {
		docs = []map[string]any{{
			"id":     id*10 + 1,
			"parent": id,
			"author": p.Author,
			"date":   "2026-01-01T00:00:00",
			"title":  map[string]any{"rendered": p.Title},
		}}
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Site) termDoc(t *TermRecord) map[string]any {
	taxonomy := "category"
	if t.Taxonomy != "" {
		taxonomy = t.Taxonomy
	}
	return map[string]any{
		"id":       t.ID,
		"count":    0,
		"name":     t.Name,
		"slug":     strings.ToLower(strings.ReplaceAll(t.Name, " ", "-")),
		"taxonomy": taxonomy,
		"parent":   t.Parent,
	}
}

func (s *Site) listTermsHandler(taxonomy string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		perPage := intParam(req.URL.Query().Get("per_page"), 10)

		s.mu.Lock()
		var matched []*TermRecord
		for _, t := range s.terms {
			if t.Taxonomy == taxonomy {
				matched = append(matched, t)
			}
		}
		s.mu.Unlock()

		sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
		docs := make([]map[string]any, 0, len(matched))
		for _, t := range matched {
			docs = append(docs, s.termDoc(t))
		}
		writePaged(w, docs, len(docs), perPage)
	}
}

func (s *Site) createTermHandler(taxonomy string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Name   string `json:"name"`
			Parent int    `json:"parent"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Name == "" {
			writeError(w, http.StatusBadRequest, "rest_invalid_param")
			return
		}
		s.mu.Lock()
		id := s.allocID()
		t := &TermRecord{ID: id, Name: body.Name, Taxonomy: taxonomy, Parent: body.Parent}
		s.terms[id] = t
		doc := s.termDoc(t)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, doc)
	}
}

func (s *Site) updateTermHandler(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	var body struct {
		Name *string `json:"name"`
	}
	_ = json.NewDecoder(req.Body).Decode(&body)

	s.mu.Lock()
	t, ok := s.terms[id]
	var doc map[string]any
	if ok {
		if body.Name != nil {
			t.Name = *body.Name
		}
		doc = s.termDoc(t)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "rest_term_invalid")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) deleteTermHandler(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	s.mu.Lock()
	t, ok := s.terms[id]
	var doc map[string]any
	if ok {
		doc = map[string]any{"deleted": true, "previous": s.termDoc(t)}
		delete(s.terms, id)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "rest_term_invalid")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) userDoc(u *UserRecord) map[string]any {
	return map[string]any{
		"id":              u.ID,
		"username":        u.Username,
		"name":            u.Name,
		"slug":            strings.ToLower(u.Username),
		"email":           u.Email,
		"roles":           u.Roles,
		"registered_date": "2026-01-01T00:00:00+00:00",
	}
}

func (s *Site) listUsers(w http.ResponseWriter, req *http.Request) {
	search := req.URL.Query().Get("search")
	perPage := intParam(req.URL.Query().Get("per_page"), 10)

	s.mu.Lock()
	var matched []*UserRecord
	for _, u := range s.users {
		if search != "" && !strings.Contains(u.Email, search) && !strings.Contains(u.Name, search) {
			continue
		}
		matched = append(matched, u)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	docs := make([]map[string]any, 0, len(matched))
	for _, u := range matched {
		docs = append(docs, s.userDoc(u))
	}
	writePaged(w, docs, len(docs), perPage)
}

func (s *Site) createUser(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Username string   `json:"username"`
		Email    string   `json:"email"`
		Password string   `json:"password"`
		Name     string   `json:"name"`
		Roles    []string `json:"roles"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Username == "" {
		writeError(w, http.StatusBadRequest, "rest_invalid_param")
		return
	}
	s.mu.Lock()
	id := s.allocID()
	u := &UserRecord{ID: id, Username: body.Username, Name: body.Name, Email: body.Email, Password: body.Password, Roles: body.Roles}
	if len(u.Roles) == 0 {
		u.Roles = []string{"subscriber"}
	}
	s.users[id] = u
	doc := s.userDoc(u)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Site) getUser(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	s.mu.Lock()
	u, ok := s.users[id]
	var doc map[string]any
	if ok {
		doc = s.userDoc(u)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "rest_user_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) updateUser(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	var body struct {
		Name     *string  `json:"name"`
		Email    *string  `json:"email"`
		Password *string  `json:"password"`
		Role     *string  `json:"role"`
		Roles    []string `json:"roles"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "rest_invalid_json")
		return
	}

	s.mu.Lock()
	u, ok := s.users[id]
	var doc map[string]any
	if ok {
		if body.Name != nil {
			u.Name = *body.Name
		}
		if body.Email != nil {
			u.Email = *body.Email
		}
		if body.Password != nil {
			u.Password = *body.Password
		}
		if body.Roles != nil {
			u.Roles = body.Roles
		} else if body.Role != nil {
			// The single-role form adds to the existing set, mirroring
			// WordPress's add_role path.
			found := false
			for _, r := range u.Roles {
				if r == *body.Role {
					found = true
				}
			}
			if !found {
				u.Roles = append(u.Roles, *body.Role)
			}
		}
		doc = s.userDoc(u)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "rest_user_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) deleteUser(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	if req.URL.Query().Get("force") != "true" {
		writeError(w, http.StatusBadRequest, "rest_trash_not_supported")
		return
	}
	s.mu.Lock()
	u, ok := s.users[id]
	var doc map[string]any
	if ok {
		doc = map[string]any{"deleted": true, "previous": s.userDoc(u)}
		delete(s.users, id)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "rest_user_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) mediaDoc(m *MediaRecord) map[string]any {
	return map[string]any{
		"id":         m.ID,
		"date":       "2026-01-02T03:04:05",
		"slug":       strings.TrimSuffix(m.FileName, ".png"),
		"title":      map[string]any{"rendered": m.Title},
		"alt_text":   m.AltText,
		"media_type": "image",
		"mime_type":  "image/png",
		"source_url": fmt.Sprintf("%s/files/%d", s.Server.URL, m.ID),
	}
}

func (s *Site) listMedia(w http.ResponseWriter, req *http.Request) {
	perPage := intParam(req.URL.Query().Get("per_page"), 10)

	s.mu.Lock()
	var matched []*MediaRecord
	for _, m := range s.media {
		matched = append(matched, m)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	docs := make([]map[string]any, 0, len(matched))
	for _, m := range matched {
		docs = append(docs, s.mediaDoc(m))
	}
	writePaged(w, docs, len(docs), perPage)
}

func (s *Site) uploadMedia(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "rest_upload_no_data")
		return
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "rest_upload_no_data")
		return
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "rest_upload_no_data")
		return
	}

	s.mu.Lock()
	id := s.allocID()
	m := &MediaRecord{
		ID:       id,
		FileName: header.Filename,
		Data:     data,
		Title:    req.FormValue("title"),
		AltText:  req.FormValue("alt_text"),
	}
	s.media[id] = m
	doc := s.mediaDoc(m)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, doc)
}

func (s *Site) getMedia(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	s.mu.Lock()
	m, ok := s.media[id]
	var doc map[string]any
	if ok {
		doc = s.mediaDoc(m)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) updateMedia(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	var body struct {
		Title   *string `json:"title"`
		AltText *string `json:"alt_text"`
	}
	_ = json.NewDecoder(req.Body).Decode(&body)

	s.mu.Lock()
	m, ok := s.media[id]
	var doc map[string]any
	if ok {
		if body.Title != nil {
			m.Title = *body.Title
		}
		if body.AltText != nil {
			m.AltText = *body.AltText
		}
		doc = s.mediaDoc(m)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) deleteMedia(w http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(req, "id"))
	if s.FailMediaDelete[id] {
		writeError(w, http.StatusInternalServerError, "rest_cannot_delete")
		return
	}
	s.mu.Lock()
	m, ok := s.media[id]
	var doc map[string]any
	if ok {
		doc = map[string]any{"deleted": true, "previous": s.mediaDoc(m)}
		delete(s.media, id)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Site) listTaxonomies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"category": map[string]any{
			"name": "Categories", "types": []string{"post"}, "hierarchical": true, "rest_base": "categories",
		},
		"post_tag": map[string]any{
			"name": "Tags", "types": []string{"post"}, "hierarchical": false, "rest_base": "tags",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"code": code, "message": code, "data": map[string]any{"status": status}})
}

func writePaged(w http.ResponseWriter, docs []map[string]any, total, perPage int) {
	pages := 1
	if perPage > 0 && total > 0 {
		pages = (total + perPage - 1) / perPage
	}
	w.Header().Set("X-WP-Total", strconv.Itoa(total))
	w.Header().Set("X-WP-TotalPages", strconv.Itoa(pages))
	writeJSON(w, http.StatusOK, docs)
}

func intParam(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func intsParam(v string) []int {
	if v == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func intersects(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
