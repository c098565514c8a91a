// Package wordpress implements the REST client behind every tool: the
// connectivity and authentication probes plus the resource operations for
// posts, taxonomies, users, and media under the wp/v2 namespace.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tessirov/pressgate/internal/apperr"
	"github.com/tessirov/pressgate/internal/session"
)

const (
	apiBase        = "/wp-json/wp/v2"
	connectTimeout = 5 * time.Second
)

// Client issues requests against one WordPress site, authorizing each call
// from the session it was built with. No response is ever cached and no
// request is ever retried.
type Client struct {
	session *session.Session
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger

	compressEndpoint string
	compressKey      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRateLimit caps outbound requests per second. Zero or negative
// disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithOptimizer configures the external image compression service used by
// OptimizeMedia. An empty key leaves optimization unavailable.
func WithOptimizer(endpoint, apiKey string) Option {
	return func(c *Client) {
		c.compressEndpoint = endpoint
		c.compressKey = apiKey
	}
}

// New creates a client bound to the given session.
func New(sess *session.Session, opts ...Option) *Client {
	c := &Client{
		session: sess,
		http:    &http.Client{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkReady enforces the precondition every resource operation shares:
// a configured site URL and a successful authentication probe.
func (c *Client) checkReady() error {
	if c.session.SiteURL() == "" {
		return apperr.Configuration("WordPress site URL not configured")
	}
	if !c.session.Authenticated() {
		return apperr.Authentication("Not authenticated")
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// do issues an authenticated request under /wp-json/wp/v2 and decodes the
// JSON response into out (when non-nil). The response headers are returned
// so list operations can read pagination totals.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	if err := c.checkReady(); err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, query, body, out)
}

// send is do without the authenticated-flag precondition; the
// authentication probe uses it directly.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	auth, err := c.session.AuthHeader()
	if err != nil {
		return nil, err
	}

	u := c.session.SiteURL() + apiBase + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Wrap(fmt.Errorf("encode request: %w", err))
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	req.Header.Set("Authorization", auth)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.wait(ctx); err != nil {
		return nil, apperr.Wrap(err)
	}

	c.log.Debug("wordpress request", slog.String("method", method), slog.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode >= 400 {
		return nil, apperr.Remote(resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(data)))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, apperr.Wrap(fmt.Errorf("decode response: %w", err))
		}
	}
	return resp.Header, nil
}

// TestConnection is the unauthenticated reachability probe: GET
// {siteURL}/wp-json/ with a bounded timeout, true only when the discovery
// document lists the wp/v2 namespace. It never returns an error and is
// independent of the session.
func (c *Client) TestConnection(ctx context.Context, siteURL string) bool {
	siteURL = strings.TrimRight(siteURL, "/")
	if siteURL == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL+"/wp-json/", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	var doc struct {
		Namespaces []string `json:"namespaces"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return false
	}
	return slices.Contains(doc.Namespaces, "wp/v2")
}

// Authenticate is the authentication probe: GET wp/v2/users/me with the
// derived header. It is the only mutator of the session's authenticated
// flag, which always reflects the most recent probe outcome.
func (c *Client) Authenticate(ctx context.Context) (UserInfo, error) {
	if c.session.SiteURL() == "" {
		return UserInfo{}, apperr.Configuration("WordPress site URL not configured")
	}

	var me struct {
		ID    int      `json:"id"`
		Name  string   `json:"name"`
		Slug  string   `json:"slug"`
		Roles []string `json:"roles"`
	}
	q := url.Values{"context": {"edit"}}
	if _, err := c.send(ctx, http.MethodGet, "/users/me", q, nil, &me); err != nil {
		c.session.SetAuthenticated(false)
		return UserInfo{}, apperr.Wrap(err)
	}

	info := UserInfo{ID: me.ID, Name: me.Name, Roles: me.Roles}
	if len(info.Roles) == 0 {
		info.Roles = []string{"contributor"}
	}
	if info.Name == "" {
		info.Name = me.Slug
	}
	if info.Name == "" {
		info.Name = "Unknown"
	}

	c.session.SetAuthenticated(true)
	return info, nil
}

// SiteInfo fetches the REST discovery document. It needs a configured site
// URL but no authentication.
func (c *Client) SiteInfo(ctx context.Context) (SiteInfo, error) {
	siteURL := c.session.SiteURL()
	if siteURL == "" {
		return SiteInfo{}, apperr.Configuration("WordPress site URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL+"/wp-json/", nil)
	if err != nil {
		return SiteInfo{}, apperr.Wrap(err)
	}
	if err := c.wait(ctx); err != nil {
		return SiteInfo{}, apperr.Wrap(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return SiteInfo{}, apperr.Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return SiteInfo{}, apperr.Wrap(err)
	}
	if resp.StatusCode >= 400 {
		return SiteInfo{}, apperr.Remote(resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(data)))
	}

	var info SiteInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return SiteInfo{}, apperr.Wrap(fmt.Errorf("decode discovery document: %w", err))
	}
	return info, nil
}

// validationErr converts an ozzo-validation failure into the taxonomy.
func validationErr(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Validation("%s", err.Error())
}

// joinInts renders an ID list as the comma-separated form WordPress query
// parameters expect.
func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}
