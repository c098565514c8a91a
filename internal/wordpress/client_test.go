package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tessirov/pressgate/internal/apperr"
	"github.com/tessirov/pressgate/internal/session"
	"github.com/tessirov/pressgate/internal/testutil"
)

// testClient returns a client whose session is configured against the fake
// site and already marked authenticated.
func testClient(t *testing.T, site *testutil.Site) *Client {
	t.Helper()
	sess := session.New(session.Settings{
		SiteURL:     site.URL(),
		Username:    site.Username,
		AppPassword: site.AppPassword,
	})
	sess.SetAuthenticated(true)
	return New(sess)
}

func TestUnconfiguredSiteShortCircuits(t *testing.T) {
	site := testutil.NewSite(t)
	sess := session.New(session.Settings{Username: "bot", AppPassword: "x"})
	c := New(sess)

	_, err := c.ListPosts(context.Background(), ListPostsInput{})
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
	if err.Error() != "WordPress site URL not configured" {
		t.Errorf("message = %q", err.Error())
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestUnauthenticatedSessionShortCircuits(t *testing.T) {
	site := testutil.NewSite(t)
	sess := session.New(session.Settings{
		SiteURL: site.URL(), Username: site.Username, AppPassword: site.AppPassword,
	})
	c := New(sess)

	_, err := c.CreatePost(context.Background(), CreatePostInput{Title: "a", Content: "b"})
	if !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Fatalf("err = %v, want authentication error", err)
	}
	if err.Error() != "Not authenticated" {
		t.Errorf("message = %q", err.Error())
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestMissingSecretNoRequest(t *testing.T) {
	site := testutil.NewSite(t)
	sess := session.New(session.Settings{SiteURL: site.URL(), Username: "bot"})
	c := New(sess)

	_, err := c.Authenticate(context.Background())
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestTestConnection(t *testing.T) {
	site := testutil.NewSite(t)
	c := New(session.New(session.Settings{}))

	if !c.TestConnection(context.Background(), site.URL()) {
		t.Error("reachable wp/v2 site should pass")
	}
	if c.TestConnection(context.Background(), "http://127.0.0.1:1") {
		t.Error("unreachable host should fail, not error")
	}
	if c.TestConnection(context.Background(), "") {
		t.Error("empty URL should fail")
	}
}

func TestTestConnectionMissingNamespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"namespaces": []string{"oembed/1.0"}})
	}))
	defer srv.Close()

	c := New(session.New(session.Settings{}))
	if c.TestConnection(context.Background(), srv.URL) {
		t.Error("site without wp/v2 namespace should fail")
	}
}

func TestAuthenticateSuccessSetsFlag(t *testing.T) {
	site := testutil.NewSite(t)
	sess := session.New(session.Settings{
		SiteURL: site.URL(), Username: site.Username, AppPassword: site.AppPassword,
	})
	c := New(sess)

	info, err := c.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !sess.Authenticated() {
		t.Error("flag should be true after successful probe")
	}
	if info.ID != 1 || info.Name != "Bot" {
		t.Errorf("info = %+v", info)
	}
	if len(info.Roles) != 1 || info.Roles[0] != "administrator" {
		t.Errorf("roles = %v", info.Roles)
	}
}

func TestAuthenticateFailureResetsFlag(t *testing.T) {
	site := testutil.NewSite(t)
	sess := session.New(session.Settings{
		SiteURL: site.URL(), Username: site.Username, AppPassword: site.AppPassword,
	})
	c := New(sess)

	if _, err := c.Authenticate(context.Background()); err != nil {
		t.Fatalf("first probe: %v", err)
	}

	site.RejectAuth = true
	_, err := c.Authenticate(context.Background())
	if err == nil {
		t.Fatal("rejected probe should error")
	}
	if sess.Authenticated() {
		t.Error("flag must flip false after a failed probe")
	}
}

func TestAuthenticateDefaultsRolesAndName(t *testing.T) {
	site := testutil.NewSite(t)
	site.MeName = ""
	site.MeSlug = ""
	site.MeRoles = nil
	sess := session.New(session.Settings{
		SiteURL: site.URL(), Username: site.Username, AppPassword: site.AppPassword,
	})

	info, err := New(sess).Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if info.Name != "Unknown" {
		t.Errorf("name = %q, want Unknown", info.Name)
	}
	if len(info.Roles) != 1 || info.Roles[0] != "contributor" {
		t.Errorf("roles = %v, want [contributor]", info.Roles)
	}
}

func TestRemoteErrorPreservesStatus(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.GetPost(context.Background(), 99999)
	if !apperr.IsKind(err, apperr.KindRemote) {
		t.Fatalf("err = %v, want remote error", err)
	}
	var e *apperr.Error
	if !errors.As(err, &e) {
		t.Fatal("expected *apperr.Error")
	}
	if e.Status != 404 {
		t.Errorf("status = %d, want 404", e.Status)
	}
	if e.Body == "" {
		t.Error("remote body should be preserved")
	}
}

func TestSiteInfo(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	info, err := c.SiteInfo(context.Background())
	if err != nil {
		t.Fatalf("SiteInfo: %v", err)
	}
	if info.Name != "Fake Site" {
		t.Errorf("name = %q", info.Name)
	}
	if len(info.Namespaces) == 0 {
		t.Error("namespaces should be populated")
	}
}
