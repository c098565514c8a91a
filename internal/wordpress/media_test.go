package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tessirov/pressgate/internal/apperr"
	"github.com/tessirov/pressgate/internal/testutil"
)

func TestBulkDeleteMediaPartialFailure(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	id1 := site.SeedMedia("a.png", []byte("a"))
	id2 := site.SeedMedia("b.png", []byte("b"))
	id3 := site.SeedMedia("c.png", []byte("c"))
	site.FailMediaDelete[id2] = true

	res, err := c.BulkDeleteMedia(context.Background(), []int{id1, id2, id3}, true)
	if err != nil {
		t.Fatalf("BulkDeleteMedia: %v", err)
	}
	if !reflect.DeepEqual(res.Deleted, []int{id1, id3}) {
		t.Errorf("deleted = %v, want [%d %d]", res.Deleted, id1, id3)
	}
	if len(res.Failed) != 1 || res.Failed[0].ID != id2 {
		t.Errorf("failed = %v, want [%d]", res.Failed, id2)
	}
	if !site.MediaExists(id2) {
		t.Error("failed item should survive")
	}
}

func TestBulkDeleteMediaEmptyRejected(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.BulkDeleteMedia(context.Background(), nil, true)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestUploadMediaFromLocalFile(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	media, err := c.UploadMedia(context.Background(), UploadMediaInput{
		Source: path, Title: "Photo", AltText: "a photo",
	})
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if media.ID == 0 {
		t.Fatal("media should have an id")
	}
	rec, ok := site.Media(media.ID)
	if !ok {
		t.Fatal("media not stored")
	}
	if rec.FileName != "photo.png" {
		t.Errorf("filename = %q", rec.FileName)
	}
	if string(rec.Data) != "png-bytes" {
		t.Errorf("data = %q", rec.Data)
	}
	if rec.Title != "Photo" || rec.AltText != "a photo" {
		t.Errorf("metadata = %+v", rec)
	}
}

func TestUploadMediaFromRemoteURL(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("remote-bytes"))
	}))
	defer src.Close()

	media, err := c.UploadMedia(context.Background(), UploadMediaInput{
		Source: src.URL + "/images/pic.png",
	})
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	rec, ok := site.Media(media.ID)
	if !ok {
		t.Fatal("media not stored")
	}
	if rec.FileName != "pic.png" {
		t.Errorf("filename = %q, want pic.png", rec.FileName)
	}
	if string(rec.Data) != "remote-bytes" {
		t.Errorf("data = %q", rec.Data)
	}
}

func TestUploadMediaMissingSource(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.UploadMedia(context.Background(), UploadMediaInput{})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestUpdateMediaMetadata(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	id := site.SeedMedia("x.png", []byte("x"))

	alt := "described"
	media, err := c.UpdateMedia(context.Background(), id, UpdateMediaInput{AltText: &alt})
	if err != nil {
		t.Fatalf("UpdateMedia: %v", err)
	}
	if media.AltText != "described" {
		t.Errorf("alt = %q", media.AltText)
	}
}

func TestListMediaPerPageCap(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.ListMedia(context.Background(), ListMediaInput{PerPage: 101})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

// fakeCompressor mimics the external compression API: raw bytes in, JSON
// descriptor out, compressed payload served at /out.
func fakeCompressor(t *testing.T, shrunk []byte) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		user, _, ok := req.BasicAuth()
		if !ok || user != "api" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if req.URL.Path == "/out" {
			_, _ = w.Write(shrunk)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": map[string]any{"url": srv.URL + "/out", "size": len(shrunk)},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOptimizeMediamissingKey(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.OptimizeMedia(context.Background(), OptimizeMediaInput{MediaID: 1})
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestOptimizeMediaReportsSavings(t *testing.T) {
	site := testutil.NewSite(t)
	id := site.SeedMedia("big.png", []byte("0123456789"))
	comp := fakeCompressor(t, []byte("01234"))

	sess := testClient(t, site).session
	c := New(sess, WithOptimizer(comp.URL, "test-key"))

	res, err := c.OptimizeMedia(context.Background(), OptimizeMediaInput{MediaID: id})
	if err != nil {
		t.Fatalf("OptimizeMedia: %v", err)
	}
	if res.OriginalSize != 10 || res.OptimizedSize != 5 {
		t.Errorf("sizes = %d/%d", res.OriginalSize, res.OptimizedSize)
	}
	if res.SavedPercent != 50 {
		t.Errorf("saved = %v, want 50", res.SavedPercent)
	}
	if res.NewMediaID != 0 {
		t.Error("original must not be replaced without opt-in")
	}
	if !site.MediaExists(id) {
		t.Error("original should survive")
	}
}

func TestOptimizeMediaReplaceOriginal(t *testing.T) {
	site := testutil.NewSite(t)
	id := site.SeedMedia("big.png", []byte("0123456789"))
	comp := fakeCompressor(t, []byte("01234"))

	sess := testClient(t, site).session
	c := New(sess, WithOptimizer(comp.URL, "test-key"))

	res, err := c.OptimizeMedia(context.Background(), OptimizeMediaInput{
		MediaID: id, ReplaceOriginal: true,
	})
	if err != nil {
		t.Fatalf("OptimizeMedia: %v", err)
	}
	if res.NewMediaID == 0 {
		t.Fatal("replacement id missing")
	}
	if site.MediaExists(id) {
		t.Error("original should be deleted")
	}
	rec, ok := site.Media(res.NewMediaID)
	if !ok {
		t.Fatal("replacement not stored")
	}
	if string(rec.Data) != "01234" {
		t.Errorf("replacement data = %q", rec.Data)
	}
}

func TestOptimizeMediaReplaceOriginalDeleteFails(t *testing.T) {
	site := testutil.NewSite(t)
	id := site.SeedMedia("big.png", []byte("0123456789"))
	site.FailMediaDelete[id] = true
	comp := fakeCompressor(t, []byte("01234"))

	sess := testClient(t, site).session
	c := New(sess, WithOptimizer(comp.URL, "test-key"))

	res, err := c.OptimizeMedia(context.Background(), OptimizeMediaInput{
		MediaID: id, ReplaceOriginal: true,
	})
	if err != nil {
		t.Fatalf("OptimizeMedia: %v", err)
	}
	if res.NewMediaID == 0 {
		t.Fatal("replacement id must be reported even when the delete fails")
	}
	if res.DeleteError == "" {
		t.Error("delete failure not reported in result")
	}
	if !site.MediaExists(id) {
		t.Error("original should be left behind when its delete fails")
	}
	if !site.MediaExists(res.NewMediaID) {
		t.Error("replacement should exist")
	}
}

func TestOptimizeMediaQualityRange(t *testing.T) {
	site := testutil.NewSite(t)
	sess := testClient(t, site).session
	c := New(sess, WithOptimizer("http://unused.invalid", "key"))

	_, err := c.OptimizeMedia(context.Background(), OptimizeMediaInput{MediaID: 1, Quality: 101})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}
