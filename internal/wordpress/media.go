package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/tessirov/pressgate/internal/apperr"
)

// ListMediaInput paginates and filters a media listing.
type ListMediaInput struct {
	Page      int
	PerPage   int
	Search    string
	MediaType string
	MimeType  string
	OrderBy   string
	Order     string
}

func (in *ListMediaInput) normalize() {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.PerPage == 0 {
		in.PerPage = 10
	}
	if in.OrderBy == "" {
		in.OrderBy = "date"
	}
	if in.Order == "" {
		in.Order = "desc"
	}
}

// Validate rejects out-of-range parameters before any request is made.
func (in ListMediaInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Page, validation.Min(1)),
		validation.Field(&in.PerPage, validation.Min(1), validation.Max(100)),
		validation.Field(&in.Order, validation.In("asc", "desc")),
		validation.Field(&in.MediaType, validation.In("image", "video", "audio", "application", "text")),
	)
}

// MediaList is one page of media items plus header totals.
type MediaList struct {
	Media      []Media `json:"media"`
	Total      int     `json:"total"`
	TotalPages int     `json:"totalPages"`
}

// ListMedia fetches one page of media attachments.
func (c *Client) ListMedia(ctx context.Context, in ListMediaInput) (MediaList, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return MediaList{}, validationErr(err)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(in.Page))
	q.Set("per_page", strconv.Itoa(in.PerPage))
	q.Set("orderby", in.OrderBy)
	q.Set("order", in.Order)
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	if in.MediaType != "" {
		q.Set("media_type", in.MediaType)
	}
	if in.MimeType != "" {
		q.Set("mime_type", in.MimeType)
	}

	var media []Media
	h, err := c.do(ctx, http.MethodGet, "/media", q, nil, &media)
	if err != nil {
		return MediaList{}, err
	}
	total, pages := totalsFromHeader(h)
	return MediaList{Media: media, Total: total, TotalPages: pages}, nil
}

// GetMedia fetches a single media item by ID.
func (c *Client) GetMedia(ctx context.Context, id int) (Media, error) {
	if id <= 0 {
		return Media{}, validationErr(fmt.Errorf("media id must be positive"))
	}
	var media Media
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/media/%d", id), nil, nil, &media); err != nil {
		return Media{}, err
	}
	return media, nil
}

// UpdateMediaInput is a partial metadata update for a media item.
type UpdateMediaInput struct {
	Title       *string
	AltText     *string
	Caption     *string
	Description *string
	Post        *int
}

// UpdateMedia applies a partial metadata update.
func (c *Client) UpdateMedia(ctx context.Context, id int, in UpdateMediaInput) (Media, error) {
	if id <= 0 {
		return Media{}, validationErr(fmt.Errorf("media id must be positive"))
	}
	body := map[string]any{}
	if in.Title != nil {
		body["title"] = *in.Title
	}
	if in.AltText != nil {
		body["alt_text"] = *in.AltText
	}
	if in.Caption != nil {
		body["caption"] = *in.Caption
	}
	if in.Description != nil {
		body["description"] = *in.Description
	}
	if in.Post != nil {
		body["post"] = *in.Post
	}
	if len(body) == 0 {
		return Media{}, validationErr(fmt.Errorf("no fields to update"))
	}
	var media Media
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/media/%d", id), nil, body, &media); err != nil {
		return Media{}, err
	}
	return media, nil
}

// DeleteMedia removes a media item. force skips the trash.
func (c *Client) DeleteMedia(ctx context.Context, id int, force bool) (DeleteResult, error) {
	if id <= 0 {
		return DeleteResult{}, validationErr(fmt.Errorf("media id must be positive"))
	}
	return c.deleteResource(ctx, fmt.Sprintf("/media/%d", id), id, force)
}

// BulkDeleteResult partitions a bulk deletion into deleted and failed IDs.
type BulkDeleteResult struct {
	Deleted []int         `json:"deleted"`
	Failed  []BulkFailure `json:"failed,omitempty"`
}

// BulkDeleteMedia deletes each ID independently, best effort: one remote
// failure never aborts the batch.
func (c *Client) BulkDeleteMedia(ctx context.Context, ids []int, force bool) (BulkDeleteResult, error) {
	if len(ids) == 0 {
		return BulkDeleteResult{}, apperr.Validation("mediaIds must not be empty")
	}

	result := BulkDeleteResult{Deleted: []int{}}
	for _, id := range ids {
		if _, err := c.DeleteMedia(ctx, id, force); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}
	return result, nil
}

// UploadMediaInput parameterizes a media upload. Source is either a local
// file path or an http(s) URL; remote sources are streamed through without
// buffering to disk. Metadata fields join the multipart body only when
// non-empty.
type UploadMediaInput struct {
	Source      string
	FileName    string
	Title       string
	AltText     string
	Caption     string
	Description string
	Post        int
}

// Validate checks the required source.
func (in UploadMediaInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Source, validation.Required),
	)
}

// UploadMedia uploads a file to the media library.
func (c *Client) UploadMedia(ctx context.Context, in UploadMediaInput) (Media, error) {
	if err := in.Validate(); err != nil {
		return Media{}, validationErr(err)
	}
	if err := c.checkReady(); err != nil {
		return Media{}, err
	}

	src, name, err := c.openSource(ctx, in.Source)
	if err != nil {
		return Media{}, err
	}
	defer func() { _ = src.Close() }()

	if in.FileName != "" {
		name = in.FileName
	}

	fields := map[string]string{}
	if in.Title != "" {
		fields["title"] = in.Title
	}
	if in.AltText != "" {
		fields["alt_text"] = in.AltText
	}
	if in.Caption != "" {
		fields["caption"] = in.Caption
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.Post > 0 {
		fields["post"] = strconv.Itoa(in.Post)
	}

	return c.uploadStream(ctx, src, name, fields)
}

// openSource returns a reader over the upload source and a filename guess.
func (c *Client) openSource(ctx context.Context, source string) (io.ReadCloser, string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, "", apperr.Wrap(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, "", apperr.Wrap(err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, "", apperr.Remote(resp.StatusCode, http.StatusText(resp.StatusCode), "fetching media source failed")
		}
		return resp.Body, filenameFromURL(source, resp.Header.Get("Content-Type")), nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, "", apperr.Validation("cannot open source file: %s", err)
	}
	return f, filepath.Base(source), nil
}

// uploadStream pipes src into a multipart form POST against wp/v2/media.
func (c *Client) uploadStream(ctx context.Context, src io.Reader, filename string, fields map[string]string) (Media, error) {
	auth, err := c.session.AuthHeader()
	if err != nil {
		return Media{}, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		for k, v := range fields {
			if err := mw.WriteField(k, v); err != nil {
				_ = pw.CloseWithError(err)
				return
			}
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.session.SiteURL()+apiBase+"/media", pr)
	if err != nil {
		return Media{}, apperr.Wrap(err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := c.wait(ctx); err != nil {
		return Media{}, apperr.Wrap(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Media{}, apperr.Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Media{}, apperr.Wrap(err)
	}
	if resp.StatusCode >= 400 {
		return Media{}, apperr.Remote(resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(data)))
	}

	var media Media
	if err := json.Unmarshal(data, &media); err != nil {
		return Media{}, apperr.Wrap(fmt.Errorf("decode upload response: %w", err))
	}
	return media, nil
}

var mimeToExt = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
}

// filenameFromURL extracts a usable filename from a source URL, falling
// back to a UUID with an extension guessed from the content type.
func filenameFromURL(rawURL, contentType string) string {
	if parsed, err := url.Parse(rawURL); err == nil {
		base := path.Base(parsed.Path)
		if base != "" && base != "." && base != "/" && strings.Contains(base, ".") {
			return base
		}
	}
	ext := mimeToExt[strings.Split(contentType, ";")[0]]
	if ext == "" {
		ext = ".bin"
	}
	return uuid.New().String() + ext
}
