package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/tessirov/pressgate/internal/apperr"
)

// OptimizeMediaInput parameterizes an image optimization round-trip.
type OptimizeMediaInput struct {
	MediaID         int
	Quality         int
	ReplaceOriginal bool
}

func (in *OptimizeMediaInput) normalize() {
	if in.Quality == 0 {
		in.Quality = 80
	}
}

// OptimizeResult reports the size delta of a compression run. NewMediaID
// is set only when the original was replaced. DeleteError reports a
// replacement whose original could not be removed afterwards; the
// operation as a whole still succeeded.
type OptimizeResult struct {
	MediaID       int     `json:"mediaId"`
	OriginalSize  int     `json:"originalSize"`
	OptimizedSize int     `json:"optimizedSize"`
	SavedPercent  float64 `json:"savedPercent"`
	OutputURL     string  `json:"outputUrl,omitempty"`
	NewMediaID    int     `json:"newMediaId,omitempty"`
	DeleteError   string  `json:"deleteError,omitempty"`
}

// OptimizeMedia fetches a media item's source image, submits it to the
// configured compression service, and optionally re-uploads the result in
// place of the original. A missing API key is a hard failure; there is no
// local fallback compression path.
func (c *Client) OptimizeMedia(ctx context.Context, in OptimizeMediaInput) (OptimizeResult, error) {
	if c.compressKey == "" {
		return OptimizeResult{}, apperr.Configuration("image compression API key not configured")
	}
	in.normalize()
	if in.MediaID <= 0 {
		return OptimizeResult{}, apperr.Validation("media id must be positive")
	}
	if in.Quality < 1 || in.Quality > 100 {
		return OptimizeResult{}, apperr.Validation("quality must be between 1 and 100")
	}

	media, err := c.GetMedia(ctx, in.MediaID)
	if err != nil {
		return OptimizeResult{}, err
	}
	if media.SourceURL == "" {
		return OptimizeResult{}, apperr.Validation("media %d has no source URL", in.MediaID)
	}
	if media.MediaType != "" && media.MediaType != "image" {
		return OptimizeResult{}, apperr.Validation("media %d is not an image", in.MediaID)
	}

	original, err := c.fetchBytes(ctx, media.SourceURL, nil)
	if err != nil {
		return OptimizeResult{}, err
	}

	outputURL, optimizedSize, err := c.compress(ctx, original, in.Quality)
	if err != nil {
		return OptimizeResult{}, err
	}

	result := OptimizeResult{
		MediaID:       in.MediaID,
		OriginalSize:  len(original),
		OptimizedSize: optimizedSize,
		OutputURL:     outputURL,
	}
	if len(original) > 0 {
		result.SavedPercent = 100 * (1 - float64(optimizedSize)/float64(len(original)))
	}

	if !in.ReplaceOriginal {
		return result, nil
	}

	compressed, err := c.fetchBytes(ctx, outputURL, c.compressAuth)
	if err != nil {
		return OptimizeResult{}, err
	}

	filename := media.Slug
	if filename == "" {
		filename = fmt.Sprintf("media-%d", in.MediaID)
	}
	fields := map[string]string{}
	if media.Title != "" {
		fields["title"] = string(media.Title)
	}
	if media.AltText != "" {
		fields["alt_text"] = media.AltText
	}
	replacement, err := c.uploadStream(ctx, bytes.NewReader(compressed), filename+extensionFor(media.MimeType), fields)
	if err != nil {
		return OptimizeResult{}, err
	}
	result.NewMediaID = replacement.ID
	result.OptimizedSize = len(compressed)

	// The replacement already exists at this point; a failed delete leaves
	// the original behind rather than undoing the swap. The failure is
	// carried in the result so the caller still learns the new media ID.
	if _, err := c.DeleteMedia(ctx, in.MediaID, true); err != nil {
		result.DeleteError = err.Error()
	}
	return result, nil
}

// compress submits raw image bytes to the compression endpoint and returns
// the output location and size. The service contract is Basic-Auth
// ("api", key), raw request body, JSON response with an output object.
func (c *Client) compress(ctx context.Context, data []byte, quality int) (string, int, error) {
	endpoint := c.compressEndpoint
	if strings.Contains(endpoint, "?") {
		endpoint += "&quality=" + strconv.Itoa(quality)
	} else {
		endpoint += "?quality=" + strconv.Itoa(quality)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", 0, apperr.Wrap(err)
	}
	c.compressAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, apperr.Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, apperr.Wrap(err)
	}
	if resp.StatusCode >= 400 {
		return "", 0, apperr.Remote(resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(body)))
	}

	var doc struct {
		Output struct {
			URL  string `json:"url"`
			Size int    `json:"size"`
		} `json:"output"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", 0, apperr.Wrap(fmt.Errorf("decode compression response: %w", err))
	}
	if doc.Output.URL == "" {
		if loc := resp.Header.Get("Location"); loc != "" {
			doc.Output.URL = loc
		}
	}
	if doc.Output.URL == "" {
		return "", 0, apperr.Wrap(fmt.Errorf("compression service returned no output location"))
	}
	return doc.Output.URL, doc.Output.Size, nil
}

func (c *Client) compressAuth(req *http.Request) {
	req.SetBasicAuth("api", c.compressKey)
}

// fetchBytes downloads a URL fully into memory, optionally decorating the
// request (e.g. with compression-service credentials).
func (c *Client) fetchBytes(ctx context.Context, rawURL string, decorate func(*http.Request)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	if decorate != nil {
		decorate(req)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Remote(resp.StatusCode, http.StatusText(resp.StatusCode), "fetching "+rawURL+" failed")
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return data, nil
}

func extensionFor(mimeType string) string {
	if ext := mimeToExt[mimeType]; ext != "" {
		return ext
	}
	return ".jpg"
}
