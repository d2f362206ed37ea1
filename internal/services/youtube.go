// YouTube Music [Provider] implementation.
//
// Communicates with the HTTP proxy wrapping the upstream video platform. The
// proxy exposes keyword search plus per-video metadata and stream format
// listings.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/shared"
)

const defaultYTBaseURL string = "http://localhost:8080"

// errNotFound marks a 404 from the proxy. It stays inside this package;
// callers observe "absent" as a nil result, never as an error.
var errNotFound = errors.New("reference not found")

// YouTubeProvider implements the Provider interface for YouTube Music via proxy.
type YouTubeProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	timeout    time.Duration
	logger     *log.Logger
}

// YouTubeOption configures a [YouTubeProvider].
type YouTubeOption func(*YouTubeProvider)

// WithHTTPClient overrides the HTTP client, used by tests.
func WithHTTPClient(c *http.Client) YouTubeOption {
	return func(y *YouTubeProvider) { y.httpClient = c }
}

// WithRateLimit bounds outbound proxy calls to n requests per second.
func WithRateLimit(n float64) YouTubeOption {
	return func(y *YouTubeProvider) {
		if n > 0 {
			y.limiter = rate.NewLimiter(rate.Limit(n), 1)
		}
	}
}

// WithRetries sets the retry budget for idempotent reads.
func WithRetries(n int) YouTubeOption {
	return func(y *YouTubeProvider) {
		if n >= 0 {
			y.maxRetries = uint64(n)
		}
	}
}

// WithTimeout bounds each proxy call, including retries of it.
func WithTimeout(d time.Duration) YouTubeOption {
	return func(y *YouTubeProvider) {
		if d > 0 {
			y.timeout = d
		}
	}
}

// NewYouTubeProvider creates a new YouTube Music provider instance.
func NewYouTubeProvider(baseURL string, logger *log.Logger, opts ...YouTubeOption) *YouTubeProvider {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	y := &YouTubeProvider{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		maxRetries: 2,
		timeout:    5 * time.Second,
		logger:     logger.With("service", "youtube"),
	}

	for _, opt := range opts {
		opt(y)
	}

	return y
}

// Name returns the provider name.
func (y *YouTubeProvider) Name() string {
	return "YouTube Music"
}

// getJSON performs a GET against the proxy and decodes the response into
// result. Transport failures and 5xx responses are retried with fibonacci
// backoff; searches and lookups are idempotent reads with no side effects.
// Returns errNotFound on 404 and a [shared.ErrProvider]-wrapped error
// otherwise.
func (y *YouTubeProvider) getJSON(ctx context.Context, endpoint string, result any) error {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	backoff := retry.WithMaxRetries(y.maxRetries, retry.NewFibonacci(200*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if y.limiter != nil {
			if err := y.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to create request: %v", shared.ErrProvider, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := y.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("%w: %v", shared.ErrProvider, err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return errNotFound
		case resp.StatusCode >= 500:
			y.logger.Warn("provider returned server error", "endpoint", endpoint, "status", resp.StatusCode)
			return retry.RetryableError(fmt.Errorf("%w: status %d", shared.ErrProvider, resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			var errResp struct {
				Detail string `json:"detail"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
				return fmt.Errorf("%w: status %d: %s", shared.ErrProvider, resp.StatusCode, errResp.Detail)
			}
			return fmt.Errorf("%w: status %d", shared.ErrProvider, resp.StatusCode)
		}

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return fmt.Errorf("%w: failed to decode response: %v", shared.ErrProvider, err)
			}
		}

		return nil
	})
}

// youtubeArtist represents an artist in proxy responses.
type youtubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Search performs a keyword search, filtered to songs.
//
// Calls GET /api/search?q={keyword}&filter=songs on the proxy. Result order
// is provider relevance order and is preserved.
func (y *YouTubeProvider) Search(ctx context.Context, keyword string) ([]SongSummary, error) {
	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs", url.QueryEscape(keyword))

	var results []struct {
		VideoID     string             `json:"videoId"`
		Title       string             `json:"title"`
		Artists     []youtubeArtist    `json:"artists"`
		DurationSec int                `json:"duration_seconds"`
		Thumbnails  []models.Thumbnail `json:"thumbnails"`
	}

	if err := y.getJSON(ctx, endpoint, &results); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	summaries := make([]SongSummary, len(results))
	for i, r := range results {
		summary := SongSummary{
			ExternalRef: r.VideoID,
			Title:       r.Title,
			Duration:    r.DurationSec,
			Thumbnails:  r.Thumbnails,
		}
		if len(r.Artists) > 0 {
			summary.Artist = r.Artists[0].Name
		}
		summaries[i] = summary
	}

	return summaries, nil
}

// GetDetail resolves one external reference to metadata plus the selected
// audio stream.
//
// Calls GET /api/videos/{id}/metadata and GET /api/videos/{id}/formats on the
// proxy. A 404 from either call, or a format list with no audio-only
// candidates, yields (nil, nil): the reference does not resolve to playable
// content.
func (y *YouTubeProvider) GetDetail(ctx context.Context, externalRef string) (*SongDetail, error) {
	var meta struct {
		VideoID     string             `json:"videoId"`
		Title       string             `json:"title"`
		Author      *youtubeArtist     `json:"author"`
		DurationSec int                `json:"duration_seconds"`
		ViewCount   int64              `json:"viewCount"`
		Thumbnails  []models.Thumbnail `json:"thumbnails"`
	}

	endpoint := fmt.Sprintf("/api/videos/%s/metadata", url.PathEscape(externalRef))
	if err := y.getJSON(ctx, endpoint, &meta); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var formats []AudioFormat
	endpoint = fmt.Sprintf("/api/videos/%s/formats", url.PathEscape(externalRef))
	if err := y.getJSON(ctx, endpoint, &formats); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	best, ok := SelectAudioFormat(formats)
	if !ok {
		y.logger.Debug("no audio formats for reference", "ref", externalRef)
		return nil, nil
	}

	detail := &SongDetail{
		ExternalRef: externalRef,
		Title:       meta.Title,
		Duration:    meta.DurationSec,
		ViewCount:   meta.ViewCount,
		Thumbnails:  meta.Thumbnails,
		StreamURL:   best.URL,
		Bitrate:     best.AudioBitrate,
	}
	if meta.Author != nil {
		detail.Artist = meta.Author.Name
	}

	return detail, nil
}
