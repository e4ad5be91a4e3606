// Package lastfm implements the Last.fm client: ranked and date-ranged top
// artist charts, chart-window discovery, single-artist lookup, and best-image
// selection over Last.fm's multi-size candidate arrays.
package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mcosta/rewindfm/internal/provider"
)

const defaultBaseURL = "https://ws.audioscrobbler.com/2.0"

// Last.fm serves these content hashes for artists without a real photo.
var placeholderHashes = []string{
	"2a96cbd8b46e442fc41c2b86b821562f",
	"c6f59c1e5e7240a4c0d427abd71f3dbb",
}

// Image size labels in preference order, largest first.
var sizePreference = []string{"mega", "extralarge", "large", "medium", "small"}

// Error codes Last.fm uses for missing entities. 6 is "invalid parameters"
// (unknown user or artist), 7 is "invalid resource".
const (
	errCodeInvalidParams   = 6
	errCodeInvalidResource = 7
)

// APIError is a Last.fm domain error, delivered as a structured
// (code, message) pair inside an otherwise-200 response body.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lastfm api error %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a Last.fm "entity not found" domain error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == errCodeInvalidParams || apiErr.Code == errCodeInvalidResource
}

// Client is the Last.fm API client.
type Client struct {
	client  *http.Client
	limiter *provider.RateLimiterMap
	logger  *slog.Logger
	baseURL string
	apiKey  string
}

// New creates a Last.fm client with the default base URL.
func New(apiKey string, limiter *provider.RateLimiterMap, logger *slog.Logger) *Client {
	return NewWithBaseURL(apiKey, limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a Last.fm client with a custom base URL (for testing).
func NewWithBaseURL(apiKey string, limiter *provider.RateLimiterMap, logger *slog.Logger, baseURL string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
		logger:  logger.With(slog.String("provider", "lastfm")),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// TopArtists fetches a user's ranked top artists for a bucketed period token
// (7day, 1month, 3month, 6month, 12month, overall). Fuzzy name correction is
// always requested.
func (c *Client) TopArtists(ctx context.Context, user, bucket string) ([]TopArtist, error) {
	body, err := c.do(ctx, url.Values{
		"method":      {"user.gettopartists"},
		"user":        {user},
		"period":      {bucket},
		"limit":       {"50"},
		"autocorrect": {"1"},
	})
	if err != nil {
		return nil, err
	}

	var resp topArtistsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing top artists: %w", err)
	}
	return resp.TopArtists.Artist, nil
}

// TopArtistsInRange fetches a user's ranked artist chart for an explicit
// [from, to] UTC unix-second window. Last.fm rejects some windows; callers
// fall back to TopArtists on any error.
func (c *Client) TopArtistsInRange(ctx context.Context, user string, from, to int64) ([]ChartArtist, error) {
	body, err := c.do(ctx, url.Values{
		"method": {"user.getweeklyartistchart"},
		"user":   {user},
		"from":   {strconv.FormatInt(from, 10)},
		"to":     {strconv.FormatInt(to, 10)},
	})
	if err != nil {
		return nil, err
	}

	var resp weeklyChartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing artist chart: %w", err)
	}
	return resp.Chart.Artist, nil
}

// AvailableChartYears returns the deduplicated UTC calendar years covered by
// the user's chart windows, ascending. A user with no listening data yields
// an empty slice, not an error.
func (c *Client) AvailableChartYears(ctx context.Context, user string) ([]int, error) {
	body, err := c.do(ctx, url.Values{
		"method": {"user.getweeklychartlist"},
		"user":   {user},
	})
	if err != nil {
		return nil, err
	}

	var resp chartListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing chart list: %w", err)
	}

	seen := make(map[int]bool)
	for _, window := range resp.List.Chart {
		for _, boundary := range []string{window.From, window.To} {
			ts, err := strconv.ParseInt(boundary, 10, 64)
			if err != nil {
				continue
			}
			seen[time.Unix(ts, 0).UTC().Year()] = true
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// ArtistInfo fetches a single artist's info, preferring the MusicBrainz ID
// over the name when both are given.
func (c *Client) ArtistInfo(ctx context.Context, mbid, name string) (*ArtistInfo, error) {
	if mbid == "" && name == "" {
		return nil, fmt.Errorf("artist info requires a name or mbid")
	}

	params := url.Values{
		"method":      {"artist.getinfo"},
		"autocorrect": {"1"},
	}
	if mbid != "" {
		params.Set("mbid", mbid)
	} else {
		params.Set("artist", name)
	}

	body, err := c.do(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp infoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing artist info: %w", err)
	}
	if resp.Artist.Name == "" {
		id := mbid
		if id == "" {
			id = name
		}
		return nil, &provider.ErrNotFound{Provider: provider.NameLastFM, ID: id}
	}

	return &resp.Artist, nil
}

func (c *Client) do(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, provider.NameLastFM); err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameLastFM,
			Cause:    fmt.Errorf("rate limiter: %w", err),
		}
	}

	params.Set("api_key", c.apiKey)
	params.Set("format", "json")
	reqURL := c.baseURL + "/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "rewindfm/1.0")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting", slog.String("method", params.Get("method")))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameLastFM,
			Cause:    err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameLastFM,
			Cause:    fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	// Domain errors arrive as a (code, message) pair in a 200 body.
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != 0 {
		return nil, &APIError{Code: env.Error, Message: env.Message}
	}

	return body, nil
}

// BestImage picks the best usable URL from an image candidate array: sanitize
// every candidate, drop placeholders, then take the first size in preference
// order (mega down to small). When no named size matches, the first remaining
// candidate wins. Returns "" when nothing usable survives.
func BestImage(images []Image) string {
	type candidate struct {
		size string
		url  string
	}

	var usable []candidate
	for _, img := range images {
		u := provider.SecureImageURL(img.URL)
		if u == "" || isPlaceholder(u) {
			continue
		}
		usable = append(usable, candidate{size: img.Size, url: u})
	}
	if len(usable) == 0 {
		return ""
	}

	for _, size := range sizePreference {
		for _, c := range usable {
			if c.size == size {
				return c.url
			}
		}
	}
	return usable[0].url
}

// isPlaceholder reports whether the URL points at one of Last.fm's known
// "no image" sentinel assets.
func isPlaceholder(u string) bool {
	if strings.Contains(u, "/noimage/") {
		return true
	}
	for _, hash := range placeholderHashes {
		if strings.Contains(u, hash) {
			return true
		}
	}
	return false
}
