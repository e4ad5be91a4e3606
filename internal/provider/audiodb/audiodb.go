// Package audiodb implements the TheAudioDB artist image lookup, trying a
// MusicBrainz ID match before falling back to a free-text name search.
package audiodb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mcosta/rewindfm/internal/provider"
)

const defaultBaseURL = "https://www.theaudiodb.com/api/v1/json"

// Client is the TheAudioDB API client.
type Client struct {
	client  *http.Client
	limiter *provider.RateLimiterMap
	logger  *slog.Logger
	baseURL string
	apiKey  string
}

// New creates a TheAudioDB client with the default base URL.
func New(apiKey string, limiter *provider.RateLimiterMap, logger *slog.Logger) *Client {
	return NewWithBaseURL(apiKey, limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a TheAudioDB client with a custom base URL (for testing).
func NewWithBaseURL(apiKey string, limiter *provider.RateLimiterMap, logger *slog.Logger, baseURL string) *Client {
	if apiKey == "" {
		apiKey = "2"
	}
	return &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
		logger:  logger.With(slog.String("provider", "audiodb")),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// ArtistImage resolves an artist image URL. When mbid is set the exact
// MusicBrainz lookup runs first; the name search only runs when the ID path
// yields nothing. Returns "" with a nil error when no record carries a
// usable image.
func (c *Client) ArtistImage(ctx context.Context, mbid, name string) (string, error) {
	if mbid != "" {
		artist, err := c.lookupByMBID(ctx, mbid)
		if err != nil {
			return "", err
		}
		if img := bestImage(artist); img != "" {
			return img, nil
		}
	}

	if name == "" {
		return "", nil
	}

	artist, err := c.searchByName(ctx, name)
	if err != nil {
		return "", err
	}
	return bestImage(artist), nil
}

func (c *Client) lookupByMBID(ctx context.Context, mbid string) (*Artist, error) {
	return c.fetchArtist(ctx, "/artist-mb.php?i="+url.QueryEscape(mbid))
}

func (c *Client) searchByName(ctx context.Context, name string) (*Artist, error) {
	return c.fetchArtist(ctx, "/search.php?s="+url.QueryEscape(name))
}

func (c *Client) fetchArtist(ctx context.Context, endpoint string) (*Artist, error) {
	if err := c.limiter.Wait(ctx, provider.NameAudioDB); err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameAudioDB,
			Cause:    fmt.Errorf("rate limiter: %w", err),
		}
	}

	reqURL := c.baseURL + "/" + c.apiKey + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "rewindfm/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameAudioDB,
			Cause:    err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameAudioDB,
			Cause:    fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	var parsed artistsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Artists) == 0 {
		return nil, nil
	}
	return &parsed.Artists[0], nil
}

// bestImage returns the first populated image field in role preference order.
func bestImage(artist *Artist) string {
	if artist == nil {
		return ""
	}
	for _, raw := range artist.imageFields() {
		if u := provider.SecureImageURL(raw); u != "" {
			return u
		}
	}
	return ""
}
