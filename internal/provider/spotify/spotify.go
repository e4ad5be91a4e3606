// Package spotify implements the Spotify Web API client used both as a
// listening-data source (personal top artists) and as the final image
// fallback (artist search).
package spotify

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

	"golang.org/x/oauth2"

	"github.com/mcosta/rewindfm/internal/provider"
)

const defaultBaseURL = "https://api.spotify.com/v1"

// Client is the Spotify Web API client. All calls carry a bearer token
// minted from the configured refresh token.
type Client struct {
	client  *http.Client
	limiter *provider.RateLimiterMap
	logger  *slog.Logger
	baseURL string
}

// New creates a Spotify client backed by the given token source.
func New(ts oauth2.TokenSource, limiter *provider.RateLimiterMap, logger *slog.Logger) *Client {
	return NewWithBaseURL(ts, limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a Spotify client with a custom base URL (for testing).
func NewWithBaseURL(ts oauth2.TokenSource, limiter *provider.RateLimiterMap, logger *slog.Logger, baseURL string) *Client {
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 10 * time.Second
	return &Client{
		client:  httpClient,
		limiter: limiter,
		logger:  logger.With(slog.String("provider", "spotify")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// TopArtists fetches the authorized user's top artists for a Spotify time
// range (short_term, medium_term, long_term).
func (c *Client) TopArtists(ctx context.Context, timeRange string) ([]Artist, error) {
	body, err := c.get(ctx, "/me/top/artists", url.Values{
		"time_range": {timeRange},
		"limit":      {"50"},
	})
	if err != nil {
		return nil, err
	}

	var resp topArtistsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing top artists: %w", err)
	}
	return resp.Items, nil
}

// SearchArtistImage searches for an artist by name and returns the best
// image of the top hit. Returns "" with a nil error on no hit or no image.
func (c *Client) SearchArtistImage(ctx context.Context, name string) (string, error) {
	body, err := c.get(ctx, "/search", url.Values{
		"q":     {name},
		"type":  {"artist"},
		"limit": {"1"},
	})
	if err != nil {
		return "", err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing search: %w", err)
	}
	if len(resp.Artists.Items) == 0 {
		return "", nil
	}
	return BestImage(resp.Artists.Items[0].Images), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, provider.NameSpotify); err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameSpotify,
			Cause:    fmt.Errorf("rate limiter: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "rewindfm/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameSpotify,
			Cause:    err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &provider.ErrAuthRequired{Provider: provider.NameSpotify}
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameSpotify,
			Cause:    fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
}

// BestImage returns the first usable rendition URL. Spotify lists renditions
// largest first, so the first survivor is the largest.
func BestImage(images []Image) string {
	for _, img := range images {
		if u := provider.SecureImageURL(img.URL); u != "" {
			return u
		}
	}
	return ""
}
