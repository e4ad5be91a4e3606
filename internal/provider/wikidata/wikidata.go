// Package wikidata resolves artist images through the Wikidata action API
// and Wikimedia Commons: entity search, P18 image claim, then a
// width-bounded Commons rendition.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mcosta/rewindfm/internal/provider"
)

const (
	defaultAPIBaseURL     = "https://www.wikidata.org/w/api.php"
	defaultCommonsBaseURL = "https://commons.wikimedia.org/w/api.php"

	// Rendition width requested from Commons.
	thumbWidth = "1200"
)

// Entity search runs once per language, in this order.
var searchLanguages = []string{"pt", "en", "es"}

// musicOccupation matches entity descriptions that indicate a musical act.
// Disambiguates people and bands that share a name with other entities.
var musicOccupation = regexp.MustCompile(`(?i)musician|singer|band|dj|rapper|music|composer|guitarist`)

// Image formats accepted for story tiles. Checked against the Commons mime
// first, then the file extension when the mime is absent.
var (
	allowedMimes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
	}
	allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
)

// Client resolves artist images via Wikidata and Wikimedia Commons.
type Client struct {
	client     *http.Client
	limiter    *provider.RateLimiterMap
	logger     *slog.Logger
	apiBase    string
	commonsURL string
}

// New creates a Wikidata client with the default endpoints.
func New(limiter *provider.RateLimiterMap, logger *slog.Logger) *Client {
	return NewWithBaseURLs(limiter, logger, defaultAPIBaseURL, defaultCommonsBaseURL)
}

// NewWithBaseURLs creates a Wikidata client with custom endpoints (for testing).
func NewWithBaseURLs(limiter *provider.RateLimiterMap, logger *slog.Logger, apiBase, commonsBase string) *Client {
	return &Client{
		client:     &http.Client{Timeout: 15 * time.Second},
		limiter:    limiter,
		logger:     logger.With(slog.String("provider", "wikidata")),
		apiBase:    apiBase,
		commonsURL: commonsBase,
	}
}

// ArtistImage resolves an artist image URL by name. Every hop that finds
// nothing returns an empty URL with a nil error; errors are reserved for
// transport and decode failures.
func (c *Client) ArtistImage(ctx context.Context, name string) (string, error) {
	entityID, err := c.findEntity(ctx, name)
	if err != nil || entityID == "" {
		return "", err
	}

	fileName, err := c.imageClaim(ctx, entityID)
	if err != nil || fileName == "" {
		return "", err
	}

	return c.commonsImageURL(ctx, fileName)
}

// findEntity searches per language and returns the first entity whose
// description looks musical. When no description matches, the first
// candidate found in any language wins.
func (c *Client) findEntity(ctx context.Context, name string) (string, error) {
	var fallback string
	for _, lang := range searchLanguages {
		body, err := c.get(ctx, c.apiBase, url.Values{
			"action":   {"wbsearchentities"},
			"search":   {name},
			"language": {lang},
			"limit":    {"5"},
			"format":   {"json"},
		})
		if err != nil {
			return "", err
		}

		var resp searchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("parsing entity search: %w", err)
		}

		for _, e := range resp.Search {
			if musicOccupation.MatchString(e.Description) {
				return e.ID, nil
			}
			if fallback == "" {
				fallback = e.ID
			}
		}
	}
	return fallback, nil
}

// imageClaim returns the Commons file name from the entity's P18 claim.
func (c *Client) imageClaim(ctx context.Context, entityID string) (string, error) {
	body, err := c.get(ctx, c.apiBase, url.Values{
		"action": {"wbgetentities"},
		"ids":    {entityID},
		"props":  {"claims"},
		"format": {"json"},
	})
	if err != nil {
		return "", err
	}

	var resp entitiesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing entity claims: %w", err)
	}

	ent, ok := resp.Entities[entityID]
	if !ok || len(ent.Claims.Image) == 0 {
		return "", nil
	}
	return ent.Claims.Image[0].MainSnak.DataValue.Value, nil
}

// commonsImageURL resolves a Commons file name to a width-bounded rendition
// URL, rejecting formats the story renderer cannot consume.
func (c *Client) commonsImageURL(ctx context.Context, fileName string) (string, error) {
	body, err := c.get(ctx, c.commonsURL, url.Values{
		"action":     {"query"},
		"titles":     {"File:" + fileName},
		"prop":       {"imageinfo"},
		"iiprop":     {"url|mime"},
		"iiurlwidth": {thumbWidth},
		"format":     {"json"},
	})
	if err != nil {
		return "", err
	}

	var resp imageInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing imageinfo: %w", err)
	}

	for _, page := range resp.Query.Pages {
		for _, info := range page.ImageInfo {
			u := info.ThumbURL
			if u == "" {
				u = info.URL
			}
			if u == "" || !acceptableFormat(info.Mime, u) {
				continue
			}
			return provider.SecureImageURL(u), nil
		}
	}
	return "", nil
}

func acceptableFormat(mime, imageURL string) bool {
	if mime != "" {
		return allowedMimes[mime]
	}
	lower := strings.ToLower(imageURL)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (c *Client) get(ctx context.Context, baseURL string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, provider.NameWikidata); err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameWikidata,
			Cause:    fmt.Errorf("rate limiter: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "rewindfm/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameWikidata,
			Cause:    err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameWikidata,
			Cause:    fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
}
