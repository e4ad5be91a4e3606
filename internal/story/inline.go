package story

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// InlineMaxBytes is the default ceiling for inlined image payloads.
const InlineMaxBytes = 2_500_000

// Hostname fragments of CDNs that rewrite or renegotiate image responses
// unpredictably. Images from these hosts are inlined as data URIs so the
// renderer sees stable bytes.
var untrustedHostMarkers = []string{"lastfm", "fastly.net"}

// Formats the renderer can decode. webp and avif are deliberately absent.
var inlineContentTypes = map[string]string{
	"image/png":  "image/png",
	"image/jpeg": "image/jpeg",
	"image/jpg":  "image/jpeg",
	"image/gif":  "image/gif",
}

const inlineAccept = "image/jpeg,image/png,image/gif;q=0.9"

// Inliner converts image URLs on rewrite-prone hosts into bounded base64
// data URIs. URLs on other hosts pass through untouched.
type Inliner struct {
	client   *http.Client
	maxBytes int64
}

// NewInliner creates an Inliner with the given byte ceiling. A zero or
// negative ceiling uses InlineMaxBytes.
func NewInliner(client *http.Client, maxBytes int64) *Inliner {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = InlineMaxBytes
	}
	return &Inliner{client: client, maxBytes: maxBytes}
}

// Process returns the image URL unchanged for trusted hosts, or fetches and
// inlines the bytes for untrusted ones. Any rejection (bad status,
// disallowed format, oversized payload) is an error so the caller can fall
// through to the next resolution tier.
func (n *Inliner) Process(ctx context.Context, imageURL string) (string, error) {
	if !UntrustedHost(imageURL) {
		return imageURL, nil
	}
	return n.inline(ctx, imageURL)
}

func (n *Inliner) inline(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating image request: %w", err)
	}
	// The fetched content is user-specific; keep shared caches out of the path.
	req.Header.Set("Accept", inlineAccept)
	req.Header.Set("Cache-Control", "no-store")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("image fetch returned HTTP %d", resp.StatusCode)
	}

	mime, ok := allowedContentType(resp.Header.Get("Content-Type"))
	if !ok {
		return "", fmt.Errorf("unsupported image content type %q", resp.Header.Get("Content-Type"))
	}

	if resp.ContentLength > n.maxBytes {
		return "", fmt.Errorf("image declares %d bytes, ceiling is %d", resp.ContentLength, n.maxBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, n.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if int64(len(body)) > n.maxBytes {
		return "", fmt.Errorf("image exceeds %d byte ceiling", n.maxBytes)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

// UntrustedHost reports whether the URL's hostname contains a known
// rewrite-prone CDN marker.
func UntrustedHost(imageURL string) bool {
	u, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, marker := range untrustedHostMarkers {
		if strings.Contains(host, marker) {
			return true
		}
	}
	return false
}

func allowedContentType(header string) (string, bool) {
	mime := strings.ToLower(strings.TrimSpace(strings.Split(header, ";")[0]))
	canonical, ok := inlineContentTypes[mime]
	return canonical, ok
}
