package provider

import "strings"

// SecureImageURL normalizes a raw image URL from a provider payload.
// Empty or whitespace-only input yields "". Protocol-relative URLs are
// upgraded to https, and http URLs are rewritten to https with the rest of
// the URL untouched. Anything else passes through uninspected; a malformed
// URL will simply fail to fetch downstream.
func SecureImageURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "//") {
		return "https:" + trimmed
	}
	if strings.HasPrefix(trimmed, "http://") {
		return "https://" + strings.TrimPrefix(trimmed, "http://")
	}
	return trimmed
}
