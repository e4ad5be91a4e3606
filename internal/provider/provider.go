package provider

import (
	"fmt"
	"time"
)

// ProviderName uniquely identifies an external data source.
type ProviderName string

// Known provider names, in image-resolution fallback order.
const (
	NameLastFM   ProviderName = "lastfm"
	NameAudioDB  ProviderName = "audiodb"
	NameWikidata ProviderName = "wikidata"
	NameSpotify  ProviderName = "spotify"
)

// DisplayName returns a human-readable name for the provider.
func (n ProviderName) DisplayName() string {
	switch n {
	case NameLastFM:
		return "Last.fm"
	case NameAudioDB:
		return "TheAudioDB"
	case NameWikidata:
		return "Wikidata"
	case NameSpotify:
		return "Spotify"
	default:
		return string(n)
	}
}

// ErrProviderUnavailable indicates a transient failure (rate-limited,
// timeout, server error, malformed payload).
type ErrProviderUnavailable struct {
	Provider   ProviderName
	Cause      error
	RetryAfter time.Duration
}

func (e *ErrProviderUnavailable) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Cause)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Cause }

// ErrNotFound indicates the provider has no data for the requested entity.
type ErrNotFound struct {
	Provider ProviderName
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("provider %s: %s not found", e.Provider, e.ID)
}

// ErrAuthRequired indicates the provider needs a credential but none is
// configured.
type ErrAuthRequired struct {
	Provider ProviderName
}

func (e *ErrAuthRequired) Error() string {
	return fmt.Sprintf("provider %s: credential not configured", e.Provider)
}
