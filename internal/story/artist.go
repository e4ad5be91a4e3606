// Package story builds the shareable listening summary: it normalizes
// provider artist lists, resolves artist images through the fallback chain,
// and aggregates top-artist and top-genre facts for the renderer.
package story

import (
	"fmt"
	"strconv"

	"github.com/mcosta/rewindfm/internal/provider/lastfm"
	"github.com/mcosta/rewindfm/internal/provider/spotify"
)

// Artist is the canonical artist shape the renderer and persistence sink
// consume. ID falls back to "name-index" when the provider supplies no
// stable identifier; such IDs are only unique within one result list.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	MBID       string   `json:"mbid,omitempty"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	PlayCount  int      `json:"playCount"`
	ImageURL   string   `json:"imageUrl,omitempty"`

	// Image candidates embedded in the bulk response, consumed by the
	// first resolution tier. Chart responses carry none.
	candidates []lastfm.Image
}

// NormalizeLastFMTop converts a ranked top-artists response.
func NormalizeLastFMTop(artists []lastfm.TopArtist) []Artist {
	out := make([]Artist, 0, len(artists))
	for i, a := range artists {
		plays := parseCount(a.PlayCount)
		out = append(out, Artist{
			ID:         fallbackID(a.MBID, a.Name, i),
			Name:       a.Name,
			MBID:       a.MBID,
			Genres:     []string{},
			Popularity: plays,
			PlayCount:  plays,
			candidates: a.Images,
		})
	}
	return out
}

// NormalizeLastFMChart converts a date-ranged chart response. Chart entries
// have no embedded image candidates.
func NormalizeLastFMChart(artists []lastfm.ChartArtist) []Artist {
	out := make([]Artist, 0, len(artists))
	for i, a := range artists {
		plays := parseCount(a.PlayCount)
		out = append(out, Artist{
			ID:         fallbackID(a.MBID, a.Name, i),
			Name:       a.Name,
			MBID:       a.MBID,
			Genres:     []string{},
			Popularity: plays,
			PlayCount:  plays,
		})
	}
	return out
}

// NormalizeSpotify converts a Spotify top-artists response. Spotify records
// carry genres and a 0-100 popularity score but no play counts.
func NormalizeSpotify(artists []spotify.Artist) []Artist {
	out := make([]Artist, 0, len(artists))
	for i, a := range artists {
		genres := a.Genres
		if genres == nil {
			genres = []string{}
		}
		out = append(out, Artist{
			ID:         fallbackID(a.ID, a.Name, i),
			Name:       a.Name,
			Genres:     genres,
			Popularity: a.Popularity,
			ImageURL:   spotify.BestImage(a.Images),
		})
	}
	return out
}

// Truncate bounds a normalized list to the tile limit before any image
// resolution work happens.
func Truncate(artists []Artist, limit int) []Artist {
	if limit > 0 && len(artists) > limit {
		return artists[:limit]
	}
	return artists
}

func fallbackID(id, name string, index int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", name, index)
}

// parseCount parses a best-effort numeric string, defaulting to 0.
func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
