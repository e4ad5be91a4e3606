package story

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcosta/rewindfm/internal/provider/lastfm"
)

// ImageSource is one tier of the image fallback chain. An empty URL with a
// nil error means the source has nothing for this artist; an error means the
// attempt failed. The caller treats both by moving to the next tier.
type ImageSource interface {
	Name() string
	ArtistImage(ctx context.Context, artist Artist) (string, error)
}

// Resolver runs the fallback chain for every artist in a list concurrently.
type Resolver struct {
	sources []ImageSource
	logger  *slog.Logger
}

// NewResolver creates a Resolver trying sources in the given order.
func NewResolver(logger *slog.Logger, sources ...ImageSource) *Resolver {
	return &Resolver{
		sources: sources,
		logger:  logger.With(slog.String("component", "resolver")),
	}
}

// ResolveAll fills in ImageURL for every artist, fanning out one goroutine
// per artist. Artists that already carry an image are left alone. An
// exhausted chain leaves the image empty, which is a normal terminal state.
func (r *Resolver) ResolveAll(ctx context.Context, artists []Artist) {
	var wg sync.WaitGroup
	for i := range artists {
		if artists[i].ImageURL != "" {
			continue
		}
		wg.Add(1)
		go func(a *Artist) {
			defer wg.Done()
			a.ImageURL = r.resolve(ctx, *a)
		}(&artists[i])
	}
	wg.Wait()
}

// resolve tries each source in order and returns the first hit. Tier
// failures are logged and skipped; they never abort other artists.
func (r *Resolver) resolve(ctx context.Context, artist Artist) string {
	for _, src := range r.sources {
		imageURL, err := src.ArtistImage(ctx, artist)
		if err != nil {
			r.logger.Debug("image source failed",
				slog.String("source", src.Name()),
				slog.String("artist", artist.Name),
				slog.String("error", err.Error()))
			continue
		}
		if imageURL != "" {
			return imageURL
		}
	}
	r.logger.Debug("no image found", slog.String("artist", artist.Name))
	return ""
}

// EmbeddedSource serves images from the candidates embedded in the bulk
// provider response. First tier of the chain.
type EmbeddedSource struct {
	Inliner *Inliner
}

func (s *EmbeddedSource) Name() string { return "embedded" }

func (s *EmbeddedSource) ArtistImage(ctx context.Context, artist Artist) (string, error) {
	best := lastfm.BestImage(artist.candidates)
	if best == "" {
		return "", nil
	}
	return s.Inliner.Process(ctx, best)
}

// artistInfoClient is the slice of the Last.fm client the info tier needs.
type artistInfoClient interface {
	ArtistInfo(ctx context.Context, mbid, name string) (*lastfm.ArtistInfo, error)
}

// LastFMInfoSource re-queries Last.fm for a single artist whose bulk entry
// had no usable candidates. Second tier.
type LastFMInfoSource struct {
	Client  artistInfoClient
	Inliner *Inliner
}

func (s *LastFMInfoSource) Name() string { return "lastfm-info" }

func (s *LastFMInfoSource) ArtistImage(ctx context.Context, artist Artist) (string, error) {
	info, err := s.Client.ArtistInfo(ctx, artist.MBID, artist.Name)
	if err != nil {
		return "", err
	}
	best := lastfm.BestImage(info.Images)
	if best == "" {
		return "", nil
	}
	return s.Inliner.Process(ctx, best)
}

type audioDBClient interface {
	ArtistImage(ctx context.Context, mbid, name string) (string, error)
}

// AudioDBSource is the TheAudioDB tier.
type AudioDBSource struct {
	Client audioDBClient
}

func (s *AudioDBSource) Name() string { return "audiodb" }

func (s *AudioDBSource) ArtistImage(ctx context.Context, artist Artist) (string, error) {
	return s.Client.ArtistImage(ctx, artist.MBID, artist.Name)
}

type wikidataClient interface {
	ArtistImage(ctx context.Context, name string) (string, error)
}

// WikidataSource is the Wikidata/Commons tier.
type WikidataSource struct {
	Client wikidataClient
}

func (s *WikidataSource) Name() string { return "wikidata" }

func (s *WikidataSource) ArtistImage(ctx context.Context, artist Artist) (string, error) {
	return s.Client.ArtistImage(ctx, artist.Name)
}

type spotifySearchClient interface {
	SearchArtistImage(ctx context.Context, name string) (string, error)
}

// SpotifySource is the last-resort search tier. It is only added to the
// chain when Spotify credentials are configured.
type SpotifySource struct {
	Client spotifySearchClient
}

func (s *SpotifySource) Name() string { return "spotify" }

func (s *SpotifySource) ArtistImage(ctx context.Context, artist Artist) (string, error) {
	return s.Client.SearchArtistImage(ctx, artist.Name)
}
