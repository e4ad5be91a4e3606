package story

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcosta/rewindfm/internal/period"
	"github.com/mcosta/rewindfm/internal/provider/lastfm"
	"github.com/mcosta/rewindfm/internal/provider/spotify"
)

// Source selects where the listening data comes from.
type Source string

const (
	// SourcePublicHandle reads a public Last.fm profile by username.
	SourcePublicHandle Source = "public-handle"
	// SourceConnectedAccount reads the configured Spotify account.
	SourceConnectedAccount Source = "connected-account"
)

// TileLimit bounds how many artists get tiles, and therefore how many
// image resolutions one request may fan out.
const TileLimit = 12

// MaxUsernameLength bounds the accepted Last.fm handle length.
const MaxUsernameLength = 64

var (
	// ErrMissingUsername is returned when the public-handle source has no handle.
	ErrMissingUsername = errors.New("username is required")
	// ErrInvalidUsername is returned for an oversized handle.
	ErrInvalidUsername = errors.New("username too long")
	// ErrNoCredentials is returned when the connected-account source is
	// requested but no Spotify credentials are configured.
	ErrNoCredentials = errors.New("no connected account credentials")
)

// Request describes one story build.
type Request struct {
	Source   Source
	Username string
	Period   string
	Year     string
	Template string
}

// Story is the normalized output handed to the renderer.
type Story struct {
	Source      Source       `json:"source"`
	Username    string       `json:"username,omitempty"`
	PeriodLabel string       `json:"periodLabel"`
	Template    string       `json:"template"`
	Artists     []Artist     `json:"artists"`
	TopArtist   *Artist      `json:"topArtist"`
	TopGenres   []GenreCount `json:"topGenres"`
}

// lastfmSource is the slice of the Last.fm client the service consumes.
type lastfmSource interface {
	TopArtists(ctx context.Context, user, bucket string) ([]lastfm.TopArtist, error)
	TopArtistsInRange(ctx context.Context, user string, from, to int64) ([]lastfm.ChartArtist, error)
}

// spotifySource is the slice of the Spotify client the service consumes.
type spotifySource interface {
	TopArtists(ctx context.Context, timeRange string) ([]spotify.Artist, error)
}

// Recorder is the write-only persistence sink. It runs after the response
// data is assembled and must never block or fail a story build.
type Recorder interface {
	RecordStory(ctx context.Context, username, periodToken string, artists []Artist) error
}

// Service orchestrates one story build end to end.
type Service struct {
	lastfm    lastfmSource
	spotify   spotifySource
	resolver  *Resolver
	recorder  Recorder
	logger    *slog.Logger
	tileLimit int
}

// NewService creates the story service. spotify and recorder may be nil when
// the connected-account source or persistence is not configured.
func NewService(lfm lastfmSource, sp spotifySource, resolver *Resolver, recorder Recorder, logger *slog.Logger, tileLimit int) *Service {
	if tileLimit <= 0 {
		tileLimit = TileLimit
	}
	return &Service{
		lastfm:    lfm,
		spotify:   sp,
		resolver:  resolver,
		recorder:  recorder,
		logger:    logger.With(slog.String("component", "story")),
		tileLimit: tileLimit,
	}
}

// Build assembles the story for a request at the given instant: fetch the
// ranked artist list, bound it to the tile limit, resolve images
// concurrently, and aggregate. A Last.fm not-found error passes through for
// the handler to map to a 404.
func (s *Service) Build(ctx context.Context, req Request, now time.Time) (*Story, error) {
	p := period.Parse(req.Period)
	year := period.ParseYear(req.Year, now)

	var (
		artists []Artist
		err     error
	)
	switch req.Source {
	case SourceConnectedAccount:
		artists, err = s.connectedArtists(ctx, p)
	default:
		artists, err = s.publicArtists(ctx, req.Username, p, year, now)
	}
	if err != nil {
		return nil, err
	}

	artists = Truncate(artists, s.tileLimit)
	s.resolver.ResolveAll(ctx, artists)

	st := &Story{
		Source:      req.Source,
		Username:    req.Username,
		PeriodLabel: p.Label(year),
		Template:    req.Template,
		Artists:     artists,
		TopArtist:   TopArtist(artists),
		TopGenres:   TopGenres(artists),
	}

	s.record(ctx, req.Username, string(p), artists)
	return st, nil
}

func (s *Service) publicArtists(ctx context.Context, username string, p period.Period, year int, now time.Time) ([]Artist, error) {
	if username == "" {
		return nil, ErrMissingUsername
	}
	if len(username) > MaxUsernameLength {
		return nil, ErrInvalidUsername
	}

	if r, ok := p.Resolve(now, year); ok {
		chart, err := s.lastfm.TopArtistsInRange(ctx, username, r.From, r.To)
		if err == nil {
			return NormalizeLastFMChart(chart), nil
		}
		if lastfm.IsNotFound(err) {
			return nil, err
		}
		// Date-ranged charts reject some windows; the bucketed period is
		// the sanctioned fallback.
		s.logger.Warn("date-ranged chart failed, falling back to bucketed period",
			slog.String("period", string(p)),
			slog.String("error", err.Error()))
	}

	top, err := s.lastfm.TopArtists(ctx, username, p.Bucket())
	if err != nil {
		return nil, err
	}
	return NormalizeLastFMTop(top), nil
}

func (s *Service) connectedArtists(ctx context.Context, p period.Period) ([]Artist, error) {
	if s.spotify == nil {
		return nil, ErrNoCredentials
	}
	artists, err := s.spotify.TopArtists(ctx, p.SpotifyRange())
	if err != nil {
		return nil, err
	}
	return NormalizeSpotify(artists), nil
}

// record hands the artist list to the persistence sink without ever holding
// up or failing the response.
func (s *Service) record(ctx context.Context, username, periodToken string, artists []Artist) {
	if s.recorder == nil || username == "" || len(artists) == 0 {
		return
	}

	snapshot := make([]Artist, len(artists))
	copy(snapshot, artists)

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	go func() {
		defer cancel()
		if err := s.recorder.RecordStory(bg, username, periodToken, snapshot); err != nil {
			s.logger.Warn("recording story failed", slog.String("error", err.Error()))
		}
	}()
}
