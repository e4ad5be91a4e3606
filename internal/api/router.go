// Package api wires the HTTP surface: the story image endpoint, chart-year
// discovery, coverless-artist reporting, and health.
package api

import (
	"context"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcosta/rewindfm/internal/api/middleware"
	"github.com/mcosta/rewindfm/internal/render"
	"github.com/mcosta/rewindfm/internal/store"
	"github.com/mcosta/rewindfm/internal/story"
)

// storyBuilder is the slice of the story service the handlers consume.
type storyBuilder interface {
	Build(ctx context.Context, req story.Request, now time.Time) (*story.Story, error)
}

// storyRenderer rasterizes a built story.
type storyRenderer interface {
	Render(ctx context.Context, templateID string, data render.Data) (image.Image, error)
}

// chartYears discovers which calendar years hold listening data.
type chartYears interface {
	AvailableChartYears(ctx context.Context, user string) ([]int, error)
}

// missingArtists lists artists with no resolvable cover.
type missingArtists interface {
	ListArtistsWithoutCover(ctx context.Context, limit int) ([]store.MissingArtist, error)
}

// RouterDeps bundles all dependencies needed by the HTTP router.
type RouterDeps struct {
	Stories  storyBuilder
	Renderer storyRenderer
	LastFM   chartYears
	Store    missingArtists
	Logger   *slog.Logger
	BasePath string
}

// Router sets up all HTTP routes for the application.
type Router struct {
	stories  storyBuilder
	renderer storyRenderer
	lastfm   chartYears
	store    missingArtists
	logger   *slog.Logger
	basePath string
}

// NewRouter creates a new Router with all routes configured.
func NewRouter(deps RouterDeps) *Router {
	return &Router{
		stories:  deps.Stories,
		renderer: deps.Renderer,
		lastfm:   deps.LastFM,
		store:    deps.Store,
		logger:   deps.Logger,
		basePath: deps.BasePath,
	}
}

// Handler returns the fully configured HTTP handler with middleware applied.
func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	bp := r.basePath

	mux.HandleFunc("GET "+bp+"/api/v1/story", r.handleStory)
	mux.HandleFunc("GET "+bp+"/api/v1/lastfm/years", r.handleChartYears)
	mux.HandleFunc("GET "+bp+"/api/v1/artists/without-cover", r.handleArtistsWithoutCover)
	mux.HandleFunc("GET "+bp+"/api/v1/health", r.handleHealth)

	return middleware.Logging(r.logger)(mux)
}
