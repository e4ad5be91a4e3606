package api

import (
	"errors"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcosta/rewindfm/internal/provider/lastfm"
	"github.com/mcosta/rewindfm/internal/render"
	"github.com/mcosta/rewindfm/internal/story"
)

// handleStory builds and rasterizes a listening story. The response is a
// PNG; only input and top-level fetch errors produce a non-image response.
func (r *Router) handleStory(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	storyReq := story.Request{
		Source:   story.Source(q.Get("source")),
		Username: q.Get("username"),
		Period:   q.Get("period"),
		Year:     q.Get("year"),
		Template: q.Get("template"),
	}
	if storyReq.Source == "" {
		// A supplied handle implies the public profile; otherwise the
		// connected account is the only possible source.
		if storyReq.Username != "" {
			storyReq.Source = story.SourcePublicHandle
		} else {
			storyReq.Source = story.SourceConnectedAccount
		}
	}

	st, err := r.stories.Build(req.Context(), storyReq, time.Now().UTC())
	if err != nil {
		r.writeStoryError(w, err)
		return
	}

	img, err := r.renderer.Render(req.Context(), st.Template, render.FromStory(st))
	if err != nil {
		r.logger.Error("rendering story failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	// The image is user- and instant-specific.
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := png.Encode(w, img); err != nil {
		r.logger.Warn("writing story image failed", slog.String("error", err.Error()))
	}
}

func (r *Router) writeStoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, story.ErrMissingUsername),
		errors.Is(err, story.ErrInvalidUsername),
		errors.Is(err, story.ErrNoCredentials):
		writeError(w, http.StatusBadRequest, err.Error())
	case lastfm.IsNotFound(err):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		r.logger.Error("building story failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "fetching listening data failed")
	}
}
