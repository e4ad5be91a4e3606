package api

import (
	"log/slog"
	"net/http"
	"strconv"
)

// handleArtistsWithoutCover reports artists that exhausted every image
// source, most-missed first.
func (r *Router) handleArtistsWithoutCover(w http.ResponseWriter, req *http.Request) {
	limit := 100
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 1000")
			return
		}
		limit = n
	}

	artists, err := r.store.ListArtistsWithoutCover(req.Context(), limit)
	if err != nil {
		r.logger.Error("listing coverless artists failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "listing artists failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"artists": artists})
}
