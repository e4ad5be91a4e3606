package api

import (
	"log/slog"
	"net/http"

	"github.com/mcosta/rewindfm/internal/provider/lastfm"
	"github.com/mcosta/rewindfm/internal/story"
)

// handleChartYears lists the calendar years for which the user has any
// listening data, for populating a specific-year picker.
func (r *Router) handleChartYears(w http.ResponseWriter, req *http.Request) {
	username := req.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if len(username) > story.MaxUsernameLength {
		writeError(w, http.StatusBadRequest, "username too long")
		return
	}

	years, err := r.lastfm.AvailableChartYears(req.Context(), username)
	if err != nil {
		if lastfm.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		r.logger.Error("listing chart years failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "listing chart years failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}
