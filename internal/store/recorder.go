package store

import (
	"context"
	"fmt"

	"github.com/mcosta/rewindfm/internal/story"
)

// Recorder adapts the Store to the story service's write-only sink.
type Recorder struct {
	store *Store
}

// NewRecorder wraps a Store.
func NewRecorder(s *Store) *Recorder {
	return &Recorder{store: s}
}

// RecordStory books a story build: the requesting user, the period's artist
// snapshot, and any artist that ended up with no image. Synthesized
// "name-index" artist IDs are not stable across calls, so rows key on the
// artist name instead.
func (r *Recorder) RecordStory(ctx context.Context, username, periodToken string, artists []story.Artist) error {
	userID, err := r.store.UpsertUser(ctx, username)
	if err != nil {
		return err
	}

	captured := make([]PeriodArtist, 0, len(artists))
	for i, a := range artists {
		captured = append(captured, PeriodArtist{
			Name:      a.Name,
			MBID:      a.MBID,
			PlayCount: a.PlayCount,
			Rank:      i + 1,
		})
	}
	if err := r.store.SavePeriodArtists(ctx, userID, periodToken, captured); err != nil {
		return err
	}

	for _, a := range artists {
		if a.ImageURL != "" {
			continue
		}
		if err := r.store.RecordArtistWithoutCover(ctx, a.Name, a.MBID); err != nil {
			return fmt.Errorf("recording coverless artist %q: %w", a.Name, err)
		}
	}
	return nil
}
