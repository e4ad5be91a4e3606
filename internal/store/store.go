// Package store persists request bookkeeping: seen Last.fm users, their
// per-period top artists, artists with no resolvable cover image, and
// sealed credentials.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcosta/rewindfm/internal/encryption"
)

// ErrCredentialNotFound is returned when a named credential has never been
// stored.
var ErrCredentialNotFound = errors.New("credential not found")

// PeriodArtist is one ranked artist captured for a (user, period) pair.
type PeriodArtist struct {
	Name      string
	MBID      string
	PlayCount int
	Rank      int
}

// MissingArtist is an artist for whom every image source came up empty.
type MissingArtist struct {
	Name         string    `json:"name"`
	MBID         string    `json:"mbid,omitempty"`
	MissCount    int       `json:"missCount"`
	LastMissedAt time.Time `json:"lastMissedAt"`
}

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	enc    *encryption.Encryptor
	logger *slog.Logger
}

// New creates a Store over an open database.
func New(db *sql.DB, enc *encryption.Encryptor, logger *slog.Logger) *Store {
	return &Store{db: db, enc: enc, logger: logger.With(slog.String("component", "store"))}
}

// UpsertUser records a sighting of a Last.fm username and returns the user's
// stable internal ID.
func (s *Store) UpsertUser(ctx context.Context, username string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return "", errors.New("empty username")
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lastfm_users (id, username, request_count) VALUES (?, ?, 1)
		ON CONFLICT(username) DO UPDATE SET
			last_seen_at = CURRENT_TIMESTAMP,
			request_count = request_count + 1`,
		id, username)
	if err != nil {
		return "", fmt.Errorf("upserting user: %w", err)
	}

	var userID string
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM lastfm_users WHERE username = ?`, username).Scan(&userID); err != nil {
		return "", fmt.Errorf("reading user id: %w", err)
	}
	return userID, nil
}

// SavePeriodArtists replaces the captured artist set for a (user, period)
// pair. Artists deduplicate by case-folded name, first occurrence wins.
func (s *Store) SavePeriodArtists(ctx context.Context, userID, period string, artists []PeriodArtist) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM lastfm_period_artists WHERE user_id = ? AND period = ?`,
		userID, period); err != nil {
		return fmt.Errorf("clearing previous capture: %w", err)
	}

	seen := make(map[string]bool, len(artists))
	for _, a := range artists {
		key := strings.ToLower(strings.TrimSpace(a.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lastfm_period_artists (id, user_id, period, artist_name, artist_mbid, play_count, rank)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), userID, period, a.Name, a.MBID, a.PlayCount, a.Rank); err != nil {
			return fmt.Errorf("inserting period artist: %w", err)
		}
	}

	return tx.Commit()
}

// RecordArtistWithoutCover notes that no source produced an image for the
// artist, bumping the miss counter on repeats.
func (s *Store) RecordArtistWithoutCover(ctx context.Context, name, mbid string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("empty artist name")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artists_without_cover (id, artist_name, artist_mbid) VALUES (?, ?, ?)
		ON CONFLICT(artist_name) DO UPDATE SET
			miss_count = miss_count + 1,
			last_missed_at = CURRENT_TIMESTAMP,
			artist_mbid = CASE WHEN excluded.artist_mbid != '' THEN excluded.artist_mbid ELSE artist_mbid END`,
		uuid.NewString(), name, mbid)
	if err != nil {
		return fmt.Errorf("recording coverless artist: %w", err)
	}
	return nil
}

// ListArtistsWithoutCover returns coverless artists, most-missed first.
func (s *Store) ListArtistsWithoutCover(ctx context.Context, limit int) ([]MissingArtist, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT artist_name, artist_mbid, miss_count, last_missed_at
		FROM artists_without_cover
		ORDER BY miss_count DESC, artist_name ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing coverless artists: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	artists := []MissingArtist{}
	for rows.Next() {
		var a MissingArtist
		if err := rows.Scan(&a.Name, &a.MBID, &a.MissCount, &a.LastMissedAt); err != nil {
			return nil, fmt.Errorf("scanning coverless artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// SaveCredential seals and stores a named secret.
func (s *Store) SaveCredential(ctx context.Context, name, value string) error {
	sealed, err := s.enc.Encrypt(value)
	if err != nil {
		return fmt.Errorf("sealing credential: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		name, sealed)
	if err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	return nil
}

// LoadCredential opens a named secret stored by SaveCredential.
func (s *Store) LoadCredential(ctx context.Context, name string) (string, error) {
	var sealed string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE name = ?`, name).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrCredentialNotFound
	}
	if err != nil {
		return "", fmt.Errorf("loading credential: %w", err)
	}
	return s.enc.Decrypt(sealed)
}
