package audiodb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcosta/rewindfm/internal/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return data
}

func TestArtistImageByMBID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/2/artist-mb.php") {
			t.Errorf("path = %q, want default-key mbid lookup", r.URL.Path)
		}
		if r.URL.Query().Get("i") != "a74b1b7f-71a5-4011-9441-d0b5e4122711" {
			t.Errorf("i = %q", r.URL.Query().Get("i"))
		}
		_, _ = w.Write(readFixture(t, "artist_mb.json"))
	}))
	defer srv.Close()

	c := NewWithBaseURL("", provider.NewRateLimiterMap(), testLogger(), srv.URL)
	img, err := c.ArtistImage(context.Background(), "a74b1b7f-71a5-4011-9441-d0b5e4122711", "Radiohead")
	if err != nil {
		t.Fatalf("ArtistImage: %v", err)
	}
	if want := "https://www.theaudiodb.com/images/media/artist/thumb/radiohead.jpg"; img != want {
		t.Errorf("image = %q, want thumb %q", img, want)
	}
}

func TestArtistImageFallsBackToNameSearch(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, filepath.Base(r.URL.Path))
		switch {
		case strings.HasSuffix(r.URL.Path, "artist-mb.php"):
			_, _ = w.Write(readFixture(t, "not_found.json"))
		case strings.HasSuffix(r.URL.Path, "search.php"):
			if r.URL.Query().Get("s") != "Elis Regina" {
				t.Errorf("s = %q", r.URL.Query().Get("s"))
			}
			_, _ = w.Write(readFixture(t, "search_fanart_only.json"))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", provider.NewRateLimiterMap(), testLogger(), srv.URL)
	img, err := c.ArtistImage(context.Background(), "bad-mbid", "Elis Regina")
	if err != nil {
		t.Fatalf("ArtistImage: %v", err)
	}
	if want := "https://www.theaudiodb.com/images/media/artist/fanart/elis-regina.jpg"; img != want {
		t.Errorf("image = %q, want upgraded fanart %q", img, want)
	}
	if len(calls) != 2 || calls[0] != "artist-mb.php" || calls[1] != "search.php" {
		t.Errorf("calls = %v, want mbid lookup then name search", calls)
	}
}

func TestArtistImageNameOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "search.php") {
			t.Errorf("mbid-less lookup should search by name, path = %q", r.URL.Path)
		}
		_, _ = w.Write(readFixture(t, "search_fanart_only.json"))
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", provider.NewRateLimiterMap(), testLogger(), srv.URL)
	if _, err := c.ArtistImage(context.Background(), "", "Elis Regina"); err != nil {
		t.Fatalf("ArtistImage: %v", err)
	}
}

func TestArtistImageNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(readFixture(t, "not_found.json"))
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", provider.NewRateLimiterMap(), testLogger(), srv.URL)
	img, err := c.ArtistImage(context.Background(), "", "Nobody")
	if err != nil {
		t.Fatalf("ArtistImage: %v", err)
	}
	if img != "" {
		t.Errorf("image = %q, want empty for no match", img)
	}
}

func TestArtistImageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", provider.NewRateLimiterMap(), testLogger(), srv.URL)
	_, err := c.ArtistImage(context.Background(), "", "Radiohead")
	var unavailable *provider.ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("error type = %T, want ErrProviderUnavailable", err)
	}
}
