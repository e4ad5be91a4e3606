package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mcosta/rewindfm/internal/story"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestRenderGridCanvasSize(t *testing.T) {
	r := New(nil, testLogger(), 0)
	img, err := r.Render(context.Background(), TemplateGrid, Data{PeriodLabel: "This Week"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != CanvasWidth || b.Dy() != CanvasHeight {
		t.Errorf("canvas = %dx%d, want %dx%d", b.Dx(), b.Dy(), CanvasWidth, CanvasHeight)
	}
}

func TestRenderEmptyStoryDoesNotFail(t *testing.T) {
	r := New(nil, testLogger(), 0)
	if _, err := r.Render(context.Background(), TemplateGrid, Data{}); err != nil {
		t.Fatalf("empty data must still render: %v", err)
	}
	if _, err := r.Render(context.Background(), TemplateTopArtist, Data{}); err != nil {
		t.Fatalf("empty top-artist data must still render: %v", err)
	}
}

func TestRenderUnknownTemplateFallsBackToGrid(t *testing.T) {
	r := New(nil, testLogger(), 0)
	if _, err := r.Render(context.Background(), "mystery", Data{PeriodLabel: "All Time"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestRenderDrawsDataURITile(t *testing.T) {
	red := pngBytes(t, color.RGBA{R: 200, A: 255})
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(red)

	r := New(nil, testLogger(), 0)
	img, err := r.Render(context.Background(), TemplateGrid, Data{
		Artists: []Tile{{Name: "Radiohead", ImageURL: uri}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// First tile starts at (20, 220); sample inside it.
	got := img.At(100, 300)
	rr, _, _, _ := got.RGBA()
	if rr>>8 < 100 {
		t.Errorf("tile pixel = %v, expected the red inlined image", got)
	}
}

func TestRenderFetchesRemoteTile(t *testing.T) {
	blue := pngBytes(t, color.RGBA{B: 220, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(blue)
	}))
	defer srv.Close()

	r := New(srv.Client(), testLogger(), 0)
	img, err := r.Render(context.Background(), TemplateTopArtist, Data{
		PeriodLabel: "Year 2020",
		Artists:     []Tile{{Name: "Radiohead", ImageURL: srv.URL + "/a.png"}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := img.At(CanvasWidth/2, 800)
	_, _, bb, _ := got.RGBA()
	if bb>>8 < 100 {
		t.Errorf("tile pixel = %v, expected the blue remote image", got)
	}
}

func TestRenderBrokenImageFallsBackToPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := New(srv.Client(), testLogger(), 0)
	if _, err := r.Render(context.Background(), TemplateGrid, Data{
		Artists: []Tile{{Name: "Ghost", ImageURL: srv.URL + "/broken.png"}},
	}); err != nil {
		t.Fatalf("broken tile image must not fail the render: %v", err)
	}
}

func TestLoadImageEnforcesByteCeiling(t *testing.T) {
	big := pngBytes(t, color.RGBA{G: 255, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	r := New(srv.Client(), testLogger(), 16)
	if _, err := r.loadImage(context.Background(), srv.URL+"/a.png"); err == nil {
		t.Fatal("oversized remote image must be rejected")
	}
}

func TestDecodeDataURIMalformed(t *testing.T) {
	if _, err := decodeDataURI("data:image/png,plain"); err == nil {
		t.Fatal("expected error for non-base64 data URI")
	}
	if _, err := decodeDataURI("data:image/png;base64,!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("short", 24); got != "short" {
		t.Errorf("got %q", got)
	}
	long := "An Exceptionally Long Artist Name Indeed"
	got := truncateLabel(long, 10)
	if len([]rune(got)) != 10 {
		t.Errorf("truncated to %d runes, want 10", len([]rune(got)))
	}
}

func TestFromStory(t *testing.T) {
	st := &story.Story{
		PeriodLabel: "This Week",
		Artists: []story.Artist{
			{Name: "Radiohead", ImageURL: "https://img/r.png"},
			{Name: "Coverless"},
		},
		TopGenres: []story.GenreCount{{Genre: "rock", Count: 2}},
	}
	d := FromStory(st)
	if d.PeriodLabel != "This Week" || len(d.Artists) != 2 || len(d.TopGenres) != 1 {
		t.Errorf("data = %+v", d)
	}
	if d.Artists[1].ImageURL != "" {
		t.Errorf("coverless artist image = %q", d.Artists[1].ImageURL)
	}
}
