package story

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/mcosta/rewindfm/internal/provider/lastfm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSource counts calls and returns a fixed result.
type fakeSource struct {
	name  string
	url   string
	err   error
	calls atomic.Int32
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) ArtistImage(_ context.Context, _ Artist) (string, error) {
	f.calls.Add(1)
	return f.url, f.err
}

func TestResolveShortCircuitsOnFirstHit(t *testing.T) {
	first := &fakeSource{name: "first", url: "https://img/first.png"}
	second := &fakeSource{name: "second", url: "https://img/second.png"}

	r := NewResolver(discardLogger(), first, second)
	artists := []Artist{{Name: "Radiohead"}}
	r.ResolveAll(context.Background(), artists)

	if artists[0].ImageURL != "https://img/first.png" {
		t.Errorf("image = %q", artists[0].ImageURL)
	}
	if second.calls.Load() != 0 {
		t.Errorf("second tier was called %d times, want 0", second.calls.Load())
	}
}

func TestResolveFallsThroughOnMissAndError(t *testing.T) {
	miss := &fakeSource{name: "miss"}
	broken := &fakeSource{name: "broken", err: errors.New("boom")}
	hit := &fakeSource{name: "hit", url: "https://img/last.png"}

	r := NewResolver(discardLogger(), miss, broken, hit)
	artists := []Artist{{Name: "Radiohead"}}
	r.ResolveAll(context.Background(), artists)

	if artists[0].ImageURL != "https://img/last.png" {
		t.Errorf("image = %q, want the last tier's hit", artists[0].ImageURL)
	}
}

func TestResolveExhaustedChainLeavesImageEmpty(t *testing.T) {
	r := NewResolver(discardLogger(),
		&fakeSource{name: "a"},
		&fakeSource{name: "b", err: errors.New("down")})
	artists := []Artist{{Name: "Obscure"}, {Name: "Also Obscure"}}
	r.ResolveAll(context.Background(), artists)

	for _, a := range artists {
		if a.ImageURL != "" {
			t.Errorf("%s image = %q, want empty terminal state", a.Name, a.ImageURL)
		}
	}
}

func TestResolveSkipsArtistsWithImages(t *testing.T) {
	src := &fakeSource{name: "src", url: "https://img/x.png"}
	r := NewResolver(discardLogger(), src)
	artists := []Artist{{Name: "Done", ImageURL: "https://already/there.png"}}
	r.ResolveAll(context.Background(), artists)

	if src.calls.Load() != 0 {
		t.Errorf("source called %d times for a pre-resolved artist", src.calls.Load())
	}
	if artists[0].ImageURL != "https://already/there.png" {
		t.Errorf("image = %q", artists[0].ImageURL)
	}
}

func TestResolveOneFailureDoesNotAbortOthers(t *testing.T) {
	// Returns an error for one artist, a hit for everyone else.
	picky := &pickySource{failFor: "Cursed"}
	r := NewResolver(discardLogger(), picky)
	artists := []Artist{{Name: "Cursed"}, {Name: "Fine"}}
	r.ResolveAll(context.Background(), artists)

	if artists[0].ImageURL != "" {
		t.Errorf("cursed artist image = %q, want empty", artists[0].ImageURL)
	}
	if artists[1].ImageURL != "https://img/fine.png" {
		t.Errorf("fine artist image = %q", artists[1].ImageURL)
	}
}

type pickySource struct {
	failFor string
}

func (p *pickySource) Name() string { return "picky" }

func (p *pickySource) ArtistImage(_ context.Context, a Artist) (string, error) {
	if a.Name == p.failFor {
		return "", errors.New("refused")
	}
	return "https://img/fine.png", nil
}

func TestEmbeddedSourceUsesCandidates(t *testing.T) {
	src := &EmbeddedSource{Inliner: NewInliner(nil, 0)}
	artist := Artist{
		Name: "Radiohead",
		candidates: []lastfm.Image{
			{URL: "https://www.theaudiodb.com/mega.png", Size: "mega"},
		},
	}
	got, err := src.ArtistImage(context.Background(), artist)
	if err != nil {
		t.Fatalf("ArtistImage: %v", err)
	}
	if got != "https://www.theaudiodb.com/mega.png" {
		t.Errorf("image = %q", got)
	}
}

func TestEmbeddedSourceMissOnPlaceholders(t *testing.T) {
	src := &EmbeddedSource{Inliner: NewInliner(nil, 0)}
	artist := Artist{
		Name: "Ghost",
		candidates: []lastfm.Image{
			{URL: "https://img/2a96cbd8b46e442fc41c2b86b821562f.png", Size: "extralarge"},
		},
	}
	got, err := src.ArtistImage(context.Background(), artist)
	if err != nil {
		t.Fatalf("ArtistImage: %v", err)
	}
	if got != "" {
		t.Errorf("image = %q, want miss for placeholder-only candidates", got)
	}
}
