package story

import "testing"

func TestTopArtist(t *testing.T) {
	if TopArtist(nil) != nil {
		t.Error("empty list should yield nil")
	}
	artists := []Artist{{Name: "First"}, {Name: "Second"}}
	if got := TopArtist(artists); got == nil || got.Name != "First" {
		t.Errorf("got %+v, want the pre-ranked head", got)
	}
}

func TestTopGenres(t *testing.T) {
	artists := []Artist{
		{Genres: []string{"rock", "pop"}},
		{Genres: []string{"rock"}},
		{Genres: []string{}},
	}
	got := TopGenres(artists)
	if len(got) != 2 {
		t.Fatalf("got %d genres, want 2", len(got))
	}
	if got[0].Genre != "rock" || got[0].Count != 2 {
		t.Errorf("got[0] = %+v, want rock:2", got[0])
	}
	if got[1].Genre != "pop" || got[1].Count != 1 {
		t.Errorf("got[1] = %+v, want pop:1", got[1])
	}
}

func TestTopGenresStableTieBreak(t *testing.T) {
	artists := []Artist{
		{Genres: []string{"mpb", "bossa nova", "samba"}},
		{Genres: []string{"bossa nova", "mpb", "samba"}},
	}
	got := TopGenres(artists)
	want := []string{"mpb", "bossa nova", "samba"}
	for i, g := range got {
		if g.Genre != want[i] {
			t.Errorf("got[%d] = %q, want first-encountered order %q", i, g.Genre, want[i])
		}
	}
}

func TestTopGenresTruncatesToFive(t *testing.T) {
	artists := []Artist{{Genres: []string{"a", "b", "c", "d", "e", "f", "g"}}}
	if got := TopGenres(artists); len(got) != 5 {
		t.Errorf("len = %d, want 5", len(got))
	}
}

func TestTopGenresEmptyInput(t *testing.T) {
	if got := TopGenres(nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
