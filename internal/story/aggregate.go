package story

import "sort"

// GenreCount is one genre with its frequency across the artist list.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// topGenreLimit bounds the genre ranking.
const topGenreLimit = 5

// TopArtist returns the first artist of a pre-ranked list, or nil when the
// list is empty.
func TopArtist(artists []Artist) *Artist {
	if len(artists) == 0 {
		return nil
	}
	return &artists[0]
}

// TopGenres frequency-ranks every genre across the artists' genre lists,
// descending by count with ties broken by first-encountered order, truncated
// to the top five.
func TopGenres(artists []Artist) []GenreCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, a := range artists {
		for _, g := range a.Genres {
			if _, ok := counts[g]; !ok {
				firstSeen[g] = order
				order++
			}
			counts[g]++
		}
	}

	ranked := make([]GenreCount, 0, len(counts))
	for g, n := range counts {
		ranked = append(ranked, GenreCount{Genre: g, Count: n})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Genre] < firstSeen[ranked[j].Genre]
	})

	if len(ranked) > topGenreLimit {
		ranked = ranked[:topGenreLimit]
	}
	return ranked
}
