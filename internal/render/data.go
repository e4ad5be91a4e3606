package render

import "github.com/mcosta/rewindfm/internal/story"

// FromStory projects a built story onto the renderer's input shape.
func FromStory(st *story.Story) Data {
	tiles := make([]Tile, 0, len(st.Artists))
	for _, a := range st.Artists {
		tiles = append(tiles, Tile{Name: a.Name, ImageURL: a.ImageURL})
	}

	genres := make([]string, 0, len(st.TopGenres))
	for _, g := range st.TopGenres {
		genres = append(genres, g.Genre)
	}

	return Data{
		PeriodLabel: st.PeriodLabel,
		Artists:     tiles,
		TopGenres:   genres,
	}
}
