package spotify

// Spotify Web API response types.

// Image is one rendition of an artist image. Spotify orders renditions
// largest first.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist is one Spotify artist record.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Images     []Image  `json:"images"`
}

// topArtistsResponse is the top-level response from /v1/me/top/artists.
type topArtistsResponse struct {
	Items []Artist `json:"items"`
}

// searchResponse is the top-level response from /v1/search?type=artist.
type searchResponse struct {
	Artists searchArtists `json:"artists"`
}

type searchArtists struct {
	Items []Artist `json:"items"`
}
