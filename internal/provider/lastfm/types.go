package lastfm

import (
	"bytes"
	"encoding/json"
)

// Last.fm API response types.

// Image is one entry in an artist's image candidate array. The URL lives
// under the "#text" key; Size is Last.fm's ordinal size label.
type Image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

// topArtistsResponse is the top-level response from user.gettopartists.
type topArtistsResponse struct {
	TopArtists topArtists `json:"topartists"`
}

type topArtists struct {
	Artist []TopArtist `json:"artist"`
}

// TopArtist is one ranked artist from user.gettopartists.
type TopArtist struct {
	Name      string  `json:"name"`
	MBID      string  `json:"mbid"`
	PlayCount string  `json:"playcount"`
	Images    []Image `json:"image"`
}

// infoResponse is the top-level response from artist.getinfo.
type infoResponse struct {
	Artist ArtistInfo `json:"artist"`
}

// ArtistInfo is a single artist's info from artist.getinfo.
type ArtistInfo struct {
	Name   string  `json:"name"`
	MBID   string  `json:"mbid"`
	Images []Image `json:"image"`
}

// weeklyChartResponse is the top-level response from user.getweeklyartistchart.
type weeklyChartResponse struct {
	Chart weeklyArtistChart `json:"weeklyartistchart"`
}

type weeklyArtistChart struct {
	Artist chartArtistList `json:"artist"`
}

// ChartArtist is one ranked artist from a date-ranged chart. Chart entries
// carry no image candidates.
type ChartArtist struct {
	Name      string `json:"name"`
	MBID      string `json:"mbid"`
	PlayCount string `json:"playcount"`
}

// chartArtistList tolerates Last.fm returning a bare object instead of an
// array when a chart contains exactly one artist.
type chartArtistList []ChartArtist

func (l *chartArtistList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single ChartArtist
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*l = chartArtistList{single}
		return nil
	}
	var many []ChartArtist
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// chartListResponse is the top-level response from user.getweeklychartlist.
type chartListResponse struct {
	List weeklyChartList `json:"weeklychartlist"`
}

type weeklyChartList struct {
	Chart []chartWindow `json:"chart"`
}

// chartWindow is one chart window boundary pair, unix seconds as strings.
type chartWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// errorEnvelope is Last.fm's domain error shape, embedded in a 200 body.
type errorEnvelope struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}
