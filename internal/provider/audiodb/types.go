package audiodb

// TheAudioDB API response types.

// artistsResponse is the envelope every artist endpoint returns. The array
// is null when nothing matches.
type artistsResponse struct {
	Artists []Artist `json:"artists"`
}

// Artist is one TheAudioDB artist record, trimmed to the image fields this
// service consumes.
type Artist struct {
	ID        string `json:"idArtist"`
	Name      string `json:"strArtist"`
	MBID      string `json:"strMusicBrainzID"`
	Thumb     string `json:"strArtistThumb"`
	WideThumb string `json:"strArtistWideThumb"`
	Fanart    string `json:"strArtistFanart"`
	Fanart2   string `json:"strArtistFanart2"`
	Fanart3   string `json:"strArtistFanart3"`
	Cutout    string `json:"strArtistCutout"`
	Clearart  string `json:"strArtistClearart"`
	Logo      string `json:"strArtistLogo"`
	Banner    string `json:"strArtistBanner"`
}

// imageFields returns the artist's image URLs in role preference order,
// square portrait first, decorative assets last.
func (a *Artist) imageFields() []string {
	return []string{
		a.Thumb,
		a.WideThumb,
		a.Fanart,
		a.Fanart2,
		a.Fanart3,
		a.Cutout,
		a.Clearart,
		a.Logo,
		a.Banner,
	}
}
