package wikidata

// Wikidata action API and Commons imageinfo response types.

// searchResponse is the top-level response from wbsearchentities.
type searchResponse struct {
	Search []searchEntity `json:"search"`
}

// searchEntity is one entity candidate from wbsearchentities.
type searchEntity struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// entitiesResponse is the top-level response from wbgetentities.
type entitiesResponse struct {
	Entities map[string]entity `json:"entities"`
}

type entity struct {
	Claims claims `json:"claims"`
}

// claims carries only the image property (P18).
type claims struct {
	Image []claim `json:"P18"`
}

type claim struct {
	MainSnak snak `json:"mainsnak"`
}

type snak struct {
	DataValue dataValue `json:"datavalue"`
}

// dataValue holds the Commons file name for a P18 claim.
type dataValue struct {
	Value string `json:"value"`
}

// imageInfoResponse is the top-level response from the Commons imageinfo query.
type imageInfoResponse struct {
	Query imageInfoQuery `json:"query"`
}

type imageInfoQuery struct {
	Pages map[string]imageInfoPage `json:"pages"`
}

type imageInfoPage struct {
	ImageInfo []imageInfo `json:"imageinfo"`
}

// imageInfo is one rendition descriptor. ThumbURL is the width-bounded
// rendition requested via iiurlwidth; URL is the original upload.
type imageInfo struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumburl"`
	Mime     string `json:"mime"`
}
