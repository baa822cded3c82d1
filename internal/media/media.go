// Package media holds the records produced by the extractor and served by
// the JSON API. Records are built per request and never mutated afterwards.
package media

// Kind tells movies and series apart on a detail page.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

type MediaSummary struct {
	Title   string `json:"title"`
	Image   string `json:"image"`
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Year    string `json:"year"`
}

type FeaturedItem struct {
	MediaSummary
	Description string `json:"description"`
}

type HomeFeed struct {
	Trending []MediaSummary `json:"trending"`
	Latest   []MediaSummary `json:"latest"`
	Series   []MediaSummary `json:"series"`
	Featured []FeaturedItem `json:"featured"`
}

type EpisodeRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Image string `json:"image"`
	Index int    `json:"index"`
}

type DetailRecord struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Poster      string       `json:"poster"`
	Backdrop    string       `json:"backdrop"`
	Year        string       `json:"year"`
	Genre       string       `json:"genre"`
	Rating      string       `json:"rating"`
	Duration    string       `json:"duration"`
	Kind        Kind         `json:"type"`
	SourceURL   string       `json:"sourceUrl"`
	Episodes    []EpisodeRef `json:"episodes"`
}

type SearchResultPage struct {
	Results     []MediaSummary `json:"results"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	HasNext     bool           `json:"hasNext"`
	Query       string         `json:"query"`
}

// NewSearchResultPage clamps the page numbers to 1 and derives HasNext, so
// every page built through it satisfies HasNext == (CurrentPage < TotalPages).
func NewSearchResultPage(query string, results []MediaSummary, current, total int) SearchResultPage {
	if current < 1 {
		current = 1
	}
	if total < 1 {
		total = 1
	}
	if results == nil {
		results = []MediaSummary{}
	}

	return SearchResultPage{
		Results:     results,
		CurrentPage: current,
		TotalPages:  total,
		HasNext:     current < total,
		Query:       query,
	}
}

const (
	ServerKindIframe   = "iframe"
	DownloadKindDirect = "download"
)

type Server struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Kind string `json:"type"`
}

type Download struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Kind    string `json:"type"`
}

type PlaybackBundle struct {
	Servers   []Server   `json:"servers"`
	Downloads []Download `json:"downloads"`
	SourceURL string     `json:"sourceUrl"`
}
