// Package fallback builds the placeholder records served when the home or
// search page cannot be scraped. Detail and watch pages have no placeholder.
package fallback

import (
	"net/url"

	"github.com/brogergvhs/moviebox/internal/extract"
	"github.com/brogergvhs/moviebox/internal/media"
)

const featuredCount = 3

type placeholder struct {
	title, image, quality, year, description string
}

var placeholders = []placeholder{
	{"Dune: Part Two", "https://via.placeholder.com/300x450/141414/e50914?text=Dune+2", "4K", "2024",
		"Paul Atreides continues his journey in a spectacular sci-fi epic."},
	{"Godzilla x Kong", "https://via.placeholder.com/300x450/141414/e50914?text=Godzilla", "HD", "2024",
		"Two legendary titans join forces against a new threat."},
	{"Kung Fu Panda 4", "https://via.placeholder.com/300x450/141414/e50914?text=Kung+Fu+Panda", "HD", "2024",
		"Po must train a new Dragon Warrior before facing a shapeshifting sorceress."},
	{"Ghostbusters", "https://via.placeholder.com/300x450/141414/e50914?text=Ghostbusters", "HD", "2023", ""},
	{"The Fall Guy", "https://via.placeholder.com/300x450/141414/e50914?text=Fall+Guy", "HD", "2024", ""},
}

// Synthesizer is deterministic: the same call always returns equal records.
type Synthesizer struct {
	base *url.URL
}

func New(base *url.URL) *Synthesizer {
	return &Synthesizer{base: base}
}

func (s *Synthesizer) summaries(suffix string) []media.MediaSummary {
	out := make([]media.MediaSummary, 0, len(placeholders))
	for _, p := range placeholders {
		title := p.title
		if suffix != "" {
			title += " - " + suffix
		}
		out = append(out, media.MediaSummary{
			Title:   title,
			Image:   extract.NormalizeURL(s.base, p.image),
			URL:     extract.NormalizeURL(s.base, "#"),
			Quality: p.quality,
			Year:    p.year,
		})
	}
	return out
}

// Home returns the fixed five-entry feed. Latest and series repeat the
// trending list; featured is its first three entries.
func (s *Synthesizer) Home() media.HomeFeed {
	featured := make([]media.FeaturedItem, 0, featuredCount)
	for i, m := range s.summaries("")[:featuredCount] {
		featured = append(featured, media.FeaturedItem{MediaSummary: m, Description: placeholders[i].description})
	}

	return media.HomeFeed{
		Trending: s.summaries(""),
		Latest:   s.summaries(""),
		Series:   s.summaries(""),
		Featured: featured,
	}
}

// Search returns the placeholder list with query appended to every title.
func (s *Synthesizer) Search(query string, page int) media.SearchResultPage {
	return media.NewSearchResultPage(query, s.summaries(query), page, 1)
}
