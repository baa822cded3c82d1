package extract

import (
	"github.com/brogergvhs/moviebox/internal/media"
)

const (
	sectionLimit        = 8
	featuredLimit       = 3
	featuredDescription = "Trending now on MovieBox. Don't miss it!"
)

var (
	// itemContainers is the primary container of list pages: it enumerates
	// the repeated movie cards.
	itemContainers = []string{".film-item", ".movie-item", ".item", ".post"}

	latestContainers = []string{
		"#latest .film-item",
		".latest .film-item",
		"section.latest .item",
		".latest-movies .item",
	}

	seriesContainers = []string{
		"#series .film-item",
		".series .film-item",
		"section.series .item",
		".tv-series .item",
	}

	featuredContainers = []string{
		".featured .item",
		".slider .item",
		".swiper-slide",
		".hero-slide",
	}

	descriptionProbes = []Probe{
		Text(".description"),
		Text(".desc"),
		Text(".synopsis"),
		Text("p"),
	}
)

// Home extracts the landing page. ok is false when the item container
// matched nothing.
//
// The container cascade cannot tell "no movies today" from "a markup dialect
// we do not know": both end up empty and the caller substitutes placeholders.
func (e *Extractor) Home(markup string) (feed media.HomeFeed, ok bool) {
	doc := parse(markup)
	if doc == nil {
		return media.HomeFeed{}, false
	}

	items, ok := Containers(doc.Selection, itemContainers)
	if !ok {
		return media.HomeFeed{}, false
	}

	trending := e.summaries(items, e.homeLimit)

	latest := headOf(trending, sectionLimit)
	if sec, ok := Containers(doc.Selection, latestContainers); ok {
		latest = e.summaries(sec, sectionLimit)
	}

	series := headOf(trending, sectionLimit)
	if sec, ok := Containers(doc.Selection, seriesContainers); ok {
		series = e.summaries(sec, sectionLimit)
	}

	var featured []media.FeaturedItem
	if sec, ok := Containers(doc.Selection, featuredContainers); ok {
		for i := 0; i < sec.Length() && i < featuredLimit; i++ {
			el := sec.Eq(i)
			featured = append(featured, media.FeaturedItem{
				MediaSummary: e.summary(el),
				Description:  FirstOr(el, descriptionProbes, featuredDescription),
			})
		}
	} else {
		featured = Feature(headOf(trending, featuredLimit), featuredDescription)
	}

	return media.HomeFeed{
		Trending: trending,
		Latest:   latest,
		Series:   series,
		Featured: featured,
	}, true
}

// Feature turns summaries into featured items sharing one description.
func Feature(items []media.MediaSummary, description string) []media.FeaturedItem {
	out := make([]media.FeaturedItem, 0, len(items))
	for _, it := range items {
		out = append(out, media.FeaturedItem{MediaSummary: it, Description: description})
	}
	return out
}

func headOf(items []media.MediaSummary, n int) []media.MediaSummary {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]media.MediaSummary, len(items))
	copy(out, items)
	return out
}
