package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/moviebox/internal/media"
)

var (
	titleProbes = []Probe{
		Text(".title"),
		Text("h3"),
		Text(".name"),
		Text(".judul"),
		Attr("a", "title"),
		Attr("img", "alt"),
	}

	linkProbes = []Probe{
		Attr("a", "href"),
		Attr("", "href"),
		Attr("", "data-url"),
	}

	qualityProbes = []Probe{
		Text(".quality"),
		Text(".res"),
		Text(".badge-quality"),
		Attr("", "data-quality"),
	}

	yearProbes = []Probe{
		Text(".year"),
		Attr("time", "datetime"),
		Text(".date"),
		Text("time"),
	}
)

// summary reads one repeated item. Every field falls back independently.
func (e *Extractor) summary(item *goquery.Selection) media.MediaSummary {
	img, ok := imageOf(item, imageProbes)
	if !ok {
		img = placeholderThumb
	}
	link, ok := linkOf(item, linkProbes)
	if !ok {
		link = defaultLink
	}

	year := defaultYear
	if y, ok := First(item, yearProbes); ok {
		year = yearOf(y)
	}

	return media.MediaSummary{
		Title:   FirstOr(item, titleProbes, defaultTitle),
		Image:   e.normalize(img),
		URL:     e.normalize(link),
		Quality: FirstOr(item, qualityProbes, defaultQuality),
		Year:    year,
	}
}

// summaries reads at most limit items; limit <= 0 reads all of them.
func (e *Extractor) summaries(items *goquery.Selection, limit int) []media.MediaSummary {
	out := make([]media.MediaSummary, 0, items.Length())
	items.EachWithBreak(func(i int, item *goquery.Selection) bool {
		if limit > 0 && i >= limit {
			return false
		}
		out = append(out, e.summary(item))
		return true
	})
	return out
}
