package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	placeholderThumb  = "https://via.placeholder.com/300x450?text=No+Image"
	placeholderPoster = "https://via.placeholder.com/500x750?text=No+Poster"
)

// imageProbes covers eager and lazy-loaded thumbnails inside an item.
var imageProbes = []Probe{
	Attr("img", "src"),
	Attr("img", "data-src"),
	Attr("img", "data-lazy-src"),
	Attr("img", "data-original"),
	Attr("img", "srcset"),
	Attr("source[srcset]", "srcset"),
	Attr("", attrBackground),
	Attr("[style]", attrBackground),
}

// usableImage drops inline data: URIs, which lazy loaders put in src until
// the real image is swapped in.
func usableImage(v string) bool {
	lv := strings.ToLower(v)
	return !strings.HasPrefix(lv, "data:") && !strings.HasPrefix(lv, "javascript:")
}

func imageOf(s *goquery.Selection, probes []Probe) (string, bool) {
	return FirstAccepted(s, probes, usableImage)
}

// usableLink drops anchors that do not point anywhere.
func usableLink(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv != "#" && !strings.HasPrefix(lv, "javascript:")
}

func linkOf(s *goquery.Selection, probes []Probe) (string, bool) {
	return FirstAccepted(s, probes, usableLink)
}
