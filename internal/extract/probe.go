package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// attrBackground reads the url(...) of a background-image declaration in
// the element's style attribute.
const attrBackground = "style:bg"

var reBackgroundURL = regexp.MustCompile(`url\((?:["']?)([^"')]+)(?:["']?)\)`)

// Probe is one structural query in a cascade. An empty Selector applies the
// probe to the element the cascade is evaluated on. An empty Attr reads the
// element's whitespace-collapsed text.
type Probe struct {
	Selector string
	Attr     string
}

func Text(selector string) Probe { return Probe{Selector: selector} }

func Attr(selector, attr string) Probe { return Probe{Selector: selector, Attr: attr} }

func (p Probe) value(el *goquery.Selection) string {
	switch p.Attr {
	case "":
		return collapse(el.Text())
	case attrBackground:
		style, _ := el.Attr("style")
		if m := reBackgroundURL.FindStringSubmatch(style); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	case "srcset":
		ss, _ := el.Attr("srcset")
		return firstSrcset(ss)
	default:
		v, _ := el.Attr(p.Attr)
		return strings.TrimSpace(v)
	}
}

func (p Probe) targets(s *goquery.Selection) *goquery.Selection {
	if p.Selector == "" {
		return s
	}
	return s.Find(p.Selector)
}

// First evaluates probes in priority order and returns the first non-empty
// value, walking the matches of each probe in document order.
func First(s *goquery.Selection, probes []Probe) (string, bool) {
	return FirstAccepted(s, probes, func(string) bool { return true })
}

// FirstAccepted is First with an extra filter on candidate values.
func FirstAccepted(s *goquery.Selection, probes []Probe, accept func(string) bool) (string, bool) {
	if s == nil || s.Length() == 0 {
		return "", false
	}

	for _, p := range probes {
		var found string
		p.targets(s).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			v := p.value(el)
			if v != "" && accept(v) {
				found = v
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}

	return "", false
}

// FirstOr is First with a default for the unresolved case.
func FirstOr(s *goquery.Selection, probes []Probe, def string) string {
	if v, ok := First(s, probes); ok {
		return v
	}
	return def
}

// Containers returns the matches of the first selector that matches at
// least one element.
func Containers(s *goquery.Selection, selectors []string) (*goquery.Selection, bool) {
	for _, sel := range selectors {
		found := s.Find(sel)
		if found.Length() > 0 {
			return found, true
		}
	}
	return s.Slice(0, 0), false
}

// AnyMatch reports whether any selector matches at least one element.
func AnyMatch(s *goquery.Selection, selectors []string) bool {
	_, ok := Containers(s, selectors)
	return ok
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstSrcset(ss string) string {
	for p := range strings.SplitSeq(ss, ",") {
		parts := strings.Fields(strings.TrimSpace(p))
		if len(parts) > 0 {
			return parts[0]
		}
	}
	return ""
}
