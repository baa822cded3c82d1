package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageKind selects which cascade set runs over a page.
type PageKind string

const (
	PageHome   PageKind = "home"
	PageSearch PageKind = "search"
	PageDetail PageKind = "detail"
	PageWatch  PageKind = "watch"
)

func ParsePageKind(s string) (PageKind, error) {
	switch k := PageKind(strings.ToLower(strings.TrimSpace(s))); k {
	case PageHome, PageSearch, PageDetail, PageWatch:
		return k, nil
	default:
		return "", fmt.Errorf("unknown page kind %q (want home|search|detail|watch)", s)
	}
}

const (
	defaultTitle   = "Unknown Title"
	defaultQuality = "HD"
	defaultYear    = "N/A"
	defaultText    = "N/A"
	defaultLink    = "#"

	defaultHomeLimit = 10
)

var reYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Extractor holds the base authority relative links are resolved against.
// It carries no per-page state and is safe for concurrent use.
type Extractor struct {
	base      *url.URL
	homeLimit int
}

func New(baseURL string, homeLimit int) (*Extractor, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if homeLimit <= 0 {
		homeLimit = defaultHomeLimit
	}

	return &Extractor{base: u, homeLimit: homeLimit}, nil
}

func (e *Extractor) Base() *url.URL {
	u := *e.base
	return &u
}

func (e *Extractor) normalize(raw string) string {
	return NormalizeURL(e.base, raw)
}

// Params carries the request context some page kinds need.
type Params struct {
	Query     string
	Page      int
	SourceURL string
}

// Result is the tagged outcome of Extract. Record holds a media.HomeFeed,
// media.SearchResultPage, media.DetailRecord or media.PlaybackBundle, and is
// nil when Empty is set.
type Result struct {
	Kind   PageKind
	Empty  bool
	Record any
}

// Extract dispatches to the typed extractor for kind.
func (e *Extractor) Extract(markup string, kind PageKind, p Params) Result {
	res := Result{Kind: kind, Empty: true}

	switch kind {
	case PageHome:
		if feed, ok := e.Home(markup); ok {
			res.Empty, res.Record = false, feed
		}
	case PageSearch:
		if page, ok := e.Search(markup, p.Query, p.Page); ok {
			res.Empty, res.Record = false, page
		}
	case PageDetail:
		if rec, ok := e.Detail(markup, p.SourceURL); ok {
			res.Empty, res.Record = false, rec
		}
	case PageWatch:
		if b, ok := e.Watch(markup, p.SourceURL); ok {
			res.Empty, res.Record = false, b
		}
	}

	return res
}

// parse never fails the caller: unparseable markup becomes an empty document.
func parse(markup string) (doc *goquery.Document) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
		}
	}()

	d, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	return d
}

func yearOf(raw string) string {
	if m := reYear.FindString(raw); m != "" {
		return m
	}
	return raw
}
