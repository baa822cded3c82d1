package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/moviebox/internal/media"
	"github.com/go-shiori/go-readability"
)

var (
	// detailTitleProbes is the primary container of a detail page: without a
	// title the page is not a detail page.
	detailTitleProbes = []Probe{
		Text("h1.entry-title"),
		Text(".detail h1"),
		Text(".movie-title"),
		Text(".film-title"),
		Text("h1"),
		Attr(`meta[property="og:title"]`, "content"),
	}

	detailDescriptionProbes = []Probe{
		Text(".synopsis"),
		Text(".description"),
		Text(".storyline"),
		Text(".entry-content p"),
		Attr(`meta[property="og:description"]`, "content"),
		Attr(`meta[name="description"]`, "content"),
	}

	posterProbes = []Probe{
		Attr(".poster img", "src"),
		Attr(".poster img", "data-src"),
		Attr(".film-poster img", "src"),
		Attr(".film-poster img", "data-src"),
		Attr(".thumb img", "src"),
		Attr(".thumb img", "data-src"),
		Attr(`meta[property="og:image"]`, "content"),
	}

	backdropProbes = []Probe{
		Attr(".backdrop", "data-bg"),
		Attr(".backdrop img", "src"),
		Attr(".backdrop", attrBackground),
		Attr(".cover", attrBackground),
		Attr(".hero", attrBackground),
		Attr(`meta[property="og:image"]`, "content"),
	}

	detailYearProbes = []Probe{
		Text(".year"),
		Text(".release-year"),
		Attr("time", "datetime"),
		Text(".date"),
	}

	genreLists = []string{".genre a", ".genres a", "a[rel=tag]"}

	genreProbes = []Probe{
		Text(".genre"),
		Text(".genres"),
	}

	ratingProbes = []Probe{
		Text(".rating"),
		Text(".imdb"),
		Text("[itemprop=ratingValue]"),
		Attr(`meta[itemprop="ratingValue"]`, "content"),
	}

	durationProbes = []Probe{
		Text(".duration"),
		Text(".runtime"),
		Attr(`[itemprop="duration"]`, "content"),
	}

	// episodeContainers decides the kind: any match makes the page a series.
	episodeContainers = []string{
		".episodes-list",
		".episode-list",
		".episode-item",
		".eps-item",
		"#episodes",
		".season-list",
	}

	// episodeItems enumerates the episodes themselves.
	episodeItems = []string{
		".episode-item",
		".eps-item",
		".episodes-list li",
		".episode-list li",
		".episodes-list a",
		".episode-list a",
		"#episodes a",
		".season-list a",
		"#episodes li",
		".season-list li",
		"[data-episode]",
		"#episodes > *",
	}

	episodeTitleProbes = []Probe{
		Text(".title"),
		Text(".name"),
		Text(".episode-title"),
		Attr("", "title"),
		Attr("a", "title"),
		Text(""),
	}

	episodeLinkProbes = []Probe{
		Attr("", "href"),
		Attr("a", "href"),
		Attr("", "data-url"),
	}

	reDigits = regexp.MustCompile(`^\d+$`)

	episodeNumberAttrs = []Probe{
		Attr("", "data-episode"),
		Attr("", "data-ep"),
	}
)

// Detail extracts a movie or series page. ok is false when no title probe
// resolves.
func (e *Extractor) Detail(markup, sourceURL string) (media.DetailRecord, bool) {
	doc := parse(markup)
	if doc == nil {
		return media.DetailRecord{}, false
	}
	root := doc.Selection

	title, ok := First(root, detailTitleProbes)
	if !ok {
		return media.DetailRecord{}, false
	}

	poster, ok := imageOf(root, posterProbes)
	if !ok {
		poster = placeholderPoster
	}
	poster = e.normalize(poster)

	backdrop := poster
	if b, ok := imageOf(root, backdropProbes); ok {
		backdrop = e.normalize(b)
	}

	description, ok := First(root, detailDescriptionProbes)
	if !ok {
		description = e.readableExcerpt(markup, sourceURL)
	}

	year := defaultYear
	if y, ok := First(root, detailYearProbes); ok {
		year = yearOf(y)
	}

	rec := media.DetailRecord{
		Title:       title,
		Description: description,
		Poster:      poster,
		Backdrop:    backdrop,
		Year:        year,
		Genre:       e.genre(root),
		Rating:      FirstOr(root, ratingProbes, defaultText),
		Duration:    FirstOr(root, durationProbes, defaultText),
		Kind:        media.KindMovie,
		SourceURL:   e.normalize(sourceURL),
		Episodes:    []media.EpisodeRef{},
	}

	if AnyMatch(root, episodeContainers) {
		rec.Kind = media.KindSeries
		rec.Episodes = e.episodes(root, poster)
	}

	return rec, true
}

func (e *Extractor) genre(root *goquery.Selection) string {
	if tags, ok := Containers(root, genreLists); ok {
		var names []string
		seen := map[string]bool{}
		tags.Each(func(_ int, a *goquery.Selection) {
			n := collapse(a.Text())
			if n != "" && !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		})
		if len(names) > 0 {
			return strings.Join(names, ", ")
		}
	}
	return FirstOr(root, genreProbes, defaultText)
}

// episodes numbers matches by position. Numbers printed in the markup are
// only used to label episodes that have no title of their own.
func (e *Extractor) episodes(root *goquery.Selection, poster string) []media.EpisodeRef {
	items, ok := Containers(root, episodeItems)
	if !ok {
		return []media.EpisodeRef{}
	}

	out := make([]media.EpisodeRef, 0, items.Length())
	items.Each(func(i int, it *goquery.Selection) {
		index := i + 1

		title, ok := First(it, episodeTitleProbes)
		if ok && reDigits.MatchString(title) {
			title, ok = "Episode "+title, true
		}
		if !ok {
			label := strconv.Itoa(index)
			if n, ok := First(it, episodeNumberAttrs); ok {
				label = n
			}
			title = "Episode " + label
		}

		link, ok := linkOf(it, episodeLinkProbes)
		if !ok {
			link = defaultLink
		}

		img := poster
		if v, ok := imageOf(it, imageProbes); ok {
			img = e.normalize(v)
		}

		out = append(out, media.EpisodeRef{
			Title: title,
			URL:   e.normalize(link),
			Image: img,
			Index: index,
		})
	})

	return out
}

// readableExcerpt is the last description source before the default.
func (e *Extractor) readableExcerpt(markup, sourceURL string) (excerpt string) {
	defer func() {
		if recover() != nil {
			excerpt = defaultText
		}
	}()

	pageURL, err := url.Parse(e.normalize(sourceURL))
	if err != nil {
		return defaultText
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(markup), pageURL)
	if err != nil {
		return defaultText
	}
	if ex := collapse(article.Excerpt); ex != "" {
		return ex
	}

	return defaultText
}
