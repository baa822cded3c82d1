package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/moviebox/internal/media"
)

var (
	searchContainers = append([]string{
		".search-results .film-item",
		".search-results .item",
		".result-item",
	}, itemContainers...)

	paginationAnchors = []string{
		".pagination a[href]",
		".page-numbers[href]",
		".nav-links a[href]",
		".paging a[href]",
	}

	rePageNumber = regexp.MustCompile(`page/(\d+)`)
)

// Search extracts one page of search results. ok is false when the result
// container matched nothing.
func (e *Extractor) Search(markup, query string, page int) (media.SearchResultPage, bool) {
	doc := parse(markup)
	if doc == nil {
		return media.SearchResultPage{}, false
	}

	items, ok := Containers(doc.Selection, searchContainers)
	if !ok {
		return media.SearchResultPage{}, false
	}

	// The last page links only backwards, so it counts as observed too.
	results := e.summaries(items, 0)
	total := max(TotalPages(doc.Selection), page)
	return media.NewSearchResultPage(query, results, page, total), true
}

// TotalPages is the highest page/<n> seen across every pagination anchor,
// or 1 when there is none.
func TotalPages(doc *goquery.Selection) int {
	total := 1
	doc.Find(strings.Join(paginationAnchors, ", ")).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		for _, m := range rePageNumber.FindAllStringSubmatch(href, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil && n > total {
				total = n
			}
		}
	})
	return total
}
