package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var rePlayerURL = regexp.MustCompile(`(?i)(?:file|src|source|embed_?url|iframe)["']?\s*[:=]\s*["']((?:https?:)?//[^"'\s]+)["']`)

// scriptPlayerURLs scans inline scripts for player URLs assigned to the usual
// keys (file, src, embedUrl...). Results are unique and in document order.
func scriptPlayerURLs(doc *goquery.Selection) []string {
	var out []string
	seen := map[string]bool{}

	doc.Find("script").Each(func(_ int, sc *goquery.Selection) {
		if _, external := sc.Attr("src"); external {
			return
		}
		body := sc.Text()
		if strings.TrimSpace(body) == "" {
			return
		}
		for _, m := range rePlayerURL.FindAllStringSubmatch(body, -1) {
			u := m[1]
			if isAssetURL(u) || seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, u)
		}
	})

	return out
}

var reAssetExt = regexp.MustCompile(`(?i)\.(js|css|png|jpe?g|gif|webp|svg|ico|woff2?)(?:\?|$)`)

func isAssetURL(u string) bool {
	return reAssetExt.MatchString(u)
}
