package extract

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/moviebox/internal/media"
)

var (
	serverContainers = []string{
		".server-item",
		".server-list li",
		".servers li",
		"[data-server]",
	}

	serverNameProbes = []Probe{
		Attr("", "data-name"),
		Text(".name"),
		Text(".server-name"),
		Text(""),
	}

	serverLinkProbes = []Probe{
		Attr("", "data-src"),
		Attr("", "data-url"),
		Attr("", "data-link"),
		Attr("", "data-embed"),
		Attr("iframe", "src"),
		Attr("a", "href"),
		Attr("", "href"),
	}

	frameLinkProbes = []Probe{
		Attr("", "src"),
		Attr("", "data-src"),
		Attr("", "data-lazy-src"),
	}

	downloadContainers = []string{
		".download-item a",
		".download-list a",
		".downloads a",
		"a.download",
		"a[download]",
		".dl-link",
	}

	downloadLinkProbes = []Probe{
		Attr("", "href"),
		Attr("", "data-href"),
		Attr("", "data-url"),
	}

	downloadQualityProbes = []Probe{
		Attr("", "data-quality"),
		Text(".quality"),
	}

	reQuality = regexp.MustCompile(`(?i)\b(\d{3,4}p|4k|hd|sd)\b`)
)

// Watch extracts playback servers and download links. ok is false when the
// page yields neither.
//
// Servers come from explicit server items first, then from every iframe on
// the page, then from player URLs assigned in inline scripts.
func (e *Extractor) Watch(markup, sourceURL string) (media.PlaybackBundle, bool) {
	doc := parse(markup)
	if doc == nil {
		return media.PlaybackBundle{}, false
	}
	root := doc.Selection

	servers := e.serverItems(root)
	if len(servers) == 0 {
		servers = e.frameServers(root)
	}
	if len(servers) == 0 {
		for _, u := range scriptPlayerURLs(root) {
			servers = append(servers, e.server(len(servers)+1, "", u))
		}
	}

	downloads := e.downloads(root)
	if len(servers) == 0 && len(downloads) == 0 {
		return media.PlaybackBundle{}, false
	}
	if servers == nil {
		servers = []media.Server{}
	}

	return media.PlaybackBundle{
		Servers:   servers,
		Downloads: downloads,
		SourceURL: e.normalize(sourceURL),
	}, true
}

func (e *Extractor) server(n int, name, link string) media.Server {
	if name == "" {
		name = fmt.Sprintf("Server %d", n)
	}
	return media.Server{Name: name, URL: e.normalize(link), Kind: media.ServerKindIframe}
}

func (e *Extractor) serverItems(root *goquery.Selection) []media.Server {
	items, ok := Containers(root, serverContainers)
	if !ok {
		return nil
	}

	var out []media.Server
	items.Each(func(_ int, it *goquery.Selection) {
		link, ok := linkOf(it, serverLinkProbes)
		if !ok {
			return
		}
		name, _ := First(it, serverNameProbes)
		out = append(out, e.server(len(out)+1, name, link))
	})
	return out
}

// frameServers names every frame by position; its source is its identity.
func (e *Extractor) frameServers(root *goquery.Selection) []media.Server {
	var out []media.Server
	root.Find("iframe").Each(func(_ int, f *goquery.Selection) {
		link, ok := linkOf(f, frameLinkProbes)
		if !ok {
			return
		}
		out = append(out, e.server(len(out)+1, "", link))
	})
	return out
}

func (e *Extractor) downloads(root *goquery.Selection) []media.Download {
	out := []media.Download{}

	items, ok := Containers(root, downloadContainers)
	if !ok {
		return out
	}

	items.Each(func(_ int, a *goquery.Selection) {
		link, ok := linkOf(a, downloadLinkProbes)
		if !ok {
			return
		}

		quality := defaultQuality
		if q, ok := First(a, downloadQualityProbes); ok {
			quality = q
		} else if m := reQuality.FindString(collapse(a.Text())); m != "" {
			quality = m
		}

		out = append(out, media.Download{
			URL:     e.normalize(link),
			Quality: quality,
			Kind:    media.DownloadKindDirect,
		})
	})

	return out
}
