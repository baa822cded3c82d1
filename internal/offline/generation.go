// Package offline governs which responses an HTTP client caches and replays
// when the network is gone.
//
// A Governor is an http.RoundTripper placed in front of a client's real
// transport. It owns one Generation: a versioned set of named buckets in a
// cachestore.Store. Deploying a newer generation installs its static assets,
// activates it and sweeps every bucket the new generation does not reserve.
package offline

import (
	"net/url"
	"strings"
)

const (
	DefaultPrefix    = "moviebox"
	DefaultVersion   = "v1"
	DefaultAPIPrefix = "/api/"
	DefaultEntryPath = "/index.html"
)

// DefaultStaticAssets is the app shell cached at install time.
var DefaultStaticAssets = []string{
	"/",
	"/index.html",
	"/style.css",
	"/app.js",
	"/manifest.json",
	"/favicon.ico",
	"https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.2/css/all.min.css",
	"https://fonts.googleapis.com/css2?family=Inter:wght@300;400;500;600;700;800&display=swap",
}

// Generation names the buckets of one deployed version.
type Generation struct {
	Prefix  string
	Version string

	// Origin resolves relative static asset paths.
	Origin *url.URL
	// Assets are fetched and stored, all or nothing, by Install.
	Assets []string
	// EntryPath is the cached document served to offline navigations.
	EntryPath string
}

func NewGeneration(prefix, version string, origin *url.URL, assets []string) Generation {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if version == "" {
		version = DefaultVersion
	}
	return Generation{
		Prefix:    prefix,
		Version:   version,
		Origin:    origin,
		Assets:    assets,
		EntryPath: DefaultEntryPath,
	}
}

func (g Generation) StaticBucket() string  { return g.Prefix + "-static-" + g.Version }
func (g Generation) APIBucket() string     { return g.Prefix + "-api-" + g.Version }
func (g Generation) GeneralBucket() string { return g.Prefix + "-" + g.Version }

// Reserved lists the buckets that survive activation of g.
func (g Generation) Reserved() []string {
	return []string{g.StaticBucket(), g.APIBucket(), g.GeneralBucket()}
}

// AssetURLs resolves Assets against Origin. Absolute entries are kept.
func (g Generation) AssetURLs() []string {
	out := make([]string, 0, len(g.Assets))
	for _, a := range g.Assets {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if g.Origin != nil {
			if u, err := g.Origin.Parse(a); err == nil {
				a = u.String()
			}
		}
		out = append(out, a)
	}
	return out
}

// Sweep returns the names in existing that are not reserved, in their
// original order.
func Sweep(existing, reserved []string) []string {
	keep := make(map[string]struct{}, len(reserved))
	for _, r := range reserved {
		keep[r] = struct{}{}
	}

	var out []string
	for _, name := range existing {
		if _, ok := keep[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
