package extract

import (
	"net/url"
	"regexp"
	"strings"
)

var reScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// NormalizeURL makes raw absolute against base:
//
//	https://x/y  -> unchanged
//	//cdn/x.jpg  -> <base scheme>://cdn/x.jpg
//	/movie/1     -> <base scheme>://<base host>/movie/1
//	movie/1      -> <base scheme>://<base host>/movie/1
func NormalizeURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)

	if reScheme.MatchString(raw) {
		return raw
	}
	if strings.HasPrefix(raw, "//") {
		return base.Scheme + ":" + raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}

	return base.Scheme + "://" + base.Host + raw
}

// IsAbsolute reports whether u carries a scheme.
func IsAbsolute(u string) bool {
	return reScheme.MatchString(u)
}
