package offline

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

type Class int

const (
	ClassOther Class = iota
	ClassAPI
	ClassStatic
	ClassNavigation
)

func (c Class) String() string {
	switch c {
	case ClassAPI:
		return "api"
	case ClassStatic:
		return "static"
	case ClassNavigation:
		return "navigation"
	default:
		return "other"
	}
}

var (
	DefaultStaticExtensions = []string{".css", ".js", ".json", ".ico", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".woff", ".woff2"}
	DefaultStaticHosts      = []string{"fonts.googleapis.com", "cdnjs.cloudflare.com"}
)

// Classifier sorts requests into strategy classes. The first matching rule
// wins: api, static, navigation, other.
type Classifier struct {
	APIPrefix  string
	Extensions []string
	Hosts      []string
}

func DefaultClassifier() Classifier {
	return Classifier{
		APIPrefix:  DefaultAPIPrefix,
		Extensions: DefaultStaticExtensions,
		Hosts:      DefaultStaticHosts,
	}
}

func (c Classifier) Classify(req *http.Request) Class {
	switch {
	case c.APIPrefix != "" && strings.HasPrefix(req.URL.Path, c.APIPrefix):
		return ClassAPI
	case c.isStatic(req):
		return ClassStatic
	case isNavigation(req):
		return ClassNavigation
	default:
		return ClassOther
	}
}

func (c Classifier) isStatic(req *http.Request) bool {
	ext := strings.ToLower(path.Ext(req.URL.Path))
	for _, e := range c.Extensions {
		if ext != "" && ext == strings.ToLower(e) {
			return true
		}
	}

	host := strings.ToLower(req.URL.Hostname())
	for _, h := range c.Hosts {
		h = strings.ToLower(h)
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// isNavigation recognizes full-document loads: either the browser says so,
// or a GET lists text/html as its first accepted type.
func isNavigation(req *http.Request) bool {
	if strings.EqualFold(req.Header.Get("Sec-Fetch-Mode"), "navigate") {
		return true
	}
	if req.Method != http.MethodGet && req.Method != "" {
		return false
	}

	first, _, _ := strings.Cut(req.Header.Get("Accept"), ",")
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(first))
	return err == nil && mt == "text/html"
}

// wantsImage reports whether the request will be rendered as an image.
func wantsImage(req *http.Request) bool {
	return strings.EqualFold(req.Header.Get("Sec-Fetch-Dest"), "image")
}
