package offline

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/brogergvhs/moviebox/internal/cachestore"
)

type Logger interface {
	Debugf(string, ...any)
	Warnf(string, ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

type GovernorOptions struct {
	Classifier Classifier
	Logger     Logger
	Now        func() time.Time
}

// Governor applies a per-class fetch strategy to every request of the
// client it is installed in:
//
//	api         network first, API bucket, then an offline JSON 503
//	static      cache first, static bucket, then an SVG placeholder or 408
//	navigation  network first, static bucket, then the cached entry document
//	other       network first, general bucket, then any cached match
//
// Only transport errors count as failures. A live non-200 response is
// returned to the caller as is and never stored.
type Governor struct {
	gen   Generation
	store cachestore.Store
	next  http.RoundTripper
	cls   Classifier
	log   Logger
	now   func() time.Time
}

func NewGovernor(gen Generation, store cachestore.Store, next http.RoundTripper, opts GovernorOptions) *Governor {
	if next == nil {
		next = http.DefaultTransport
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Classifier.APIPrefix == "" && opts.Classifier.Extensions == nil && opts.Classifier.Hosts == nil {
		opts.Classifier = DefaultClassifier()
	}

	return &Governor{
		gen:   gen,
		store: store,
		next:  next,
		cls:   opts.Classifier,
		log:   opts.Logger,
		now:   opts.Now,
	}
}

func (g *Governor) Generation() Generation { return g.gen }

func (g *Governor) RoundTrip(req *http.Request) (*http.Response, error) {
	class := g.cls.Classify(req)
	g.log.Debugf("offline: %s %s classified as %s", req.Method, req.URL, class)

	switch class {
	case ClassAPI:
		return g.api(req)
	case ClassStatic:
		return g.static(req)
	case ClassNavigation:
		return g.navigation(req)
	default:
		return g.other(req)
	}
}

func (g *Governor) api(req *http.Request) (*http.Response, error) {
	resp, err := g.network(req, g.gen.APIBucket())
	if err == nil {
		return resp, nil
	}

	g.log.Warnf("offline: api fetch %s failed, trying cache: %v", req.URL, err)
	if hit, ok := g.lookup(req, g.gen.APIBucket()); ok {
		return hit, nil
	}
	return offlineJSON(req), nil
}

func (g *Governor) static(req *http.Request) (*http.Response, error) {
	if hit, ok := g.lookup(req, ""); ok {
		// The request never reaches the transport, so its body is ours to close.
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return hit, nil
	}

	resp, err := g.network(req, g.gen.StaticBucket())
	if err == nil {
		return resp, nil
	}

	g.log.Warnf("offline: static fetch %s failed: %v", req.URL, err)
	if wantsImage(req) {
		return offlineImage(req), nil
	}
	return offlineStatus(req), nil
}

func (g *Governor) navigation(req *http.Request) (*http.Response, error) {
	resp, err := g.network(req, g.gen.StaticBucket())
	if err == nil {
		return resp, nil
	}

	g.log.Warnf("offline: navigation to %s failed, serving cached entry document: %v", req.URL, err)
	if entry, eerr := g.entryRequest(req); eerr == nil {
		if hit, ok := g.lookup(entry, ""); ok {
			hit.Request = req
			return hit, nil
		}
	}
	return offlinePage(req), nil
}

func (g *Governor) other(req *http.Request) (*http.Response, error) {
	resp, err := g.network(req, g.gen.GeneralBucket())
	if err == nil {
		return resp, nil
	}

	if hit, ok := g.lookup(req, ""); ok {
		return hit, nil
	}
	return nil, err
}

// network performs the live request and stores a 200 answer to a GET in
// bucket. The returned response body is fully buffered when it was stored.
func (g *Governor) network(req *http.Request, bucket string) (*http.Response, error) {
	resp, err := g.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK || !cacheable(req) {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL, err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))

	e := cachestore.NewEntry(req, resp.StatusCode, resp.Header, body, g.now())
	if err := g.store.Put(req.Context(), bucket, e); err != nil {
		g.log.Warnf("offline: store %s in %s: %v", req.URL, bucket, err)
	}
	return resp, nil
}

// lookup replays a stored response; bucket "" searches every bucket.
func (g *Governor) lookup(req *http.Request, bucket string) (*http.Response, bool) {
	e, ok, err := g.store.Match(req.Context(), bucket, req)
	if err != nil {
		g.log.Warnf("offline: cache lookup %s: %v", req.URL, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	resp := e.Response(req)
	resp.Header.Set(HeaderSource, sourceCache)
	return resp, true
}

// entryRequest is a GET for the entry document on the generation origin,
// or on the origin of req when the generation has none.
func (g *Governor) entryRequest(req *http.Request) (*http.Request, error) {
	origin := g.gen.Origin
	if origin == nil {
		origin = &url.URL{Scheme: req.URL.Scheme, Host: req.URL.Host}
	}

	entryPath := g.gen.EntryPath
	if entryPath == "" {
		entryPath = DefaultEntryPath
	}

	u, err := origin.Parse(entryPath)
	if err != nil {
		return nil, err
	}
	return http.NewRequestWithContext(req.Context(), http.MethodGet, u.String(), nil)
}

func cacheable(req *http.Request) bool {
	return req.Method == http.MethodGet || req.Method == ""
}
