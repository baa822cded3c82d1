// Package catalog composes fetching, extraction and placeholder synthesis
// into the four operations the API serves.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/brogergvhs/moviebox/internal/extract"
	"github.com/brogergvhs/moviebox/internal/fallback"
	"github.com/brogergvhs/moviebox/internal/fetcher"
	"github.com/brogergvhs/moviebox/internal/media"
	"github.com/brogergvhs/moviebox/internal/ui"
)

type Fetcher interface {
	Fetch(ctx context.Context, target string) fetcher.Result
}

type Logger interface {
	Debugf(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
}

type Service struct {
	fetch Fetcher
	ext   *extract.Extractor
	synth *fallback.Synthesizer
	stats *ui.Stats
	log   Logger
}

func New(f Fetcher, ext *extract.Extractor, log Logger) *Service {
	return &Service{
		fetch: f,
		ext:   ext,
		synth: fallback.New(ext.Base()),
		stats: &ui.Stats{},
		log:   log,
	}
}

func (s *Service) Stats() ui.StatsSnapshot {
	return s.stats.Snapshot()
}

// HomeURL is the landing page of the source site.
func (s *Service) HomeURL() string {
	return strings.TrimRight(s.ext.Base().String(), "/") + "/"
}

// SearchURL follows the WordPress layout of the source site: the first page
// is /?s=q, later pages are /page/N/?s=q.
func (s *Service) SearchURL(query string, page int) string {
	base := strings.TrimRight(s.ext.Base().String(), "/")
	q := url.QueryEscape(query)
	if page > 1 {
		return fmt.Sprintf("%s/page/%d/?s=%s", base, page, q)
	}
	return base + "/?s=" + q
}

// Home never fails: any fetch or extraction problem yields the placeholder
// feed.
func (s *Service) Home(ctx context.Context) media.HomeFeed {
	s.stats.Requests.Add(1)

	res := s.fetch.Fetch(ctx, s.HomeURL())
	return resolveOrSynthesize(s, "home", res, s.ext.Home, s.synth.Home)
}

// Search fails only on a blank query.
func (s *Service) Search(ctx context.Context, query string, page int) (media.SearchResultPage, error) {
	s.stats.Requests.Add(1)

	query = strings.TrimSpace(query)
	if query == "" {
		s.stats.Failures.Add(1)
		return media.SearchResultPage{}, required("q")
	}
	if page < 1 {
		page = 1
	}

	res := s.fetch.Fetch(ctx, s.SearchURL(query, page))
	return resolveOrSynthesize(s, "search", res,
		func(markup string) (media.SearchResultPage, bool) { return s.ext.Search(markup, query, page) },
		func() media.SearchResultPage { return s.synth.Search(query, page) },
	), nil
}

func (s *Service) Detail(ctx context.Context, pageURL string) (media.DetailRecord, error) {
	return resolveOrFail(s, ctx, "detail", pageURL, s.ext.Detail)
}

func (s *Service) Watch(ctx context.Context, pageURL string) (media.PlaybackBundle, error) {
	return resolveOrFail(s, ctx, "watch", pageURL, s.ext.Watch)
}

// resolveOrSynthesize is the single place where an empty or failed page is
// replaced by a placeholder.
func resolveOrSynthesize[T any](s *Service, what string, res fetcher.Result, extractFn func(string) (T, bool), synth func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("%s extraction panicked: %v", what, r)
			s.stats.Fallbacks.Add(1)
			out = synth()
		}
	}()

	if res.Failed() {
		s.log.Warnf("%s fetch failed, serving placeholder data", what)
		s.stats.Fallbacks.Add(1)
		return synth()
	}

	v, ok := extractFn(res.Body)
	if !ok {
		s.log.Warnf("%s page had no recognizable content, serving placeholder data", what)
		s.stats.Fallbacks.Add(1)
		return synth()
	}

	return v
}

func resolveOrFail[T any](s *Service, ctx context.Context, what, pageURL string, extractFn func(markup, sourceURL string) (T, bool)) (out T, err error) {
	s.stats.Requests.Add(1)

	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		s.stats.Failures.Add(1)
		return out, required("url")
	}
	target := extract.NormalizeURL(s.ext.Base(), pageURL)

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("%s extraction panicked for %s: %v", what, target, r)
			s.stats.Failures.Add(1)
			err = fmt.Errorf("%s %s: %w", what, target, ErrEmptyExtraction)
		}
	}()

	res := s.fetch.Fetch(ctx, target)
	if res.Failed() {
		s.stats.Failures.Add(1)
		return out, fmt.Errorf("%s %s: %w", what, target, ErrFetchFailed)
	}

	v, ok := extractFn(res.Body, target)
	if !ok {
		s.stats.Failures.Add(1)
		return out, fmt.Errorf("%s %s: %w", what, target, ErrEmptyExtraction)
	}

	s.log.Debugf("%s extracted from %s", what, target)
	return v, nil
}
