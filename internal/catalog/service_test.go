package catalog

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/brogergvhs/moviebox/internal/extract"
	"github.com/brogergvhs/moviebox/internal/fetcher"
	"github.com/brogergvhs/moviebox/internal/media"
	"github.com/brogergvhs/moviebox/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned pages by URL; unknown URLs fail like the relay.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	seen  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, target string) fetcher.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, target)

	body, ok := f.pages[target]
	if !ok {
		return fetcher.Result{Status: 502, Body: fetcher.Sentinel, Err: errors.New("HTTP 502")}
	}
	return fetcher.Result{Status: 200, Body: body}
}

func newService(t *testing.T, pages map[string]string) (*Service, *fakeFetcher) {
	t.Helper()
	ext, err := extract.New("https://themoviebox.org", 10)
	require.NoError(t, err)

	f := &fakeFetcher{pages: pages}
	return New(f, ext, ui.NewLoggerTo(io.Discard, true)), f
}

const homeMarkup = `<div class="film-item"><a href="/movie/a"><img src="/a.jpg"></a><span class="title">A</span></div>`

func TestHome_Extracted(t *testing.T) {
	s, _ := newService(t, map[string]string{"https://themoviebox.org/": homeMarkup})

	feed := s.Home(context.Background())
	require.Len(t, feed.Trending, 1)
	assert.Equal(t, "A", feed.Trending[0].Title)
	assert.Equal(t, ui.StatsSnapshot{Requests: 1}, s.Stats())
}

func TestHome_FetchFailureServesPlaceholder(t *testing.T) {
	s, _ := newService(t, nil)

	feed := s.Home(context.Background())
	require.Len(t, feed.Trending, 5)
	assert.Equal(t, "Dune: Part Two", feed.Trending[0].Title)
	assert.Len(t, feed.Featured, 3)
	assert.Equal(t, int64(1), s.Stats().Fallbacks)
}

func TestHome_EmptyMarkupServesPlaceholder(t *testing.T) {
	s, _ := newService(t, map[string]string{"https://themoviebox.org/": ""})

	feed := s.Home(context.Background())
	require.Len(t, feed.Trending, 5)
	require.Len(t, feed.Featured, 3)
	for i := range feed.Featured {
		assert.Equal(t, feed.Trending[i].Title, feed.Featured[i].Title)
	}
}

func TestSearch_BlankQueryIsValidationError(t *testing.T) {
	s, f := newService(t, nil)

	_, err := s.Search(context.Background(), "   ", 1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "q", verr.Param)
	assert.Empty(t, f.seen, "nothing is fetched for an invalid request")
	assert.Equal(t, int64(1), s.Stats().Failures)
}

func TestSearch_URLs(t *testing.T) {
	s, _ := newService(t, nil)

	assert.Equal(t, "https://themoviebox.org/?s=dune+part+two", s.SearchURL("dune part two", 1))
	assert.Equal(t, "https://themoviebox.org/page/3/?s=dune", s.SearchURL("dune", 3))
}

func TestSearch_ExtractedAndPlaceholder(t *testing.T) {
	s, f := newService(t, map[string]string{
		"https://themoviebox.org/page/2/?s=dune": `<div class="result-item"><a href="/m/dune">Dune</a></div>
<div class="pagination"><a href="/page/4/?s=dune">4</a></div>`,
	})

	page, err := s.Search(context.Background(), "dune", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 4, page.TotalPages)
	assert.True(t, page.HasNext)

	page, err = s.Search(context.Background(), "batman", 0)
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part Two - batman", page.Results[0].Title)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, "https://themoviebox.org/?s=batman", f.seen[len(f.seen)-1])
}

func TestDetail_Errors(t *testing.T) {
	s, _ := newService(t, map[string]string{
		"https://themoviebox.org/movie/empty": `<div>nothing</div>`,
	})

	_, err := s.Detail(context.Background(), "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "url", verr.Param)

	_, err = s.Detail(context.Background(), "/movie/missing")
	assert.ErrorIs(t, err, ErrFetchFailed)

	_, err = s.Detail(context.Background(), "/movie/empty")
	assert.ErrorIs(t, err, ErrEmptyExtraction)

	assert.Equal(t, int64(3), s.Stats().Failures)
	assert.Zero(t, s.Stats().Fallbacks, "detail pages have no placeholder")
}

func TestDetail_RelativeURLNormalized(t *testing.T) {
	s, f := newService(t, map[string]string{
		"https://themoviebox.org/movie/dune": `<h1>Dune</h1>`,
	})

	rec, err := s.Detail(context.Background(), "movie/dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", rec.Title)
	assert.Equal(t, media.KindMovie, rec.Kind)
	assert.Equal(t, "https://themoviebox.org/movie/dune", rec.SourceURL)
	assert.Equal(t, []string{"https://themoviebox.org/movie/dune"}, f.seen)
}

func TestWatch(t *testing.T) {
	s, _ := newService(t, map[string]string{
		"https://themoviebox.org/watch/1": `<iframe src="https://p.example/e/1"></iframe>`,
		"https://themoviebox.org/watch/2": `<p>nothing</p>`,
	})

	b, err := s.Watch(context.Background(), "https://themoviebox.org/watch/1")
	require.NoError(t, err)
	require.Len(t, b.Servers, 1)
	assert.Equal(t, "Server 1", b.Servers[0].Name)

	_, err = s.Watch(context.Background(), "/watch/2")
	assert.ErrorIs(t, err, ErrEmptyExtraction)

	_, err = s.Watch(context.Background(), "/watch/3")
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestResolveOrSynthesize_RecoversPanic(t *testing.T) {
	s, _ := newService(t, nil)

	got := resolveOrSynthesize(s, "home", fetcher.Result{Status: 200, Body: "<html>"},
		func(string) (media.HomeFeed, bool) { panic("boom") },
		s.synth.Home,
	)
	assert.Len(t, got.Trending, 5)
	assert.Equal(t, int64(1), s.Stats().Fallbacks)
}
