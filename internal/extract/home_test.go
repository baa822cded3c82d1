package extract

import (
	"testing"

	"github.com/brogergvhs/moviebox/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome_Fixture(t *testing.T) {
	e := newTestExtractor(t)

	feed, ok := e.Home(fixture(t, "home.html"))
	require.True(t, ok)
	require.Len(t, feed.Trending, 3)

	assert.Equal(t, media.MediaSummary{
		Title:   "Civil War",
		Image:   "https://themoviebox.org/poster/civil-war.jpg",
		URL:     "https://themoviebox.org/movie/civil-war",
		Quality: "CAM",
		Year:    "2024",
	}, feed.Trending[0])

	assert.Equal(t, media.MediaSummary{
		Title:   "Monkey Man",
		Image:   "https://cdn.example.net/monkey-man.jpg",
		URL:     "https://themoviebox.org/movie/monkey-man",
		Quality: "HD",
		Year:    "2024",
	}, feed.Trending[1])

	assert.Equal(t, media.MediaSummary{
		Title:   "Unknown Title",
		Image:   placeholderThumb,
		URL:     "https://themoviebox.org/movie/no-title",
		Quality: "HD",
		Year:    "N/A",
	}, feed.Trending[2])

	assert.Equal(t, feed.Trending, feed.Latest)
	assert.Equal(t, feed.Trending, feed.Series)

	require.Len(t, feed.Featured, 1)
	assert.Equal(t, "Dune: Part Two", feed.Featured[0].Title)
	assert.Equal(t, "https://img.example.net/dune-wide.jpg", feed.Featured[0].Image)
	assert.Equal(t, "https://themoviebox.org/movie/dune-part-two", feed.Featured[0].URL)
	assert.Equal(t, "Paul Atreides unites with Chani and the Fremen.", feed.Featured[0].Description)
}

func TestHome_FeaturedFallsBackToTrending(t *testing.T) {
	e := newTestExtractor(t)
	markup := `<div class="movie-item"><a href="/a"><span class="title">A</span></a></div>
<div class="movie-item"><a href="/b"><span class="title">B</span></a></div>
<div class="movie-item"><a href="/c"><span class="title">C</span></a></div>
<div class="movie-item"><a href="/d"><span class="title">D</span></a></div>`

	feed, ok := e.Home(markup)
	require.True(t, ok)
	require.Len(t, feed.Trending, 4)
	require.Len(t, feed.Featured, 3)
	for i, f := range feed.Featured {
		assert.Equal(t, feed.Trending[i], f.MediaSummary)
		assert.Equal(t, featuredDescription, f.Description)
	}
}

func TestHome_TrendingRespectsLimit(t *testing.T) {
	e, err := New("https://themoviebox.org", 2)
	require.NoError(t, err)

	feed, ok := e.Home(`<div class="post">1</div><div class="post">2</div><div class="post">3</div>`)
	require.True(t, ok)
	assert.Len(t, feed.Trending, 2)
}

func TestHome_UnknownMarkupIsEmpty(t *testing.T) {
	e := newTestExtractor(t)

	// A page with content in an unrecognized dialect is indistinguishable
	// from a page with no movies.
	_, ok := e.Home(`<main><article class="card"><h2>Dune</h2></article></main>`)
	assert.False(t, ok)

	_, ok = e.Home("")
	assert.False(t, ok)
}
