package extract

import (
	"strings"
	"testing"

	"github.com/brogergvhs/moviebox/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetail_Series(t *testing.T) {
	e := newTestExtractor(t)

	rec, ok := e.Detail(fixture(t, "detail_series.html"), "/tv/shogun")
	require.True(t, ok)

	assert.Equal(t, "Shogun", rec.Title)
	assert.Equal(t, "Lord Toranaga fights for his life as his enemies unite against him.", rec.Description)
	assert.Equal(t, "https://themoviebox.org/poster/shogun.jpg", rec.Poster)
	assert.Equal(t, "https://themoviebox.org/bg/shogun.jpg", rec.Backdrop)
	assert.Equal(t, "2024", rec.Year)
	assert.Equal(t, "Drama, History", rec.Genre)
	assert.Equal(t, "8.7", rec.Rating)
	assert.Equal(t, "58m", rec.Duration)
	assert.Equal(t, media.KindSeries, rec.Kind)
	assert.Equal(t, "https://themoviebox.org/tv/shogun", rec.SourceURL)

	want := []media.EpisodeRef{
		{Title: "Episode 9", URL: "https://themoviebox.org/watch/shogun-1x9", Image: rec.Poster, Index: 1},
		{Title: "The Servants of Two Masters", URL: "https://themoviebox.org/watch/shogun-1x2", Image: rec.Poster, Index: 2},
		{Title: "Anjin", URL: "https://themoviebox.org/watch/shogun-1x1", Image: "https://img.example.net/ep1.jpg", Index: 3},
	}
	assert.Equal(t, want, rec.Episodes)
}

func TestDetail_EpisodeIndexesAreContiguous(t *testing.T) {
	e := newTestExtractor(t)
	markup := `<h1>Show</h1>
<div class="eps-item" data-episode="12"><a href="/e/12"></a></div>
<div class="eps-item" data-episode="3"><a href="/e/3"></a></div>
<div class="eps-item"><a href="/e/x"></a></div>`

	rec, ok := e.Detail(markup, "/show")
	require.True(t, ok)
	require.Len(t, rec.Episodes, 3)

	for i, ep := range rec.Episodes {
		assert.Equal(t, i+1, ep.Index)
	}
	assert.Equal(t, "Episode 12", rec.Episodes[0].Title)
	assert.Equal(t, "Episode 3", rec.Episodes[1].Title)
	assert.Equal(t, "Episode 3", rec.Episodes[2].Title)
}

func TestDetail_SingleEpisodeItemMakesSeries(t *testing.T) {
	e := newTestExtractor(t)

	rec, ok := e.Detail(`<h1 class="movie-title">Pilot</h1><div class="episode-item"><a href="/e/1">Pilot</a></div>`, "/p")
	require.True(t, ok)
	assert.Equal(t, media.KindSeries, rec.Kind)
	require.Len(t, rec.Episodes, 1)
	assert.Equal(t, 1, rec.Episodes[0].Index)
}

func TestDetail_MovieFromMetaTags(t *testing.T) {
	e := newTestExtractor(t)

	rec, ok := e.Detail(fixture(t, "detail_movie.html"), "/movie/the-fall-guy")
	require.True(t, ok)

	assert.Equal(t, "The Fall Guy", rec.Title)
	assert.Equal(t, "A stuntman is drawn back into service.", rec.Description)
	assert.Equal(t, placeholderPoster, rec.Poster)
	assert.Equal(t, rec.Poster, rec.Backdrop)
	assert.Equal(t, "N/A", rec.Year)
	assert.Equal(t, "N/A", rec.Genre)
	assert.Equal(t, "N/A", rec.Rating)
	assert.Equal(t, "N/A", rec.Duration)
	assert.Equal(t, media.KindMovie, rec.Kind)
	assert.NotNil(t, rec.Episodes)
	assert.Empty(t, rec.Episodes)
	assert.Equal(t, "https://themoviebox.org/movie/the-fall-guy", rec.SourceURL)
}

func TestDetail_NoTitleIsEmpty(t *testing.T) {
	e := newTestExtractor(t)

	_, ok := e.Detail(`<div class="poster"><img src="/p.jpg"></div>`, "/x")
	assert.False(t, ok)
}

func TestDetail_EpisodeContainerWithoutAnchors(t *testing.T) {
	e := newTestExtractor(t)
	markup := `<h1>Show</h1>
<div id="episodes">
  <button data-url="/e/1">Ep 1</button>
  <button data-url="/e/2">Ep 2</button>
</div>`

	rec, ok := e.Detail(markup, "/show")
	require.True(t, ok)
	assert.Equal(t, media.KindSeries, rec.Kind)
	require.Len(t, rec.Episodes, 2)
	assert.Equal(t, "Ep 1", rec.Episodes[0].Title)
	assert.Equal(t, "https://themoviebox.org/e/1", rec.Episodes[0].URL)
	assert.Equal(t, 2, rec.Episodes[1].Index)
}

func TestDetail_SeasonListItems(t *testing.T) {
	e := newTestExtractor(t)
	markup := `<h1>Show</h1><ul class="season-list"><li data-url="/s1">Season 1</li><li data-url="/s2">Season 2</li></ul>`

	rec, ok := e.Detail(markup, "/show")
	require.True(t, ok)
	assert.Equal(t, media.KindSeries, rec.Kind)
	assert.Len(t, rec.Episodes, 2)
}

func TestDetail_DescriptionFromReadableText(t *testing.T) {
	e := newTestExtractor(t)
	para := "A linguist is recruited by the military to communicate with alien visitors, " +
		"working against the clock, with a physicist at her side, as tension rises between nations. "
	markup := `<html><head><title>Arrival</title></head><body><h1>Arrival</h1><article>` +
		`<p>` + strings.Repeat(para, 3) + `</p><p>` + strings.Repeat(para, 2) + `</p>` +
		`</article></body></html>`

	rec, ok := e.Detail(markup, "/movie/arrival")
	require.True(t, ok)
	assert.Contains(t, rec.Description, "A linguist is recruited")
}

func TestDetail_DescriptionNeverBlank(t *testing.T) {
	e := newTestExtractor(t)

	rec, ok := e.Detail(`<html><body><h1>Bare</h1></body></html>`, "/bare")
	require.True(t, ok)
	assert.NotEmpty(t, rec.Description)
}
