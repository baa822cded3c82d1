package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Fixture(t *testing.T) {
	e := newTestExtractor(t)

	page, ok := e.Search(fixture(t, "search.html"), "dune", 1)
	require.True(t, ok)

	assert.Equal(t, "dune", page.Query)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 7, page.TotalPages)
	assert.True(t, page.HasNext)

	require.Len(t, page.Results, 2)
	assert.Equal(t, "Dune", page.Results[0].Title)
	assert.Equal(t, "https://themoviebox.org/p/dune.jpg", page.Results[0].Image)
	assert.Equal(t, "2021", page.Results[0].Year)
	assert.Equal(t, "HD", page.Results[0].Quality)
	assert.Equal(t, "4K", page.Results[1].Quality)
	assert.Equal(t, "N/A", page.Results[1].Year)
}

func TestSearch_HasNextTracksTotalPages(t *testing.T) {
	e := newTestExtractor(t)
	markup := fixture(t, "search.html")

	tests := []struct {
		page        int
		wantCurrent int
		wantNext    bool
	}{
		{page: 0, wantCurrent: 1, wantNext: true},
		{page: 6, wantCurrent: 6, wantNext: true},
		{page: 7, wantCurrent: 7, wantNext: false},
		{page: 9, wantCurrent: 9, wantNext: false},
	}

	for _, tt := range tests {
		got, ok := e.Search(markup, "dune", tt.page)
		require.True(t, ok)
		assert.Equal(t, tt.wantCurrent, got.CurrentPage, "page %d", tt.page)
		assert.Equal(t, tt.wantNext, got.HasNext, "page %d", tt.page)
		assert.Equal(t, got.CurrentPage < got.TotalPages, got.HasNext)
	}
}

func TestSearch_LastPageLinksOnlyBackwards(t *testing.T) {
	e := newTestExtractor(t)
	markup := `<div class="result-item"><a href="/m/9">Nine</a></div>
<div class="pagination"><a href="/page/1/?s=x">1</a><a href="/page/2/?s=x">2</a></div>`

	page, ok := e.Search(markup, "x", 3)
	require.True(t, ok)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasNext)
}

func TestSearch_NoPaginationIsSinglePage(t *testing.T) {
	e := newTestExtractor(t)

	page, ok := e.Search(`<div class="result-item"><a href="/m/1">One</a></div>`, "one", 1)
	require.True(t, ok)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.Equal(t, "https://themoviebox.org/m/1", page.Results[0].URL)
}

func TestSearch_NoResultsIsEmpty(t *testing.T) {
	e := newTestExtractor(t)

	_, ok := e.Search(`<p>Nothing found for "zzz"</p>`, "zzz", 1)
	assert.False(t, ok)
}

func TestTotalPages_IgnoresNonNumericAnchors(t *testing.T) {
	doc := parse(`<div class="pagination"><a href="/page/x/">x</a><a href="/next">Next</a><a href="/page/4/">4</a></div>`)
	require.NotNil(t, doc)
	assert.Equal(t, 4, TotalPages(doc.Selection))
}
