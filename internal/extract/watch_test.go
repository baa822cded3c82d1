package extract

import (
	"testing"

	"github.com/brogergvhs/moviebox/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_IframesAndDownloads(t *testing.T) {
	e := newTestExtractor(t)

	b, ok := e.Watch(fixture(t, "watch_frames.html"), "/watch/abc")
	require.True(t, ok)

	assert.Equal(t, []media.Server{
		{Name: "Server 1", URL: "https://player.example.net/embed/abc", Kind: "iframe"},
		{Name: "Server 2", URL: "https://player2.example.net/e/def", Kind: "iframe"},
	}, b.Servers)

	assert.Equal(t, []media.Download{
		{URL: "https://themoviebox.org/dl/1080", Quality: "1080p", Kind: "download"},
		{URL: "https://files.example.net/720.mp4", Quality: "720p", Kind: "download"},
	}, b.Downloads)

	assert.Equal(t, "https://themoviebox.org/watch/abc", b.SourceURL)
}

func TestWatch_ServerItemsWinOverFrames(t *testing.T) {
	e := newTestExtractor(t)

	b, ok := e.Watch(fixture(t, "watch_servers.html"), "/watch/x")
	require.True(t, ok)

	assert.Equal(t, []media.Server{
		{Name: "Vidstream", URL: "https://vid.example.net/e/1", Kind: "iframe"},
		{Name: "Server 2", URL: "https://themoviebox.org/embed/2", Kind: "iframe"},
	}, b.Servers)
	assert.NotNil(t, b.Downloads)
	assert.Empty(t, b.Downloads)
}

func TestWatch_ScriptPlayerURLs(t *testing.T) {
	e := newTestExtractor(t)

	b, ok := e.Watch(fixture(t, "watch_script.html"), "/watch/s")
	require.True(t, ok)

	assert.Equal(t, []media.Server{
		{Name: "Server 1", URL: "https://stream.example.net/hls/master.m3u8", Kind: "iframe"},
		{Name: "Server 2", URL: "https://embed.example.net/v/9", Kind: "iframe"},
	}, b.Servers)
}

func TestWatch_DownloadsOnly(t *testing.T) {
	e := newTestExtractor(t)

	b, ok := e.Watch(`<a class="download" href="/f.mkv">Get it in 4K</a>`, "/w")
	require.True(t, ok)
	assert.NotNil(t, b.Servers)
	assert.Empty(t, b.Servers)
	require.Len(t, b.Downloads, 1)
	assert.Equal(t, "4K", b.Downloads[0].Quality)
}

func TestWatch_DownloadQualityDefaultsToHD(t *testing.T) {
	e := newTestExtractor(t)

	b, ok := e.Watch(`<div class="downloads"><a href="/f.mkv">Mirror</a></div>`, "/w")
	require.True(t, ok)
	require.Len(t, b.Downloads, 1)
	assert.Equal(t, "HD", b.Downloads[0].Quality)
}

func TestWatch_NothingPlayableIsEmpty(t *testing.T) {
	e := newTestExtractor(t)

	_, ok := e.Watch(`<div class="player">Coming soon</div><a href="#" class="download">soon</a>`, "/w")
	assert.False(t, ok)
}
