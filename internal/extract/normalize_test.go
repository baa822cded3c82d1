package extract

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	base, _ := url.Parse("https://themoviebox.org")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"absolute https kept", "https://cdn.example.net/a.jpg", "https://cdn.example.net/a.jpg"},
		{"absolute http kept", "http://cdn.example.net/a.jpg", "http://cdn.example.net/a.jpg"},
		{"protocol relative", "//img.example.net/a.jpg", "https://img.example.net/a.jpg"},
		{"root relative", "/movie/dune", "https://themoviebox.org/movie/dune"},
		{"path relative", "movie/dune", "https://themoviebox.org/movie/dune"},
		{"hash placeholder", "#", "https://themoviebox.org/#"},
		{"surrounding space", "  /x  ", "https://themoviebox.org/x"},
		{"empty", "", "https://themoviebox.org/"},
		{"data uri kept", "data:image/png;base64,AA", "data:image/png;base64,AA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(base, tt.raw)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsAbsolute(got))
		})
	}
}

func TestNormalizeURL_UsesBaseScheme(t *testing.T) {
	base, _ := url.Parse("http://mirror.local:8080")
	assert.Equal(t, "http://cdn.example.net/x", NormalizeURL(base, "//cdn.example.net/x"))
	assert.Equal(t, "http://mirror.local:8080/x", NormalizeURL(base, "/x"))
}
