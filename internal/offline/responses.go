package offline

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

const (
	offlineAPIMessage = "You are offline. Check your internet connection and try again."

	offlineImageSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><rect width="100" height="100" fill="#141414"/><text x="50" y="65" font-size="50" text-anchor="middle" fill="#e50914">&#127916;</text></svg>`

	offlineDocument = `<!DOCTYPE html>
<html>
  <head><title>Offline - MovieBox</title></head>
  <body style="background:#141414; color:white; text-align:center; padding:50px;">
    <h1 style="color:#e50914;">MovieBox</h1>
    <p>You are offline. Connect to the internet and reload.</p>
  </body>
</html>
`
)

// Synthesized responses carry this header so callers can tell them apart
// from replayed or live ones.
const HeaderSource = "X-Moviebox-Cache"

const (
	sourceCache     = "hit"
	sourceSynthetic = "offline"
)

func synthesized(req *http.Request, status int, contentType string, body []byte) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set(HeaderSource, sourceSynthetic)

	return &http.Response{
		Status:        strconv.Itoa(status) + " " + http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func offlineJSON(req *http.Request) *http.Response {
	body, _ := json.Marshal(map[string]any{"success": false, "error": offlineAPIMessage})
	return synthesized(req, http.StatusServiceUnavailable, "application/json", body)
}

func offlineImage(req *http.Request) *http.Response {
	return synthesized(req, http.StatusOK, "image/svg+xml", []byte(offlineImageSVG))
}

func offlineStatus(req *http.Request) *http.Response {
	return synthesized(req, http.StatusRequestTimeout, "text/plain; charset=utf-8", []byte("Offline"))
}

func offlinePage(req *http.Request) *http.Response {
	return synthesized(req, http.StatusOK, "text/html; charset=utf-8", []byte(offlineDocument))
}
