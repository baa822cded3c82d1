// Package cachestore holds named buckets of replayable HTTP responses.
//
// Buckets are listed in creation order. Within a bucket an identity maps to
// at most one entry; the last Put wins.
package cachestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrClosed = errors.New("cache store closed")

type Store interface {
	// Open creates bucket when it does not exist yet.
	Open(ctx context.Context, bucket string) error
	// Put stores e in bucket, creating the bucket if needed.
	Put(ctx context.Context, bucket string, e Entry) error
	// Match looks req up in bucket, or in every bucket in creation order
	// when bucket is "".
	Match(ctx context.Context, bucket string, req *http.Request) (Entry, bool, error)
	Buckets(ctx context.Context) ([]string, error)
	// Delete removes bucket and its entries and reports whether it existed.
	Delete(ctx context.Context, bucket string) (bool, error)
	Len(ctx context.Context, bucket string) (int, error)
	Close() error
}

// Entry is a stored response together with the request facts needed to
// match it again.
type Entry struct {
	Identity string
	Bucket   string
	Status   int
	Header   http.Header
	Body     []byte
	// Vary holds the request header values named by the response's Vary
	// header at the time it was stored.
	Vary     map[string]string
	StoredAt time.Time
}

// Identity is the request method and URL without its fragment.
func Identity(req *http.Request) string {
	u := *req.URL
	u.Fragment = ""
	u.RawFragment = ""

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	return method + " " + u.String()
}

// NewEntry captures a response for req.
func NewEntry(req *http.Request, status int, header http.Header, body []byte, now time.Time) Entry {
	e := Entry{
		Identity: Identity(req),
		Status:   status,
		Header:   header.Clone(),
		Body:     append([]byte(nil), body...),
		StoredAt: now.UTC(),
	}

	for _, name := range varyNames(header) {
		if e.Vary == nil {
			e.Vary = map[string]string{}
		}
		e.Vary[name] = req.Header.Get(name)
	}
	return e
}

// Response rebuilds an *http.Response for req from the entry.
func (e Entry) Response(req *http.Request) *http.Response {
	h := e.Header.Clone()
	if h == nil {
		h = http.Header{}
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// Matches reports whether req has the same identity as the entry and agrees
// on every header the stored response varies on.
func (e Entry) Matches(req *http.Request) bool {
	if Identity(req) != e.Identity {
		return false
	}

	for _, name := range varyNames(e.Header) {
		if name == "*" {
			return false
		}
		if req.Header.Get(name) != e.Vary[name] {
			return false
		}
	}
	return true
}

func varyNames(h http.Header) []string {
	var names []string
	for _, v := range h.Values("Vary") {
		for n := range strings.SplitSeq(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				if n != "*" {
					n = http.CanonicalHeaderKey(n)
				}
				names = append(names, n)
			}
		}
	}
	return names
}
