// Package fetcher retrieves third-party pages through the CORS relay.
//
// A fetch never returns an error: every failure collapses into the sentinel
// body, which the extractor turns into an empty result.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brogergvhs/moviebox/internal/util"
)

// Sentinel is the body of every failed fetch.
const Sentinel = "<html><body>Error fetching data</body></html>"

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

type Logger interface {
	Debugf(string, ...any)
	Errorf(string, ...any)
}

type Options struct {
	// RelayURL is prefixed to the query-escaped target. Empty fetches the
	// target directly.
	RelayURL         string
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool
	Transport        http.RoundTripper
	Logger           Logger
}

type Fetcher struct {
	client  *http.Client
	relay   string
	timeout time.Duration
	log     Logger
}

type Result struct {
	Status int
	Body   string
	Err    error
}

// Failed reports whether Body is the sentinel.
func (r Result) Failed() bool { return r.Err != nil }

func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	var debug interface{ Debugf(string, ...any) }
	if opts.Logger != nil {
		debug = opts.Logger
	}

	client := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:   opts.Timeout,
		UserAgent: util.PickUserAgent(opts.UserAgent),
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		Transport:        opts.Transport,
		CloudflareBypass: opts.CloudflareBypass,
		DebugLogger:      debug,
	})

	return &Fetcher{
		client:  client,
		relay:   opts.RelayURL,
		timeout: opts.Timeout,
		log:     opts.Logger,
	}
}

// RelayURL is the URL actually requested for target.
func (f *Fetcher) RelayURL(target string) string {
	if f.relay == "" {
		return target
	}
	return f.relay + url.QueryEscape(target)
}

// Fetch makes a single attempt. Cancellation of ctx is ignored; only the
// fetch timeout bounds the call.
func (f *Fetcher) Fetch(ctx context.Context, target string) Result {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	f.debugf("fetch %s\n", target)

	res, err := f.do(ctx, target)
	if err != nil {
		f.errorf("fetch %s: %v\n", target, err)
		return Result{Status: res.Status, Body: Sentinel, Err: err}
	}

	f.debugf("fetched %s (%d, %d bytes)\n", target, res.Status, len(res.Body))
	return res
}

func (f *Fetcher) do(ctx context.Context, target string) (Result, error) {
	if strings.TrimSpace(target) == "" {
		return Result{}, fmt.Errorf("empty target url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.RelayURL(target), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Result{Status: resp.StatusCode}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{Status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}

	return Result{Status: resp.StatusCode, Body: string(body)}, nil
}

func (f *Fetcher) debugf(format string, args ...any) {
	if f.log != nil {
		f.log.Debugf(format, args...)
	}
}

func (f *Fetcher) errorf(format string, args ...any) {
	if f.log != nil {
		f.log.Errorf(format, args...)
	}
}
