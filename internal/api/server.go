// Package api serves the catalog as a JSON API under /api.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/brogergvhs/moviebox/internal/media"
	"github.com/brogergvhs/moviebox/internal/ui"
)

const shutdownTimeout = 10 * time.Second

type Catalog interface {
	Home(ctx context.Context) media.HomeFeed
	Search(ctx context.Context, query string, page int) (media.SearchResultPage, error)
	Detail(ctx context.Context, pageURL string) (media.DetailRecord, error)
	Watch(ctx context.Context, pageURL string) (media.PlaybackBundle, error)
	Stats() ui.StatsSnapshot
}

type Logger interface {
	Debugf(string, ...any)
	Infof(string, ...any)
	Errorf(string, ...any)
}

type Options struct {
	// PublicDir, when set, is served for every path outside /api/.
	PublicDir string
	Now       func() time.Time
}

type Server struct {
	catalog Catalog
	log     Logger
	opts    Options
}

func NewServer(c Catalog, log Logger, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{catalog: c, log: log, opts: opts}
}

// Handler is the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/home", s.handleHome)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/detail", s.handleDetail)
	mux.HandleFunc("GET /api/watch", s.handleWatch)
	mux.HandleFunc("/api/", s.handleNotFound)

	if s.opts.PublicDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.opts.PublicDir)))
	} else {
		mux.HandleFunc("/", s.handleNotFound)
	}

	return s.withCORS(s.withRecover(s.withLogging(mux)))
}

// ListenAndServe blocks until ctx is cancelled or the listener fails, then
// drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	s.log.Infof("Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
