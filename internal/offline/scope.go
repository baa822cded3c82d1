package offline

import (
	"context"
	"net/http"
	"sync"

	"github.com/brogergvhs/moviebox/internal/cachestore"
)

// Scope is the client-side owner of deployments. It is an http.RoundTripper
// that routes through the governor of the active deployment, or straight to
// the network while none is active.
type Scope struct {
	store cachestore.Store
	next  http.RoundTripper
	opts  GovernorOptions

	mu     sync.RWMutex
	active *Deployment
	gov    *Governor
}

func NewScope(store cachestore.Store, next http.RoundTripper, opts GovernorOptions) *Scope {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Scope{store: store, next: next, opts: opts}
}

// Deploy installs and activates d, then marks the previously active
// deployment superseded. On error the previous deployment stays active.
func (s *Scope) Deploy(ctx context.Context, d *Deployment, obs InstallObserver) ([]string, error) {
	if err := d.Install(ctx, obs); err != nil {
		return nil, err
	}
	evicted, err := d.Activate(ctx)
	if err != nil {
		return nil, err
	}

	gov := NewGovernor(d.Generation(), s.store, s.next, s.opts)

	s.mu.Lock()
	prev := s.active
	s.active, s.gov = d, gov
	s.mu.Unlock()

	if prev != nil && prev != d {
		prev.supersede()
	}
	return evicted, nil
}

func (s *Scope) Active() *Deployment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Scope) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.RLock()
	gov := s.gov
	s.mu.RUnlock()

	if gov == nil {
		return s.next.RoundTrip(req)
	}
	return gov.RoundTrip(req)
}
