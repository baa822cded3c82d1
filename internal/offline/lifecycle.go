package offline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/brogergvhs/moviebox/internal/cachestore"
)

// State is the lifecycle position of one deployment. Installed
// deployments activate without waiting.
type State int

const (
	StateNew State = iota
	StateInstalling
	StateInstalled
	StateActive
	StateSuperseded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActive:
		return "active"
	case StateSuperseded:
		return "superseded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrNotInstalled = errors.New("generation is not installed")
	ErrBadState     = errors.New("invalid lifecycle transition")
)

const DefaultInstallWorkers = 4

type DeploymentOptions struct {
	// Client fetches static assets at install time.
	Client  *http.Client
	Workers int
	Logger  Logger
	Now     func() time.Time
}

// Deployment walks one generation through install and activation.
type Deployment struct {
	gen     Generation
	store   cachestore.Store
	client  *http.Client
	workers int
	log     Logger
	now     func() time.Time

	mu    sync.Mutex
	state State
}

func NewDeployment(gen Generation, store cachestore.Store, opts DeploymentOptions) *Deployment {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Workers < 1 {
		opts.Workers = DefaultInstallWorkers
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Deployment{
		gen:     gen,
		store:   store,
		client:  opts.Client,
		workers: opts.Workers,
		log:     opts.Logger,
		now:     opts.Now,
	}
}

func (d *Deployment) Generation() Generation { return d.gen }

func (d *Deployment) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Deployment) transition(from []State, to State) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, f := range from {
		if d.state == f {
			d.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrBadState, d.state, to)
}

func (d *Deployment) set(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Install fetches every static asset and stores them only when all of them
// answered 200. On failure nothing is stored and the deployment can never
// activate until a later Install succeeds.
func (d *Deployment) Install(ctx context.Context, obs InstallObserver) error {
	if err := d.transition([]State{StateNew, StateFailed}, StateInstalling); err != nil {
		return err
	}
	if obs == nil {
		obs = nopObserver{}
	}

	urls := d.gen.AssetURLs()
	d.log.Debugf("offline: installing %s with %d assets", d.gen.StaticBucket(), len(urls))

	assets, err := fetchAssets(ctx, d.client, urls, d.workers, obs)
	if err != nil {
		d.set(StateFailed)
		return fmt.Errorf("install %s: %w", d.gen.Version, err)
	}

	bucket := d.gen.StaticBucket()
	if err := d.store.Open(ctx, bucket); err != nil {
		d.set(StateFailed)
		return fmt.Errorf("install %s: %w", d.gen.Version, err)
	}

	now := d.now()
	for _, a := range assets {
		e := cachestore.NewEntry(a.req, a.status, a.header, a.body, now)
		if err := d.store.Put(ctx, bucket, e); err != nil {
			if _, derr := d.store.Delete(context.WithoutCancel(ctx), bucket); derr != nil {
				d.log.Warnf("offline: drop partial bucket %s: %v", bucket, derr)
			}
			d.set(StateFailed)
			return fmt.Errorf("install %s: %w", d.gen.Version, err)
		}
	}

	d.set(StateInstalled)
	return nil
}

// Activate deletes every bucket the generation does not reserve and returns
// their names. A failed sweep leaves the deployment installed so that
// Activate can be retried.
func (d *Deployment) Activate(ctx context.Context) ([]string, error) {
	if st := d.State(); st != StateInstalled {
		if st == StateActive {
			return nil, nil
		}
		return nil, fmt.Errorf("activate %s (%s): %w", d.gen.Version, st, ErrNotInstalled)
	}

	existing, err := d.store.Buckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("activate %s: %w", d.gen.Version, err)
	}

	stale := Sweep(existing, d.gen.Reserved())
	for _, name := range stale {
		if _, err := d.store.Delete(ctx, name); err != nil {
			return nil, fmt.Errorf("activate %s: evict %s: %w", d.gen.Version, name, err)
		}
		d.log.Debugf("offline: evicted %s", name)
	}

	if err := d.transition([]State{StateInstalled}, StateActive); err != nil {
		return nil, err
	}
	return stale, nil
}

func (d *Deployment) supersede() {
	_ = d.transition([]State{StateActive}, StateSuperseded)
}
