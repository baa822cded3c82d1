package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/brogergvhs/moviebox/internal/cachestore"
	"github.com/brogergvhs/moviebox/internal/config"
	"github.com/brogergvhs/moviebox/internal/offline"
	"github.com/brogergvhs/moviebox/internal/ui"
	"github.com/brogergvhs/moviebox/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagCacheBackend string
	flagCachePath    string
	flagCacheOrigin  string
	flagCacheVersion string

	flagNavigate  bool
	flagDest      string
	flagFetchOut  string
	flagClearFile bool
)

var offlineCmd = &cobra.Command{
	Use:   "offline",
	Short: "Manage the offline response cache",
}

var offlineInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the configured cache generation and evict older ones",
	Args:  cobra.NoArgs,
	RunE:  runOfflineInstall,
}

var offlineStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List cache buckets and whether they survive the next activation",
	Args:  cobra.NoArgs,
	RunE:  runOfflineStatus,
}

var offlineFetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a URL through the cache governor",
	Args:  cobra.ExactArgs(1),
	RunE:  runOfflineFetch,
}

var offlineClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cache bucket",
	Args:  cobra.NoArgs,
	RunE:  runOfflineClear,
}

func init() {
	f := offlineCmd.PersistentFlags()
	f.StringVar(&flagCacheBackend, "backend", "", "cache backend: memory|sqlite")
	f.StringVar(&flagCachePath, "cache-path", "", "sqlite cache file")
	f.StringVar(&flagCacheOrigin, "origin", "", "origin relative static assets resolve against")
	f.StringVar(&flagCacheVersion, "cache-version", "", "cache generation version")

	offlineFetchCmd.Flags().BoolVar(&flagNavigate, "navigate", false, "send the request as a page navigation")
	offlineFetchCmd.Flags().StringVar(&flagDest, "dest", "", "Sec-Fetch-Dest of the request (e.g. image)")
	offlineFetchCmd.Flags().StringVarP(&flagFetchOut, "output", "o", "", "write the body to this file instead of stdout")

	offlineClearCmd.Flags().BoolVar(&flagClearFile, "files", false, "also remove the sqlite cache file")

	offlineCmd.AddCommand(offlineInstallCmd, offlineStatusCmd, offlineFetchCmd, offlineClearCmd)
	rootCmd.AddCommand(offlineCmd)
}

// cacheEnv is everything the offline commands share.
type cacheEnv struct {
	cfg   *config.Config
	log   *ui.Logger
	store cachestore.Store
	gen   offline.Generation
	opts  offline.GovernorOptions
}

func openCacheEnv() (*cacheEnv, error) {
	cfg, used, log, err := loadConfig(config.Options{
		CacheBackend: flagCacheBackend,
		CachePath:    flagCachePath,
		CacheOrigin:  flagCacheOrigin,
		CacheVersion: flagCacheVersion,
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("config: %s", used)

	origin, err := url.Parse(cfg.Cache.Origin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("cache origin %q must be an absolute URL", cfg.Cache.Origin)
	}

	store, err := cachestore.Open(cfg.Cache.Backend, cfg.Cache.Path)
	if err != nil {
		return nil, err
	}

	gen := offline.NewGeneration(cfg.Cache.Prefix, cfg.Cache.Version, origin, cfg.Cache.StaticAssets)
	gen.EntryPath = cfg.Cache.EntryPath

	return &cacheEnv{
		cfg:   cfg,
		log:   log,
		store: store,
		gen:   gen,
		opts: offline.GovernorOptions{
			Classifier: offline.Classifier{
				APIPrefix:  cfg.Cache.APIPrefix,
				Extensions: cfg.Cache.StaticExtensions,
				Hosts:      cfg.Cache.StaticHosts,
			},
			Logger: log,
		},
	}, nil
}

func (e *cacheEnv) client() *http.Client {
	return util.NewHTTPClient(util.HTTPClientOptions{
		UserAgent:        util.PickUserAgent(e.cfg.UserAgent),
		CloudflareBypass: e.cfg.CloudflareBypass,
		DebugLogger:      e.log,
	})
}

func (e *cacheEnv) close() {
	if err := e.store.Close(); err != nil {
		e.log.Errorf("close cache: %v", err)
	}
}

// installProgress feeds install events into an mpb bar.
type installProgress struct {
	bar *ui.ProgressHandle
	log *ui.Logger
}

func (p installProgress) InstallStarted(total int) { p.bar.SetTotal(total) }
func (p installProgress) BytesRead(n int64)        { p.bar.AddBytes(n) }

func (p installProgress) AssetDone(u string, err error) {
	if err != nil {
		p.log.Debugf("asset %s: %v", u, err)
		return
	}
	p.bar.Increment()
}

func runOfflineInstall(cmd *cobra.Command, _ []string) error {
	env, err := openCacheEnv()
	if err != nil {
		return err
	}
	defer env.close()

	ctx, cancel := util.ShutdownContext(context.Background())
	defer cancel()

	d := offline.NewDeployment(env.gen, env.store, offline.DeploymentOptions{
		Client:  env.client(),
		Workers: env.cfg.Cache.InstallWorkers,
		Logger:  env.log,
	})
	scope := offline.NewScope(env.store, env.client().Transport, env.opts)

	pm := ui.NewProgressManager()
	bar := pm.Register(env.gen.StaticBucket())

	evicted, err := scope.Deploy(ctx, d, installProgress{bar: bar, log: env.log})
	bar.MarkDone(err != nil)
	pm.Close()

	if err != nil {
		return err
	}

	fmt.Printf("Generation %s is %s.\n", env.gen.Version, d.State())
	for _, name := range evicted {
		fmt.Printf("Evicted: %s\n", name)
	}
	if env.cfg.Cache.Backend == cachestore.BackendMemory {
		fmt.Println("Note: the memory backend forgets everything when this command exits.")
	}
	return nil
}

func runOfflineStatus(cmd *cobra.Command, _ []string) error {
	env, err := openCacheEnv()
	if err != nil {
		return err
	}
	defer env.close()

	ctx := context.Background()
	names, err := env.store.Buckets(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Generation: %s\n", env.gen.Version)
	if env.cfg.Cache.Backend == cachestore.BackendSQLite {
		fmt.Printf("Store:      %s\n", env.cfg.Cache.Path)
	}
	fmt.Println()

	if len(names) == 0 {
		fmt.Println("No cache buckets. Run `moviebox offline install`.")
		return nil
	}

	reserved := env.gen.Reserved()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	_, _ = fmt.Fprintln(w, "BUCKET\tENTRIES\tSTATE")
	for _, name := range names {
		n, err := env.store.Len(ctx, name)
		if err != nil {
			return err
		}
		state := "stale"
		if slices.Contains(reserved, name) {
			state = "current"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", name, n, state)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !slices.Contains(names, env.gen.StaticBucket()) {
		fmt.Println("\nThe current generation is not installed.")
	}
	return nil
}

func runOfflineFetch(cmd *cobra.Command, args []string) error {
	env, err := openCacheEnv()
	if err != nil {
		return err
	}
	defer env.close()

	target, err := env.gen.Origin.Parse(args[0])
	if err != nil {
		return fmt.Errorf("bad url %q: %w", args[0], err)
	}

	gov := offline.NewGovernor(env.gen, env.store, env.client().Transport, env.opts)
	client := &http.Client{Transport: gov}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}
	if flagNavigate {
		req.Header.Set("Sec-Fetch-Mode", "navigate")
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
	}
	if flagDest != "" {
		req.Header.Set("Sec-Fetch-Dest", flagDest)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	source := resp.Header.Get(offline.HeaderSource)
	if source == "" {
		source = "network"
	}
	env.log.Infof("%s %s -> %d (%s, %s)", req.Method, target, resp.StatusCode,
		env.opts.Classifier.Classify(req), source)

	var out io.Writer = cmd.OutOrStdout()
	if flagFetchOut != "" {
		f, err := os.Create(flagFetchOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return err
	}
	if flagFetchOut != "" {
		env.log.Infof("wrote %s to %s", util.Human(n), flagFetchOut)
	}
	return nil
}

func runOfflineClear(cmd *cobra.Command, _ []string) error {
	env, err := openCacheEnv()
	if err != nil {
		return err
	}

	ctx := context.Background()
	names, err := env.store.Buckets(ctx)
	if err != nil {
		env.close()
		return err
	}
	for _, name := range names {
		if _, err := env.store.Delete(ctx, name); err != nil {
			env.close()
			return fmt.Errorf("delete %s: %w", name, err)
		}
		fmt.Printf("Deleted: %s\n", name)
	}
	env.close()

	if flagClearFile && env.cfg.Cache.Backend == cachestore.BackendSQLite {
		if err := util.RemoveStoreFiles(env.cfg.Cache.Path); err != nil {
			return err
		}
		fmt.Printf("Removed: %s\n", env.cfg.Cache.Path)
	}
	return nil
}
