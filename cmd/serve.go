package cmd

import (
	"context"
	"fmt"

	"github.com/brogergvhs/moviebox/internal/api"
	"github.com/brogergvhs/moviebox/internal/catalog"
	"github.com/brogergvhs/moviebox/internal/config"
	"github.com/brogergvhs/moviebox/internal/extract"
	"github.com/brogergvhs/moviebox/internal/fetcher"
	"github.com/brogergvhs/moviebox/internal/ui"
	"github.com/brogergvhs/moviebox/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagListen           string
	flagPublic           string
	flagBaseURL          string
	flagRelay            string
	flagUserAgent        string
	flagCloudflareBypass bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API. Uses the selected config, overwritten by CLI flags",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (e.g. :3000)")
	serveCmd.Flags().StringVar(&flagPublic, "public", "", "serve the client app from this directory")
	addFetchFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}

// addFetchFlags registers the flags shared by every command that talks to
// the upstream site.
func addFetchFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagBaseURL, "base-url", "", "upstream site")
	c.Flags().StringVar(&flagRelay, "relay", "", "CORS relay prefix")
	c.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	c.Flags().BoolVar(&flagCloudflareBypass, "cloudflare-bypass", false, "wrap the transport with the cloudflare bypass")
}

func fetchOptions() config.Options {
	return config.Options{
		BaseURL:          flagBaseURL,
		RelayURL:         flagRelay,
		UserAgent:        flagUserAgent,
		CloudflareBypass: flagCloudflareBypass,
	}
}

// newCatalog wires fetcher, extractor and catalog from cfg.
func newCatalog(cfg *config.Config, log *ui.Logger) (*catalog.Service, error) {
	ext, err := extract.New(cfg.BaseURL, cfg.HomeLimit)
	if err != nil {
		return nil, err
	}

	f := fetcher.New(fetcher.Options{
		RelayURL:         cfg.RelayURL,
		Timeout:          cfg.FetchTimeout,
		UserAgent:        cfg.UserAgent,
		CloudflareBypass: cfg.CloudflareBypass,
		Logger:           log,
	})

	return catalog.New(f, ext, log), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	opts := fetchOptions()
	opts.Listen = flagListen
	opts.PublicDir = flagPublic

	cfg, used, log, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log.Debugf("config: %s", used)

	svc, err := newCatalog(cfg, log)
	if err != nil {
		return err
	}

	srv := api.NewServer(svc, log, api.Options{PublicDir: cfg.PublicDir})

	ctx, cancel := util.ShutdownContext(context.Background())
	defer cancel()

	if cfg.RelayURL != "" {
		log.Infof("upstream %s via relay %s", cfg.BaseURL, cfg.RelayURL)
	} else {
		log.Infof("upstream %s (direct)", cfg.BaseURL)
	}
	if cfg.PublicDir != "" {
		log.Infof("serving client app from %s", cfg.PublicDir)
	}

	if err := srv.ListenAndServe(ctx, cfg.Listen); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	st := svc.Stats()
	log.Infof("stopped: %d requests, %d fallbacks, %d failures", st.Requests, st.Fallbacks, st.Failures)
	return nil
}
