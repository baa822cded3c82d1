package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/brogergvhs/moviebox/internal/cachestore"
	"github.com/brogergvhs/moviebox/internal/fetcher"
	"github.com/brogergvhs/moviebox/internal/offline"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListen   = ":3000"
	DefaultBaseURL  = "https://themoviebox.org"
	DefaultRelayURL = "https://cors.caliph.my.id/?url="
)

type Config struct {
	Listen           string        `yaml:"listen"`
	BaseURL          string        `yaml:"base_url"`
	RelayURL         string        `yaml:"relay_url"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	UserAgent        string        `yaml:"user_agent"`
	CloudflareBypass bool          `yaml:"cloudflare_bypass"`
	Debug            bool          `yaml:"debug"`
	PublicDir        string        `yaml:"public_dir"`
	HomeLimit        int           `yaml:"home_limit"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig drives the offline governor of `moviebox offline`.
type CacheConfig struct {
	Prefix           string   `yaml:"prefix"`
	Version          string   `yaml:"version"`
	Backend          string   `yaml:"backend"`
	Path             string   `yaml:"path"`
	Origin           string   `yaml:"origin"`
	APIPrefix        string   `yaml:"api_prefix"`
	EntryPath        string   `yaml:"entry_path"`
	StaticAssets     []string `yaml:"static_assets"`
	StaticExtensions []string `yaml:"static_extensions"`
	StaticHosts      []string `yaml:"static_hosts"`
	InstallWorkers   int      `yaml:"install_workers"`
}

// Options are command-line overrides. Zero values leave the config as is.
type Options struct {
	IgnoreConfig     bool
	Debug            bool
	Listen           string
	BaseURL          string
	RelayURL         string
	FetchTimeout     time.Duration
	UserAgent        string
	CloudflareBypass bool
	PublicDir        string
	CacheBackend     string
	CachePath        string
	CacheOrigin      string
	CacheVersion     string
}

func DefaultConfig() *Config {
	return &Config{
		Listen:       DefaultListen,
		BaseURL:      DefaultBaseURL,
		RelayURL:     DefaultRelayURL,
		FetchTimeout: fetcher.DefaultTimeout,
		HomeLimit:    10,
		Cache: CacheConfig{
			Prefix:           offline.DefaultPrefix,
			Version:          offline.DefaultVersion,
			Backend:          cachestore.BackendSQLite,
			Path:             DefaultCachePath(),
			Origin:           "http://localhost:3000",
			APIPrefix:        offline.DefaultAPIPrefix,
			EntryPath:        offline.DefaultEntryPath,
			StaticAssets:     append([]string(nil), offline.DefaultStaticAssets...),
			StaticExtensions: append([]string(nil), offline.DefaultStaticExtensions...),
			StaticHosts:      append([]string(nil), offline.DefaultStaticHosts...),
			InstallWorkers:   offline.DefaultInstallWorkers,
		},
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Start from the defaults so a profile only needs the keys it changes.
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadMerged resolves the effective config: active profile (or defaults),
// then environment, then command-line options. The returned string names
// the source for display.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		applyEnv(cfg)
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg := DefaultConfig()
		applyEnv(cfg)
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `moviebox config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	applyEnv(cfg)
	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Debug {
		c.Debug = true
	}
	if o.Listen != "" {
		c.Listen = o.Listen
	}
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.RelayURL != "" {
		c.RelayURL = o.RelayURL
	}
	if o.FetchTimeout > 0 {
		c.FetchTimeout = o.FetchTimeout
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.CloudflareBypass {
		c.CloudflareBypass = true
	}
	if o.PublicDir != "" {
		c.PublicDir = o.PublicDir
	}
	if o.CacheBackend != "" {
		c.Cache.Backend = o.CacheBackend
	}
	if o.CachePath != "" {
		c.Cache.Path = o.CachePath
	}
	if o.CacheOrigin != "" {
		c.Cache.Origin = o.CacheOrigin
	}
	if o.CacheVersion != "" {
		c.Cache.Version = o.CacheVersion
	}
}

func normalizeDefaults(c *Config) {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = def.FetchTimeout
	}
	if c.HomeLimit <= 0 {
		c.HomeLimit = def.HomeLimit
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = def.Cache.Prefix
	}
	if c.Cache.Version == "" {
		c.Cache.Version = def.Cache.Version
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = def.Cache.Backend
	}
	if c.Cache.Path == "" {
		c.Cache.Path = def.Cache.Path
	}
	if c.Cache.APIPrefix == "" {
		c.Cache.APIPrefix = def.Cache.APIPrefix
	}
	if c.Cache.EntryPath == "" {
		c.Cache.EntryPath = def.Cache.EntryPath
	}
	if c.Cache.InstallWorkers <= 0 {
		c.Cache.InstallWorkers = def.Cache.InstallWorkers
	}
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -listen: %s\n", c.Listen)
	fmt.Fprintf(w, " -base_url: %s\n", c.BaseURL)
	if c.RelayURL != "" {
		fmt.Fprintf(w, " -relay_url: %s\n", c.RelayURL)
	} else {
		fmt.Fprintf(w, " -relay_url: (direct)\n")
	}
	fmt.Fprintf(w, " -fetch_timeout: %s\n", c.FetchTimeout)
	if c.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.UserAgent)
	}
	if c.CloudflareBypass {
		fmt.Fprintf(w, " -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.PublicDir != "" {
		fmt.Fprintf(w, " -public_dir: %s\n", c.PublicDir)
	}
	fmt.Fprintf(w, " -home_limit: %d\n", c.HomeLimit)
	fmt.Fprintf(w, " -cache: %s-*-%s (%s", c.Cache.Prefix, c.Cache.Version, c.Cache.Backend)
	if c.Cache.Backend == cachestore.BackendSQLite {
		fmt.Fprintf(w, " at %s", c.Cache.Path)
	}
	fmt.Fprintf(w, ")\n")
	fmt.Fprintf(w, " -cache.origin: %s\n", c.Cache.Origin)
	if len(c.Cache.StaticAssets) > 0 {
		fmt.Fprintf(w, " -cache.static_assets: %s\n", strings.Join(c.Cache.StaticAssets, ", "))
	}
}
