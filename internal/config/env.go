package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env files into the process environment. Variables that
// are already set win over the files. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

// applyEnv overrides c from MOVIEBOX_* variables. PORT is honored for
// hosting platforms that only hand out a port.
func applyEnv(c *Config) {
	if v := os.Getenv("PORT"); v != "" {
		c.Listen = ":" + v
	}
	if v := os.Getenv("MOVIEBOX_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("MOVIEBOX_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v, ok := os.LookupEnv("MOVIEBOX_RELAY_URL"); ok {
		c.RelayURL = v
	}
	if v := os.Getenv("MOVIEBOX_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FetchTimeout = d
		}
	}
	if v := os.Getenv("MOVIEBOX_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if b, ok := envBool("MOVIEBOX_CLOUDFLARE_BYPASS"); ok {
		c.CloudflareBypass = b
	}
	if b, ok := envBool("MOVIEBOX_DEBUG"); ok {
		c.Debug = b
	}
	if v := os.Getenv("MOVIEBOX_PUBLIC_DIR"); v != "" {
		c.PublicDir = v
	}
	if v := os.Getenv("MOVIEBOX_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("MOVIEBOX_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("MOVIEBOX_CACHE_ORIGIN"); v != "" {
		c.Cache.Origin = v
	}
	if v := os.Getenv("MOVIEBOX_CACHE_VERSION"); v != "" {
		c.Cache.Version = v
	}
}

func envBool(key string) (bool, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
