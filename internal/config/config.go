// Package config resolves runtime configuration from flags and environment.
// A local .env file is honored when present so dev setups do not need to
// export anything.
package config

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is everything the web binary needs to come up.
type Config struct {
	// Addr is the listen address, e.g. ":8003".
	Addr string
	// DataPath and IconMapPath locate the two extract documents on disk.
	DataPath    string
	IconMapPath string
	// IconDir is the directory of icon image files served under /icons/.
	IconDir string
	// DataURL, when set, fetches both documents from a static file server
	// instead of the local paths.
	DataURL string
}

// Load parses flags and applies environment overrides. PORT wins over the
// -addr flag when set (Cloud Run convention, same as the reference API).
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	flag.StringVar(&cfg.Addr, "addr", ":8003", "listen address")
	flag.StringVar(&cfg.DataPath, "data", "ultracube_organized_data.json", "dataset document path")
	flag.StringVar(&cfg.IconMapPath, "icons", "icon_mapping.json", "icon mapping document path")
	flag.StringVar(&cfg.IconDir, "icon-dir", "icons", "directory of icon image files")
	flag.StringVar(&cfg.DataURL, "data-url", "", "base URL hosting both documents (overrides local paths)")
	flag.Parse()

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		if strings.HasPrefix(p, ":") {
			cfg.Addr = p
		} else {
			cfg.Addr = ":" + p
		}
	}
	if u := strings.TrimSpace(os.Getenv("DATA_URL")); u != "" {
		cfg.DataURL = u
	}
	return cfg
}
