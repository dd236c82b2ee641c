// Package config loads quibble configuration: built-in defaults, then an
// optional config.yaml, then environment overrides, in that order.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/nasermirzaei89/env"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// IndexerURL is the GraphQL endpoint the comment set is fetched from.
	IndexerURL string `yaml:"indexer_url"`

	// ExplorerURL is the address-lookup prefix; the raw address is appended.
	ExplorerURL string `yaml:"explorer_url"`

	RequestTimeout time.Duration `yaml:"-"`

	CacheDir string `yaml:"-"`
	DBPath   string `yaml:"-"`
}

func Default() Config {
	cacheDir := filepath.Join(userConfigDir(), "quibble")
	return Config{
		IndexerURL:     "https://api.ethcomments.xyz/graphql",
		ExplorerURL:    "https://basescan.org/address/",
		RequestTimeout: 10 * time.Second,
		CacheDir:       cacheDir,
		DBPath:         filepath.Join(cacheDir, "cache.db"),
	}
}

// Load returns the defaults merged with config.yaml (if present) and the
// QUIBBLE_INDEXER_URL / QUIBBLE_EXPLORER_URL environment variables. A
// missing config file is not an error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	path := filepath.Join(cfg.CacheDir, "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.IndexerURL = env.GetString("QUIBBLE_INDEXER_URL", cfg.IndexerURL)
	cfg.ExplorerURL = env.GetString("QUIBBLE_EXPLORER_URL", cfg.ExplorerURL)
	return cfg, nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
