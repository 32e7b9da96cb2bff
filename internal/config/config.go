// Package config loads sessionctl configuration from a YAML or JSON file
// with an environment overlay.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	sessionredis "github.com/weekian/telegraf-session-redis"
	"gopkg.in/yaml.v3"
)

const (
	// EnvRedisURL overrides store.url.
	EnvRedisURL = "REDIS_URL"
	// EnvSessionTTL overrides ttl, in seconds.
	EnvSessionTTL = "SESSION_TTL"
	// EnvEncryptionKey overrides encryption_key.
	EnvEncryptionKey = "SESSION_ENCRYPTION_KEY"
)

// File is the on-disk configuration.
type File struct {
	sessionredis.Config `yaml:",inline"`

	LogLevel string `yaml:"log_level" json:"log_level"`
	HTTPAddr string `yaml:"http_addr" json:"http_addr"`

	// EncryptionKey, when set, must be 32 bytes and enables AES-GCM at rest.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
}

// Default returns the configuration used when no file is present.
func Default() File {
	return File{
		Config:   sessionredis.DefaultConfig(),
		LogLevel: "info",
		HTTPAddr: ":8080",
	}
}

// Load reads path (YAML unless the extension is .json) over the defaults.
// A missing file yields the defaults. An empty path skips the file.
func Load(path string) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return File{}, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return File{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return File{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Store == nil {
		cfg.Store = map[string]any{}
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables read through lookup onto cfg.
func ApplyEnv(cfg File, lookup func(string) (string, bool)) (File, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvRedisURL); ok && v != "" {
		store := make(map[string]any, len(cfg.Store)+1)
		for k, val := range cfg.Store {
			store[k] = val
		}
		store["url"] = v
		cfg.Store = store
	}
	if v, ok := lookup(EnvSessionTTL); ok && v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return File{}, fmt.Errorf("invalid %s %q: %w", EnvSessionTTL, v, err)
		}
		cfg.TTL = ttl
	}
	if v, ok := lookup(EnvEncryptionKey); ok && v != "" {
		cfg.EncryptionKey = v
	}
	return cfg, nil
}
