package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/pager"
	"github.com/rzbill/lodex/pkg/log"
)

// ErrUnknownAlphabet is returned for an alphabet name that is neither built in
// nor "custom".
var ErrUnknownAlphabet = errors.New("config: unknown alphabet")

// Backend names.
const (
	BackendPebble = "pebble"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	Backend    string `json:"backend" yaml:"backend"`
	DataDir    string `json:"dataDir,omitempty" yaml:"dataDir,omitempty"`
	Fsync      string `json:"fsync" yaml:"fsync"`
	Collection string `json:"collection" yaml:"collection"`

	// Alphabet is "gojuon", "latin" or "custom". Custom alphabets read Buckets.
	Alphabet string         `json:"alphabet" yaml:"alphabet"`
	Buckets  []BucketConfig `json:"buckets,omitempty" yaml:"buckets,omitempty"`
	Other    string         `json:"other,omitempty" yaml:"other,omitempty"`

	Pager PagerConfig `json:"pager" yaml:"pager"`
	Log   log.Config  `json:"log" yaml:"log"`
}

// BucketConfig declares one bucket of a custom alphabet.
type BucketConfig struct {
	Key     string `json:"key" yaml:"key"`
	Lower   string `json:"lower" yaml:"lower"`
	Members string `json:"members" yaml:"members"`
}

// PagerConfig carries engine tunables.
type PagerConfig struct {
	PageSize     int `json:"pageSize" yaml:"pageSize"`
	PrependLimit int `json:"prependLimit" yaml:"prependLimit"`
	// PreviewLimit < 0 disables the prefetch above a jumped-to bucket.
	PreviewLimit     int `json:"previewLimit" yaml:"previewLimit"`
	SearchDebounceMs int `json:"searchDebounceMs" yaml:"searchDebounceMs"`
	AnchorTimeoutMs  int `json:"anchorTimeoutMs" yaml:"anchorTimeoutMs"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Backend:    BackendPebble,
		Fsync:      "interval",
		Collection: "default",
		Alphabet:   "gojuon",
		Pager: PagerConfig{
			PageSize:         pager.DefaultPageSize,
			PrependLimit:     pager.DefaultPrependLimit,
			PreviewLimit:     pager.DefaultPreviewLimit,
			SearchDebounceMs: int(pager.DefaultSearchDebounce / time.Millisecond),
			AnchorTimeoutMs:  int(pager.DefaultAnchorTimeout / time.Millisecond),
		},
		Log: log.Config{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// BuildAlphabet resolves the configured alphabet.
func (c Config) BuildAlphabet() (*bucket.Alphabet, error) {
	name := strings.ToLower(c.Alphabet)
	if name == "" {
		name = "gojuon"
	}
	if name != "custom" {
		a, ok := bucket.Builtin(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlphabet, c.Alphabet)
		}
		return a, nil
	}
	buckets := make([]bucket.Bucket, 0, len(c.Buckets))
	for _, b := range c.Buckets {
		buckets = append(buckets, bucket.Bucket{Key: bucket.Key(b.Key), Lower: b.Lower, Members: b.Members})
	}
	other := bucket.Key(c.Other)
	if other == "" {
		other = bucket.DefaultOther
	}
	a, err := bucket.New(buckets, other)
	if err != nil {
		return nil, fmt.Errorf("config: custom alphabet: %w", err)
	}
	return a, nil
}

// PagerOptions converts the tunables into engine options. Logger and
// Notifier are left for the caller.
func (c Config) PagerOptions() pager.Options {
	p := c.Pager
	opts := pager.Options{
		PageSize:       p.PageSize,
		PrependLimit:   p.PrependLimit,
		PreviewLimit:   p.PreviewLimit,
		SearchDebounce: time.Duration(p.SearchDebounceMs) * time.Millisecond,
		AnchorTimeout:  time.Duration(p.AnchorTimeoutMs) * time.Millisecond,
	}
	return opts
}

// ResolvedDataDir returns DataDir or the platform default.
func (c Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDataDir()
}
