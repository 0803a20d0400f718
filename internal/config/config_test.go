package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rzbill/lodex/internal/bucket"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Backend != BackendPebble {
		t.Fatalf("default backend %q", cfg.Backend)
	}
	if cfg.Collection != "default" {
		t.Fatalf("default collection %q", cfg.Collection)
	}
	opts := cfg.PagerOptions()
	if opts.PageSize != 50 || opts.PrependLimit != 50 || opts.PreviewLimit != 12 {
		t.Fatalf("pager defaults: %+v", opts)
	}
	if opts.SearchDebounce != 200*time.Millisecond || opts.AnchorTimeout != 3*time.Second {
		t.Fatalf("pager timings: %+v", opts)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lodex.json")
	data := []byte(`{"backend":"sqlite","collection":"songs","pager":{"pageSize":20,"previewLimit":-1}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.Collection != "songs" {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.Pager.PageSize != 20 || cfg.Pager.PreviewLimit != -1 {
		t.Fatalf("pager overrides: %+v", cfg.Pager)
	}
	if cfg.Pager.PrependLimit != 50 {
		t.Fatalf("unset fields keep defaults: %+v", cfg.Pager)
	}
}

func TestLoadYAMLCustomAlphabet(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lodex.yaml")
	data := []byte(`
alphabet: custom
other: "*"
buckets:
  - {key: A, lower: A, members: Aa}
  - {key: B, lower: B, members: Bb}
log:
  level: debug
`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level %q", cfg.Log.Level)
	}
	alpha, err := cfg.BuildAlphabet()
	if err != nil {
		t.Fatalf("alphabet: %v", err)
	}
	if got := alpha.Classify("apple"); got != "A" {
		t.Fatalf("classify apple: %q", got)
	}
	if got := alpha.Classify("zebra"); got != "*" {
		t.Fatalf("classify zebra: %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	file := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(file, []byte("pager: [1, 2"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestBuildAlphabet(t *testing.T) {
	cfg := Default()
	alpha, err := cfg.BuildAlphabet()
	if err != nil {
		t.Fatalf("gojuon: %v", err)
	}
	if got := alpha.Classify("さくら"); got != bucket.Key("さ") {
		t.Fatalf("classify: %q", got)
	}

	cfg.Alphabet = "klingon"
	if _, err := cfg.BuildAlphabet(); !errors.Is(err, ErrUnknownAlphabet) {
		t.Fatalf("expected ErrUnknownAlphabet, got %v", err)
	}

	cfg.Alphabet = "custom"
	cfg.Buckets = []BucketConfig{{Key: "B", Lower: "B"}, {Key: "A", Lower: "A"}}
	if _, err := cfg.BuildAlphabet(); err == nil {
		t.Fatalf("expected error for unordered buckets")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("LODEX_BACKEND", "sqlite")
	t.Setenv("LODEX_COLLECTION", "staging")
	t.Setenv("LODEX_PAGE_SIZE", "24")
	t.Setenv("LODEX_PREVIEW_LIMIT", "-1")
	t.Setenv("LODEX_LOG_LEVEL", "warn")
	t.Setenv("LODEX_ANCHOR_TIMEOUT_MS", "not-a-number")
	FromEnv(&cfg)
	if cfg.Backend != "sqlite" || cfg.Collection != "staging" {
		t.Fatalf("env override strings: %+v", cfg)
	}
	if cfg.Pager.PageSize != 24 || cfg.Pager.PreviewLimit != -1 {
		t.Fatalf("env override ints: %+v", cfg.Pager)
	}
	if cfg.Pager.AnchorTimeoutMs != 3000 {
		t.Fatalf("malformed value should be ignored: %d", cfg.Pager.AnchorTimeoutMs)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("log level %q", cfg.Log.Level)
	}
}
