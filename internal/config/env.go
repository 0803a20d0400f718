package config

import (
	"os"
	"strconv"
)

// FromEnv overlays LODEX_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	str := map[string]*string{
		"LODEX_BACKEND":    &cfg.Backend,
		"LODEX_DATA_DIR":   &cfg.DataDir,
		"LODEX_FSYNC":      &cfg.Fsync,
		"LODEX_COLLECTION": &cfg.Collection,
		"LODEX_ALPHABET":   &cfg.Alphabet,
		"LODEX_LOG_LEVEL":  &cfg.Log.Level,
		"LODEX_LOG_FORMAT": &cfg.Log.Format,
	}
	for name, dst := range str {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"LODEX_PAGE_SIZE":          &cfg.Pager.PageSize,
		"LODEX_PREPEND_LIMIT":      &cfg.Pager.PrependLimit,
		"LODEX_PREVIEW_LIMIT":      &cfg.Pager.PreviewLimit,
		"LODEX_SEARCH_DEBOUNCE_MS": &cfg.Pager.SearchDebounceMs,
		"LODEX_ANCHOR_TIMEOUT_MS":  &cfg.Pager.AnchorTimeoutMs,
	}
	for name, dst := range ints {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
}
