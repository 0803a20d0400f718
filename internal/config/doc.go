// Package config loads lodex configuration: storage backend and data
// directory, the bucket alphabet, pager tunables and logging. Files may be
// JSON or YAML; LODEX_* environment variables overlay them.
//
// Example:
//
//	cfg, err := config.Load("/etc/lodex.yaml")
//	if err != nil {
//	    return err
//	}
//	config.FromEnv(&cfg)
//	alpha, err := cfg.BuildAlphabet()
//	opts := cfg.PagerOptions()
package config
