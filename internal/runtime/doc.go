// Package runtime opens the configured storage backend (Pebble, SQLite or
// in-memory) and hands out one catalog store per collection, shared by the
// servers and commands of a single process.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(ctx, runtime.Options{DataDir: "./data", Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(ctx)
//	store, _ := rt.Catalog("songs")
//	_ = store.Insert(ctx, catalog.Generate(1000, 1, nil))
package runtime
