// Package log provides lodex's structured logging facade and utilities.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Internally it is backed by Go's
// standard library slog via a custom handler that feeds our
// formatter/outputs pipeline, so output stays consistent across the engine,
// the storage layer and the transports.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("pager"), log.Str("collection", "customers"))
//	l.Info("window reset", log.Int("page_size", 50))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config (text or JSON,
// console or null output, redaction and sampling).
//
// # Interop
//
// Pebble and other libraries log through the standard library logger; use
// RedirectStdLog to route those lines through a Logger.
package log
