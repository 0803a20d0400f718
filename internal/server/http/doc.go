// Package httpserver exposes the item catalog over HTTP: health, forward and
// reverse range queries, counts, bulk seed and clear, and a server-sent
// event stream of bulk mutations.
//
// Example:
//
//	s := httpserver.New(rt, logger)
//	_ = s.ListenAndServe(ctx, ":8080")
//
//	curl 'http://127.0.0.1:8080/v1/items?lower=ま&limit=50'
//	curl 'http://127.0.0.1:8080/v1/items/reverse?upper=ま&limit=12'
//	curl -XPOST -d '{"count":1000}' http://127.0.0.1:8080/v1/items/seed
package httpserver
