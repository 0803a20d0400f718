// Package client provides the `lodex` command-line client.
//
// The CLI talks to the lodex gRPC and HTTP endpoints to query, count, seed
// and clear a collection, and hosts the interactive terminal browser.
//
// # Address configuration
//
// Reads go over gRPC by default (--grpc-addr, LODEX_GRPC, default
// 127.0.0.1:50051); pass --transport http to use the HTTP API instead
// (--api-url, LODEX_HTTP, default http://127.0.0.1:8080). Seed and clear
// always use the HTTP API.
//
// Usage
//
//	lodex seed --count 10000
//	lodex count --search か
//	lodex query --from さ --limit 20
//	lodex query --reverse --to さ --limit 5
//	lodex query --filter 'name.startsWith("た")' --transport http
//	lodex clear --confirm
//
//	# interactive browser against a server, or directly on a data dir
//	lodex browse
//	lodex browse --local --data-dir ./data --log-file /tmp/lodex.log
package client
