// Package serverrun exposes the Run entrypoint used by `lodex server start`:
// it opens the runtime, serves gRPC and HTTP, and shuts both down before
// closing storage.
//
// Example:
//
//	opts := serverrun.Options{DataDir: "./data", GRPCAddr: ":50051", HTTPAddr: ":8080", Config: config.Default()}
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = serverrun.Run(ctx, opts)
package serverrun
