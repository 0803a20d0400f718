// Package grpcserver hosts the lodex.v1.RangeQuery gRPC service, serving
// forward and reverse range queries, counts, health and change
// notifications from the runtime's catalogs.
//
// Example:
//
//	rt, _ := runtime.Open(ctx, runtime.Options{DataDir: "./data", Config: config.Default()})
//	s := grpcserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":50051")
package grpcserver
