// Package itemsvc implements the item operations shared by the gRPC and
// HTTP transports and the CLI: range queries, counts, bulk seed and clear,
// and change notification.
//
// Example:
//
//	svc := itemsvc.New(rt, logger)
//	_, _ = svc.Seed(ctx, "songs", 10_000, 42)
//	page, _ := svc.Forward(ctx, "songs", catalog.ForwardQuery{Lower: "ま", Limit: 50})
package itemsvc
