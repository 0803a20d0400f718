// Package lodexv1 defines the lodex.v1.RangeQuery gRPC service: request and
// response messages, client and server bindings, and the JSON codec they
// are exchanged with.
package lodexv1
