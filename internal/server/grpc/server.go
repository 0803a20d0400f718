package grpcserver

import (
	"context"
	"net"

	"google.golang.org/grpc"

	lodexv1 "github.com/rzbill/lodex/api/lodex/v1"
	"github.com/rzbill/lodex/internal/runtime"
	itemsvc "github.com/rzbill/lodex/internal/services/items"
	"github.com/rzbill/lodex/pkg/log"
)

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt     *runtime.Runtime
	grpc   *grpc.Server
	lis    net.Listener
	logger log.Logger
}

// New constructs a gRPC server and registers the RangeQuery service.
func New(rt *runtime.Runtime, logger log.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent("grpc")
	s := &Server{rt: rt, grpc: grpc.NewServer(opts...), logger: logger}
	Register(s.grpc, rt, logger)
	return s
}

// Register adds the RangeQuery service backed by rt to any registrar.
func Register(r grpc.ServiceRegistrar, rt *runtime.Runtime, logger log.Logger) {
	if logger == nil {
		logger = log.Nop()
	}
	lodexv1.RegisterRangeQueryServer(r, &rangeQuerySvc{svc: itemsvc.New(rt, logger), logger: logger})
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("grpc listening", log.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
