package grpcserver

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lodexv1 "github.com/rzbill/lodex/api/lodex/v1"
	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/internal/runtime"
	itemsvc "github.com/rzbill/lodex/internal/services/items"
	"github.com/rzbill/lodex/pkg/log"
)

type rangeQuerySvc struct {
	lodexv1.UnimplementedRangeQueryServer
	svc    *itemsvc.Service
	logger log.Logger
}

func (s *rangeQuerySvc) Forward(ctx context.Context, req *lodexv1.ForwardRequest) (*lodexv1.ItemsResponse, error) {
	items, err := s.svc.Forward(ctx, req.GetCollection(), catalog.ForwardQuery{
		Lower:  req.Lower,
		Offset: int(req.Offset),
		Limit:  int(req.Limit),
		Filter: req.Filter,
	})
	if err != nil {
		return nil, s.toStatus("forward", err)
	}
	return &lodexv1.ItemsResponse{Items: toWire(items)}, nil
}

func (s *rangeQuerySvc) Reverse(ctx context.Context, req *lodexv1.ReverseRequest) (*lodexv1.ItemsResponse, error) {
	items, err := s.svc.Reverse(ctx, req.GetCollection(), catalog.ReverseQuery{
		Lower:   req.Lower,
		Upper:   req.Upper,
		UpperID: req.UpperId,
		Limit:   int(req.Limit),
		Filter:  req.Filter,
	})
	if err != nil {
		return nil, s.toStatus("reverse", err)
	}
	return &lodexv1.ItemsResponse{Items: toWire(items)}, nil
}

func (s *rangeQuerySvc) Count(ctx context.Context, req *lodexv1.CountRequest) (*lodexv1.CountResponse, error) {
	n, err := s.svc.Count(ctx, req.Collection, req.Filter)
	if err != nil {
		return nil, s.toStatus("count", err)
	}
	return &lodexv1.CountResponse{Count: int64(n)}, nil
}

func (s *rangeQuerySvc) Watch(req *lodexv1.WatchRequest, stream lodexv1.RangeQuery_WatchServer) error {
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()
	var (
		seq     uint64
		sendErr error
	)
	err := s.svc.Watch(ctx, req.Collection, func() {
		seq++
		if err := stream.Send(&lodexv1.WatchEvent{Seq: seq, AtMs: time.Now().UnixMilli()}); err != nil {
			sendErr = err
			cancel()
		}
	})
	if err != nil {
		return s.toStatus("watch", err)
	}
	return sendErr
}

func (s *rangeQuerySvc) toStatus(op string, err error) error {
	switch {
	case itemsvc.IsInvalid(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, runtime.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())
	}
	s.logger.Error("rpc failed", log.Operation(op), log.Err(err))
	return status.Error(codes.Internal, err.Error())
}

func toWire(items []catalog.Item) []*lodexv1.Item {
	out := make([]*lodexv1.Item, len(items))
	for i, it := range items {
		out[i] = &lodexv1.Item{Id: it.ID, Name: it.Name, CreatedMs: it.CreatedMs, Attrs: it.Attrs}
	}
	return out
}
