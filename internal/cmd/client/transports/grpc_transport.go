// Package transports provides pluggable transport implementations for the CLI.
package transports

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	lodexv1 "github.com/rzbill/lodex/api/lodex/v1"
	"github.com/rzbill/lodex/internal/catalog"
)

// GrpcPort implements ItemsTransport over the RangeQuery service.
type GrpcPort struct {
	conn       *grpc.ClientConn
	cli        lodexv1.RangeQueryClient
	collection string
}

// DialGrpc connects to addr with insecure transport for local/dev use.
func DialGrpc(addr, collection string, opts ...grpc.DialOption) (*GrpcPort, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &GrpcPort{conn: conn, cli: lodexv1.NewRangeQueryClient(conn), collection: collection}, nil
}

func (p *GrpcPort) Forward(ctx context.Context, q catalog.ForwardQuery) ([]catalog.Item, error) {
	res, err := p.cli.Forward(ctx, &lodexv1.ForwardRequest{
		Collection: p.collection,
		Lower:      q.Lower,
		Offset:     int32(q.Offset),
		Limit:      int32(q.Limit),
		Filter:     q.Filter,
	})
	if err != nil {
		return nil, err
	}
	return fromWire(res.GetItems()), nil
}

func (p *GrpcPort) Reverse(ctx context.Context, q catalog.ReverseQuery) ([]catalog.Item, error) {
	res, err := p.cli.Reverse(ctx, &lodexv1.ReverseRequest{
		Collection: p.collection,
		Lower:      q.Lower,
		Upper:      q.Upper,
		UpperId:    q.UpperID,
		Limit:      int32(q.Limit),
		Filter:     q.Filter,
	})
	if err != nil {
		return nil, err
	}
	return fromWire(res.GetItems()), nil
}

func (p *GrpcPort) Count(ctx context.Context, filter string) (int, error) {
	res, err := p.cli.Count(ctx, &lodexv1.CountRequest{Collection: p.collection, Filter: filter})
	if err != nil {
		return 0, err
	}
	return int(res.GetCount()), nil
}

func (p *GrpcPort) Health(ctx context.Context) (string, error) {
	res, err := p.cli.Health(ctx, &lodexv1.HealthCheckRequest{})
	if err != nil {
		return "", err
	}
	return res.GetStatus(), nil
}

// Watch follows the server's change stream.
func (p *GrpcPort) Watch(ctx context.Context, fn func()) error {
	stream, err := p.cli.Watch(ctx, &lodexv1.WatchRequest{Collection: p.collection})
	if err != nil {
		return err
	}
	for {
		if _, err := stream.Recv(); err != nil {
			if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled || ctx.Err() != nil {
				return nil
			}
			return err
		}
		fn()
	}
}

func (p *GrpcPort) Close() error { return p.conn.Close() }

func fromWire(items []*lodexv1.Item) []catalog.Item {
	out := make([]catalog.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, catalog.Item{ID: it.Id, Name: it.Name, CreatedMs: it.CreatedMs, Attrs: it.Attrs})
	}
	return out
}
