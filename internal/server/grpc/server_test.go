package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	lodexv1 "github.com/rzbill/lodex/api/lodex/v1"
	"github.com/rzbill/lodex/internal/catalog"
	cfgpkg "github.com/rzbill/lodex/internal/config"
	"github.com/rzbill/lodex/internal/runtime"
)

const bufSize = 1 << 20

func dialer(t *testing.T, s *grpc.Server) func(context.Context, string) (net.Conn, error) {
	lis := bufconn.Listen(bufSize)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)
	return func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
}

func newClient(t *testing.T) (lodexv1.RangeQueryClient, *runtime.Runtime) {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Fsync = "never"
	rt, err := runtime.Open(context.Background(), runtime.Options{DataDir: t.TempDir(), Config: cfg})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	srv := New(rt, nil)
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer(t, srv.grpc)),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return lodexv1.NewRangeQueryClient(conn), rt
}

func TestHealthOverGRPC(t *testing.T) {
	c, _ := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := c.Health(ctx, &lodexv1.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if res.GetStatus() != "ok" {
		t.Fatalf("status %q", res.GetStatus())
	}
}

func TestRangeQueriesOverGRPC(t *testing.T) {
	c, rt := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := rt.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if err := store.Insert(ctx, catalog.Generate(500, 3, nil)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	fwd, err := c.Forward(ctx, &lodexv1.ForwardRequest{Lower: "な", Limit: 25})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(fwd.GetItems()) != 25 {
		t.Fatalf("forward len %d", len(fwd.GetItems()))
	}
	for _, it := range fwd.GetItems() {
		if it.Name < "な" {
			t.Fatalf("item %q below lower bound", it.Name)
		}
	}

	rev, err := c.Reverse(ctx, &lodexv1.ReverseRequest{Lower: "た", Upper: "な", Limit: 7})
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	items := rev.GetItems()
	if len(items) != 7 {
		t.Fatalf("reverse len %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Name > items[i-1].Name {
			t.Fatalf("reverse page not descending at %d", i)
		}
	}

	cnt, err := c.Count(ctx, &lodexv1.CountRequest{})
	if err != nil || cnt.GetCount() != 500 {
		t.Fatalf("count = %d, %v", cnt.GetCount(), err)
	}
}

func TestInvalidFilterMapsToInvalidArgument(t *testing.T) {
	c, _ := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.Forward(ctx, &lodexv1.ForwardRequest{Limit: 5, Filter: "name +"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	_, err = c.Count(ctx, &lodexv1.CountRequest{Collection: "bad/name"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for collection, got %v", err)
	}
}

func TestWatchOverGRPC(t *testing.T) {
	c, rt := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := c.Watch(ctx, &lodexv1.WatchRequest{})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	store, err := rt.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	got := make(chan *lodexv1.WatchEvent, 1)
	go func() {
		ev, err := stream.Recv()
		if err == nil {
			got <- ev
		}
	}()
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case ev := <-got:
			if ev.Seq != 1 {
				t.Fatalf("first event seq %d", ev.Seq)
			}
			return
		case <-tick.C:
			// the subscription may not be registered yet; mutate until seen
			if err := store.DeleteAll(ctx); err != nil {
				t.Fatalf("delete: %v", err)
			}
		case <-ctx.Done():
			t.Fatalf("no watch event")
		}
	}
}
