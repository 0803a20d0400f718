package itemsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rzbill/lodex/internal/catalog"
	cfgpkg "github.com/rzbill/lodex/internal/config"
	"github.com/rzbill/lodex/internal/runtime"
)

func newServiceForTest(t *testing.T, backend string) *Service {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Backend = backend
	cfg.Fsync = "never"
	rt, err := runtime.Open(context.Background(), runtime.Options{DataDir: t.TempDir(), Config: cfg})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return New(rt, nil)
}

func TestSeedCountClear(t *testing.T) {
	for _, backend := range []string{cfgpkg.BackendPebble, cfgpkg.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			svc := newServiceForTest(t, backend)
			n, err := svc.Seed(ctx, "", 2500, 9)
			if err != nil || n != 2500 {
				t.Fatalf("seed = %d, %v", n, err)
			}
			count, err := svc.Count(ctx, "", "")
			if err != nil || count != 2500 {
				t.Fatalf("count = %d, %v", count, err)
			}
			page, err := svc.Forward(ctx, "", catalog.ForwardQuery{Lower: "ま", Limit: 10})
			if err != nil {
				t.Fatalf("forward: %v", err)
			}
			for _, it := range page {
				if it.Name < "ま" {
					t.Fatalf("item %q below lower bound", it.Name)
				}
			}
			rev, err := svc.Reverse(ctx, "", catalog.ReverseQuery{Upper: "ま", Limit: 10})
			if err != nil || len(rev) != 10 {
				t.Fatalf("reverse = %d, %v", len(rev), err)
			}
			if err := svc.Clear(ctx, ""); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if count, _ := svc.Count(ctx, "", ""); count != 0 {
				t.Fatalf("count after clear = %d", count)
			}
		})
	}
}

func TestSeedRejectsBadCount(t *testing.T) {
	svc := newServiceForTest(t, cfgpkg.BackendMemory)
	for _, n := range []int{0, -1, MaxSeed + 1} {
		if _, err := svc.Seed(context.Background(), "", n, 1); !errors.Is(err, ErrInvalidArgument) || !IsInvalid(err) {
			t.Fatalf("seed(%d): expected invalid argument, got %v", n, err)
		}
	}
}

func TestInvalidFilterIsCallerError(t *testing.T) {
	svc := newServiceForTest(t, cfgpkg.BackendMemory)
	_, err := svc.Forward(context.Background(), "", catalog.ForwardQuery{Limit: 5, Filter: "name +"})
	if !IsInvalid(err) {
		t.Fatalf("expected invalid query, got %v", err)
	}
}

func TestWatchFiresOnMutation(t *testing.T) {
	svc := newServiceForTest(t, cfgpkg.BackendMemory)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() { done <- svc.Watch(ctx, "songs", func() { fired <- struct{}{} }) }()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := svc.Seed(context.Background(), "songs", 3, 1); err != nil {
			t.Fatalf("seed: %v", err)
		}
		select {
		case <-fired:
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			return
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatalf("watch never fired")
		}
	}
}
