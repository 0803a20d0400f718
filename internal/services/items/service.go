package itemsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/internal/runtime"
	"github.com/rzbill/lodex/pkg/id"
	"github.com/rzbill/lodex/pkg/log"
)

// MaxSeed bounds a single Seed call.
const MaxSeed = 1_000_000

const seedBatch = 1000

// ErrInvalidArgument marks caller errors that are not query errors.
var ErrInvalidArgument = errors.New("itemsvc: invalid argument")

// Service is the transport-neutral facade over the runtime's catalogs.
type Service struct {
	rt     *runtime.Runtime
	gen    *id.Generator
	logger log.Logger
}

func New(rt *runtime.Runtime, logger log.Logger) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{rt: rt, gen: id.NewGenerator(), logger: logger.WithComponent("items")}
}

// Store resolves collection, defaulting to the configured one.
func (s *Service) Store(collection string) (catalog.Store, error) {
	if collection == "" {
		return s.rt.DefaultCatalog()
	}
	return s.rt.Catalog(collection)
}

func (s *Service) Forward(ctx context.Context, collection string, q catalog.ForwardQuery) ([]catalog.Item, error) {
	st, err := s.Store(collection)
	if err != nil {
		return nil, err
	}
	return st.Forward(ctx, q)
}

func (s *Service) Reverse(ctx context.Context, collection string, q catalog.ReverseQuery) ([]catalog.Item, error) {
	st, err := s.Store(collection)
	if err != nil {
		return nil, err
	}
	return st.Reverse(ctx, q)
}

func (s *Service) Count(ctx context.Context, collection, filter string) (int, error) {
	st, err := s.Store(collection)
	if err != nil {
		return 0, err
	}
	return st.Count(ctx, filter)
}

// Seed inserts n generated items in batches. A zero seed picks one from the
// clock. It returns the number of items written.
func (s *Service) Seed(ctx context.Context, collection string, n int, seed uint64) (int, error) {
	if n <= 0 || n > MaxSeed {
		return 0, fmt.Errorf("%w: count must be in [1, %d], got %d", ErrInvalidArgument, MaxSeed, n)
	}
	st, err := s.Store(collection)
	if err != nil {
		return 0, err
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	start := time.Now()
	written := 0
	for written < n {
		size := min(seedBatch, n-written)
		items := catalog.Generate(size, seed+uint64(written), s.gen)
		if err := st.Insert(ctx, items); err != nil {
			return written, err
		}
		written += size
	}
	s.logger.Info("seeded items",
		log.Str("collection", collection), log.Int("count", written), log.Dur("took", time.Since(start)))
	return written, nil
}

// Clear deletes every item of collection.
func (s *Service) Clear(ctx context.Context, collection string) error {
	st, err := s.Store(collection)
	if err != nil {
		return err
	}
	if err := st.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Info("cleared collection", log.Str("collection", collection))
	return nil
}

// Watch calls fn after each bulk mutation of collection until ctx is done.
func (s *Service) Watch(ctx context.Context, collection string, fn func()) error {
	st, err := s.Store(collection)
	if err != nil {
		return err
	}
	catalog.Watch(ctx, st, fn)
	return nil
}

func (s *Service) Health(ctx context.Context) error { return s.rt.CheckHealth(ctx) }

// IsInvalid reports whether err is a caller error.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, catalog.ErrInvalidQuery) ||
		errors.Is(err, catalog.ErrInvalidItem)
}
