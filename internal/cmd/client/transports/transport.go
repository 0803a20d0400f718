package transports

import (
	"context"

	"github.com/rzbill/lodex/internal/pager"
)

// ItemsTransport abstracts how the CLI and the browser reach a server. Both
// implementations satisfy pager.Port.
type ItemsTransport interface {
	pager.Port
	// Health returns the server status string ("ok" when serving).
	Health(ctx context.Context) (string, error)
	// Watch calls fn after each bulk mutation until ctx is done.
	Watch(ctx context.Context, fn func()) error
	Close() error
}

// Admin carries the bulk mutations exposed over HTTP.
type Admin interface {
	Seed(ctx context.Context, count int, seed uint64) (int, error)
	Clear(ctx context.Context) error
}
