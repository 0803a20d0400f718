package pager

import (
	"context"

	"github.com/rzbill/lodex/internal/catalog"
)

// Port is the range-query surface the engine consumes. Calls may fail or be
// cancelled; either outcome counts as an empty page.
type Port interface {
	Forward(ctx context.Context, q catalog.ForwardQuery) ([]catalog.Item, error)
	Reverse(ctx context.Context, q catalog.ReverseQuery) ([]catalog.Item, error)
	Count(ctx context.Context, filter string) (int, error)
}
