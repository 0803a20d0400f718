// Package catalogtest holds the behavioural contract every catalog.Store
// backend must satisfy.
package catalogtest

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/pkg/id"
)

// Factory returns an empty store for one collection.
type Factory func(t *testing.T) catalog.Store

// Run exercises s against the contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("ForwardPagesCoverStore", func(t *testing.T) { forwardPages(t, newStore(t)) })
	t.Run("ReverseHalfOpen", func(t *testing.T) { reverseHalfOpen(t, newStore(t)) })
	t.Run("ReverseBelowPosition", func(t *testing.T) { reverseBelowPosition(t, newStore(t)) })
	t.Run("FilteredOffsets", func(t *testing.T) { filteredOffsets(t, newStore(t)) })
	t.Run("Upsert", func(t *testing.T) { upsert(t, newStore(t)) })
	t.Run("DeleteAllNotifies", func(t *testing.T) { deleteAllNotifies(t, newStore(t)) })
}

func sorted(items []catalog.Item) []catalog.Item {
	out := append([]catalog.Item(nil), items...)
	sort.Slice(out, func(i, j int) bool { return catalog.Less(out[i], out[j]) })
	return out
}

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func forwardPages(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	items := catalog.Generate(137, 1, id.NewGenerator())
	require.NoError(t, s.Insert(ctx, items))

	var got []catalog.Item
	for offset := 0; ; offset += 20 {
		page, err := s.Forward(ctx, catalog.ForwardQuery{Offset: offset, Limit: 20})
		require.NoError(t, err)
		got = append(got, page...)
		if len(page) < 20 {
			break
		}
	}
	assert.Equal(t, ids(sorted(items)), ids(got))

	n, err := s.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 137, n)
}

func reverseHalfOpen(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, []catalog.Item{
		{ID: "1", Name: "か"}, {ID: "2", Name: "かな"}, {ID: "3", Name: "きり"},
		{ID: "4", Name: "さ"}, {ID: "5", Name: "あい"}, {ID: "6", Name: "かな"},
	}))

	page, err := s.Reverse(ctx, catalog.ReverseQuery{Lower: "か", Upper: "さ", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "6", "2", "1"}, ids(page))

	page, err = s.Reverse(ctx, catalog.ReverseQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "3"}, ids(page))

	page, err = s.Forward(ctx, catalog.ForwardQuery{Lower: "かな", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "6", "3", "4"}, ids(page))
}

func reverseBelowPosition(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	var items []catalog.Item
	for i := 0; i < 8; i++ {
		items = append(items, catalog.Item{ID: fmt.Sprintf("d%02d", i), Name: "いい"})
	}
	items = append(items,
		catalog.Item{ID: "a", Name: "あ"},
		catalog.Item{ID: "z", Name: "いいえ"},
		catalog.Item{ID: "b", Name: "い"},
	)
	require.NoError(t, s.Insert(ctx, items))

	// walk a run of equal names three at a time
	var got []string
	q := catalog.ReverseQuery{Upper: "いいえ", Limit: 3}
	for {
		page, err := s.Reverse(ctx, q)
		require.NoError(t, err)
		got = append(got, ids(page)...)
		if len(page) < q.Limit {
			break
		}
		last := page[len(page)-1]
		q.Upper, q.UpperID = last.Name, last.ID
	}
	assert.Equal(t, []string{"d07", "d06", "d05", "d04", "d03", "d02", "d01", "d00", "b", "a"}, got)

	page, err := s.Reverse(ctx, catalog.ReverseQuery{Lower: "いい", Upper: "いい", UpperID: "d02", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"d01", "d00"}, ids(page), "lower equal to upper keeps smaller ids")

	page, err = s.Reverse(ctx, catalog.ReverseQuery{Upper: "", UpperID: "zz", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page, "only empty names sort below an empty-name position")
}

func filteredOffsets(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	var items []catalog.Item
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("n%02d", i)
		if i%3 == 0 {
			name += "x"
		}
		items = append(items, catalog.Item{ID: fmt.Sprintf("id%02d", i), Name: name, Attrs: map[string]string{"even": fmt.Sprint(i%2 == 0)}})
	}
	require.NoError(t, s.Insert(ctx, items))

	filter := catalog.SearchFilter("x")
	page, err := s.Forward(ctx, catalog.ForwardQuery{Offset: 3, Limit: 4, Filter: filter})
	require.NoError(t, err)
	assert.Equal(t, []string{"id09", "id12", "id15", "id18"}, ids(page))

	page, err = s.Reverse(ctx, catalog.ReverseQuery{Upper: "n10", Limit: 10, Filter: `attrs["even"] == "true"`})
	require.NoError(t, err)
	assert.Equal(t, []string{"id08", "id06", "id04", "id02", "id00"}, ids(page))

	n, err := s.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func upsert(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, []catalog.Item{{ID: "a", Name: "あ"}, {ID: "b", Name: "い"}}))
	require.NoError(t, s.Insert(ctx, []catalog.Item{{ID: "a", Name: "う", Attrs: map[string]string{"k": "v"}}}))

	page, err := s.Forward(ctx, catalog.ForwardQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].ID)
	assert.Equal(t, "う", page[1].Name)
	assert.Equal(t, "v", page[1].Attrs["k"])
}

func deleteAllNotifies(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, catalog.Generate(10, 2, nil)))

	ch := s.Changes()
	require.NoError(t, s.DeleteAll(ctx))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("DeleteAll did not notify")
	}

	n, err := s.Count(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)
	page, err := s.Forward(ctx, catalog.ForwardQuery{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}
