package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/catalog"
)

func item(id, name string) catalog.Item { return catalog.Item{ID: id, Name: name} }

func TestWindowAppendCountsUnfilteredFetch(t *testing.T) {
	w := NewWindow(3)
	added := w.Append([]catalog.Item{item("1", "a"), item("2", "b"), item("3", "c")}, 3)
	require.Equal(t, 3, added)
	assert.False(t, w.Cursor().FullyLoaded)

	// a duplicate still advances the offset
	added = w.Append([]catalog.Item{item("3", "c"), item("4", "d")}, 3)
	assert.Equal(t, 1, added)
	assert.Equal(t, 5, w.Cursor().Offset)
	assert.True(t, w.Cursor().FullyLoaded)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(w.Items()))
}

func TestWindowPrependKeepsOrderAndOffset(t *testing.T) {
	w := NewWindow(10)
	w.Reset("m")
	w.Append([]catalog.Item{item("m1", "m"), item("n1", "n")}, 10)
	offset := w.Cursor().Offset

	added := w.Prepend([]catalog.Item{item("k1", "k"), item("l1", "l"), item("m1", "m")})
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"k1", "l1", "m1", "n1"}, ids(w.Items()))
	assert.Equal(t, offset, w.Cursor().Offset)
	assert.Equal(t, "m", w.Cursor().LowerBound)
}

func TestWindowMergeInsertsInPlace(t *testing.T) {
	w := NewWindow(10)
	w.Append([]catalog.Item{item("1", "a"), item("3", "c"), item("5", "e")}, 10)
	w.Merge([]catalog.Item{item("4", "d"), item("2", "b"), item("6", "f")})
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(w.Items()))

	// ties order by id
	w.Merge([]catalog.Item{item("0", "c")})
	assert.Equal(t, []string{"1", "2", "0", "3", "4", "5", "6"}, ids(w.Items()))
}

func TestWindowResetAndCoverage(t *testing.T) {
	w := NewWindow(5)
	assert.True(t, w.AtStart())

	w.Reset("か")
	assert.False(t, w.AtStart())
	name, id := w.Covered()
	assert.Equal(t, "か", name)
	assert.Empty(t, id)
	assert.Zero(t, w.Len())

	w.extendCoverage("さ", "")
	name, _ = w.Covered()
	assert.Equal(t, "か", name, "coverage only moves down")
	w.extendCoverage("", "")
	assert.True(t, w.AtStart())

	w.Append([]catalog.Item{item("1", "a")}, 5)
	assert.True(t, w.Contains("1"))
	w.Reset("")
	assert.False(t, w.Contains("1"))
	assert.Equal(t, Cursor{Limit: 5}, w.Cursor())
}

func TestWindowCoverageByPosition(t *testing.T) {
	w := NewWindow(5)
	w.Reset("き")
	assert.True(t, w.coversFrom("き"))

	w.extendCoverage("か", "m7")
	name, id := w.Covered()
	assert.Equal(t, "か", name)
	assert.Equal(t, "m7", id)
	assert.False(t, w.coversFrom("か"), "smaller ids named か are still missing")
	assert.True(t, w.coversFrom("かa"))
	assert.False(t, w.AtStart())

	w.extendCoverage("か", "m9")
	_, id = w.Covered()
	assert.Equal(t, "m7", id, "a larger id does not raise coverage")

	w.extendCoverage("か", "m2")
	_, id = w.Covered()
	assert.Equal(t, "m2", id)

	w.extendCoverage("か", "")
	assert.True(t, w.coversFrom("か"))

	w.extendCoverage("", "z1")
	assert.False(t, w.AtStart(), "items with an empty name may remain")
	w.extendCoverage("", "")
	assert.True(t, w.AtStart())
}

func TestBuildSections(t *testing.T) {
	alpha := bucket.Gojuon()
	items := []catalog.Item{
		item("1", "Alice"), item("2", "あい"), item("3", "いぬ"), item("4", "さくら"), item("5", "ゔぃ"),
	}
	w := NewWindow(10)
	w.Append(items, 10)

	sections := BuildSections(w.Items(), alpha)
	require.Len(t, sections, 3)
	assert.Equal(t, bucket.Key("あ"), sections[0].Key)
	assert.Equal(t, []string{"2", "3"}, ids(sections[0].Items))
	assert.Equal(t, bucket.Key("さ"), sections[1].Key)
	assert.Equal(t, bucket.Key("#"), sections[2].Key)
	assert.Equal(t, []string{"1", "5"}, ids(sections[2].Items))

	assert.True(t, HasBucket(w.Items(), alpha, "さ"))
	assert.False(t, HasBucket(w.Items(), alpha, "ま"))
	assert.Nil(t, BuildSections(nil, alpha))
}
