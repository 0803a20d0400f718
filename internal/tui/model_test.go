package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/internal/pager"
)

type fakeDriver struct {
	alpha       *bucket.Alphabet
	starts      int
	invalidates int
	tops        int
	bottoms     int
	jumps       []bucket.Key
	searches    []string
}

func (d *fakeDriver) Alphabet() *bucket.Alphabet { return d.alpha }
func (d *fakeDriver) Start()                     { d.starts++ }
func (d *fakeDriver) Invalidate()                { d.invalidates++ }
func (d *fakeDriver) TopVisible()                { d.tops++ }
func (d *fakeDriver) BottomVisible()             { d.bottoms++ }
func (d *fakeDriver) Jump(key bucket.Key)        { d.jumps = append(d.jumps, key) }
func (d *fakeDriver) Search(text string)         { d.searches = append(d.searches, text) }

type fakeCounter struct{ n int }

func (c fakeCounter) Count(context.Context, string) (int, error) { return c.n, nil }

type fakeAdmin struct {
	seeded  int
	cleared int
	fail    bool
}

func (a *fakeAdmin) Seed(_ context.Context, count int, _ uint64) (int, error) {
	if a.fail {
		return 0, errors.New("boom")
	}
	a.seeded += count
	return count, nil
}

func (a *fakeAdmin) Clear(context.Context) error {
	a.cleared++
	return nil
}

func items(names ...string) []catalog.Item {
	out := make([]catalog.Item, len(names))
	for i, n := range names {
		out[i] = catalog.Item{ID: fmt.Sprintf("id-%03d", i), Name: n}
	}
	return out
}

func snapshot(alpha *bucket.Alphabet, its []catalog.Item) pager.Snapshot {
	return pager.Snapshot{Items: its, Sections: pager.BuildSections(its, alpha)}
}

func newModel(t *testing.T, height int, opts Options) (Model, *fakeDriver) {
	t.Helper()
	d := &fakeDriver{alpha: bucket.Gojuon()}
	m := New(d, opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: height})
	return m, d
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, key(k))
	}
	return m
}

func window(t *testing.T, m Model, its []catalog.Item) Model {
	t.Helper()
	return update(t, m, EventMsg{Event: pager.WindowChanged{Snapshot: snapshot(m.alpha, its)}})
}

func TestWindowRendersSections(t *testing.T) {
	m, d := newModel(t, 12, Options{})
	m = window(t, m, items("あい", "あお", "かき"))

	view := m.View()
	assert.Contains(t, view, "あい")
	assert.Contains(t, view, "かき")
	assert.Contains(t, view, "3 loaded")
	require.Len(t, m.rows, 5)
	assert.Equal(t, rowHeader, m.rows[0].kind)
	assert.Equal(t, bucket.Key("か"), m.rows[3].key)
	// the whole window fits, so its end is on screen
	assert.Equal(t, 1, d.bottoms)
	assert.Zero(t, d.tops)
}

func TestEmptyWindowText(t *testing.T) {
	m, _ := newModel(t, 12, Options{})
	assert.Contains(t, m.View(), "no items")

	m = update(t, m, EventMsg{Event: pager.LoadingChanged{Direction: pager.Forward, Loading: true}})
	assert.Contains(t, m.View(), "loading")
}

func TestCursorMovementSignalsEnds(t *testing.T) {
	names := make([]string, 30)
	for i := range names {
		names[i] = fmt.Sprintf("あ%02d", i)
	}
	m, d := newModel(t, 10, Options{})
	m = window(t, m, items(names...))
	require.Zero(t, d.bottoms)

	m = press(t, m, "j", "j")
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, 2, d.tops)
	assert.Zero(t, d.bottoms)

	m = press(t, m, "G")
	assert.Equal(t, len(m.rows)-1, m.cursor)
	assert.Equal(t, len(m.rows)-m.listHeight(), m.top)
	assert.Equal(t, 1, d.bottoms)

	m = press(t, m, "g")
	assert.Zero(t, m.top)
	assert.Equal(t, 3, d.tops)
}

func TestCursorSurvivesLoadingRows(t *testing.T) {
	m, _ := newModel(t, 12, Options{})
	m = window(t, m, items("あい", "あお", "かき"))
	m = press(t, m, "j", "j")
	require.Equal(t, "i:id-001", m.rowID(m.cursor))

	m = update(t, m, EventMsg{Event: pager.LoadingChanged{Direction: pager.Backward, Loading: true}})
	assert.Equal(t, rowLoading, m.rows[0].kind)
	assert.Equal(t, "i:id-001", m.rowID(m.cursor))
	assert.Contains(t, m.View(), "loading ↑")
}

func TestRestoreAnchorKeepsHeaderOnTop(t *testing.T) {
	m, _ := newModel(t, 8, Options{})
	m = window(t, m, items("かa", "かb", "かc", "かd", "かe", "かf"))
	prevFirst := m.rows[1].item.ID

	grown := append(items("あ1", "あ2", "あ3", "あ4"), m.snap.Items...)
	for i := range grown[:4] {
		grown[i].ID = fmt.Sprintf("pre-%d", i)
	}
	m = window(t, m, grown)
	m = update(t, m, EventMsg{Event: pager.ScrollRequested{Anchor: pager.Anchor{Kind: pager.AnchorItem, ItemID: prevFirst}}})

	assert.Equal(t, headerRowID("か"), m.rowID(m.top))
	assert.GreaterOrEqual(t, m.cursor, m.top)
}

func TestBucketAnchorMovesCursor(t *testing.T) {
	m, _ := newModel(t, 8, Options{})
	m = window(t, m, items("あ1", "あ2", "あ3", "さ1", "さ2", "さ3", "さ4", "さ5", "さ6"))
	m = update(t, m, EventMsg{Event: pager.ScrollRequested{Anchor: pager.Anchor{Kind: pager.AnchorBucket, Bucket: "さ"}, Animated: true}})

	assert.Equal(t, headerRowID("さ"), m.rowID(m.cursor))
	assert.Equal(t, m.cursor, m.top)
	assert.Equal(t, m.alpha.Order("さ"), m.index)
}

func TestJumpUsesIndexBar(t *testing.T) {
	m, d := newModel(t, 12, Options{})
	m = press(t, m, "l", "l", "enter")
	require.Equal(t, []bucket.Key{"さ"}, d.jumps)

	m = press(t, m, "h", "h", "h", "enter")
	assert.Equal(t, []bucket.Key{"さ", "あ"}, d.jumps)
	assert.Contains(t, m.View(), "jump to あ")
}

func TestJumpClearsSearchText(t *testing.T) {
	m, d := newModel(t, 12, Options{})
	m = press(t, m, "/", "か", "enter")
	snap := snapshot(m.alpha, items("かき"))
	snap.Search = "か"
	m = update(t, m, EventMsg{Event: pager.WindowChanged{Snapshot: snap}})

	m = press(t, m, "enter")
	assert.Equal(t, []bucket.Key{"あ"}, d.jumps)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "search cleared")
}

func TestSearchInputForwardsText(t *testing.T) {
	m, d := newModel(t, 12, Options{})
	m = press(t, m, "/")
	require.True(t, m.searching)

	m = press(t, m, "か", "き")
	assert.Equal(t, []string{"か", "かき"}, d.searches)

	m = press(t, m, "enter")
	assert.False(t, m.searching)

	m = press(t, m, "/", "esc")
	assert.False(t, m.searching)
	assert.Equal(t, "", d.searches[len(d.searches)-1])
}

func TestChangedInvalidatesAndCounts(t *testing.T) {
	m, d := newModel(t, 12, Options{Counter: fakeCounter{n: 42}})
	next, cmd := m.Update(ChangedMsg{})
	m = next.(Model)
	assert.Equal(t, 1, d.invalidates)
	require.NotNil(t, cmd)

	m = update(t, m, cmd())
	assert.True(t, m.totalKnown)
	assert.Contains(t, m.View(), "0 / 42")
}

func TestStaleCountIgnored(t *testing.T) {
	m, _ := newModel(t, 12, Options{})
	snap := snapshot(m.alpha, nil)
	snap.Search = "か"
	m = update(t, m, EventMsg{Event: pager.WindowChanged{Snapshot: snap}})
	m = update(t, m, countMsg{filter: catalog.SearchFilter(""), n: 9})
	assert.False(t, m.totalKnown)
}

func TestAdminKeys(t *testing.T) {
	admin := &fakeAdmin{}
	m, _ := newModel(t, 12, Options{Admin: admin})

	_, cmd := m.Update(key("+"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Equal(t, DefaultSeedCount, admin.seeded)
	assert.Contains(t, m.View(), "seeded 1000 items")

	_, cmd = m.Update(key("D"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Equal(t, 1, admin.cleared)
	assert.Contains(t, m.View(), "cleared")

	admin.fail = true
	_, cmd = m.Update(key("+"))
	m = update(t, m, cmd())
	assert.Error(t, m.err)
	assert.True(t, strings.Contains(m.View(), "boom"))
}

func TestAdminKeysWithoutAdmin(t *testing.T) {
	m, _ := newModel(t, 12, Options{})
	_, cmd := m.Update(key("+"))
	assert.Nil(t, cmd)
}

func TestInitStartsDriver(t *testing.T) {
	d := &fakeDriver{alpha: bucket.Gojuon()}
	m := New(d, Options{})
	cmd := m.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c != nil {
			c()
		}
	}
	assert.Equal(t, 1, d.starts)
}
