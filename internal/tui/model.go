package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/internal/pager"
)

// DefaultSeedCount is the number of items the seed key inserts.
const DefaultSeedCount = 1000

const adminTimeout = 30 * time.Second

// Driver is the engine surface the model drives. *pager.Engine satisfies it.
type Driver interface {
	Alphabet() *bucket.Alphabet
	Start()
	Invalidate()
	TopVisible()
	BottomVisible()
	Jump(key bucket.Key)
	Search(text string)
}

// Counter reports how many items match a filter.
type Counter interface {
	Count(ctx context.Context, filter string) (int, error)
}

// Admin performs bulk mutations on the browsed collection.
type Admin interface {
	Seed(ctx context.Context, count int, seed uint64) (int, error)
	Clear(ctx context.Context) error
}

// Options configures a Model.
type Options struct {
	Title     string
	Counter   Counter
	Admin     Admin
	SeedCount int
}

// EventMsg carries a pager event into the program loop.
type EventMsg struct{ Event pager.Event }

// ChangedMsg reports a bulk mutation of the underlying store.
type ChangedMsg struct{}

type countMsg struct {
	filter string
	n      int
	err    error
}

type adminMsg struct {
	status string
	err    error
}

// Model is the bubbletea model of the browser.
type Model struct {
	driver Driver
	alpha  *bucket.Alphabet
	opts   Options

	snap   pager.Snapshot
	rows   []row
	cursor int
	top    int
	index  int

	width  int
	height int

	input     textinput.Model
	searching bool
	spin      spinner.Model

	total      int
	totalKnown bool
	counted    string
	status     string
	err        error
}

// New builds a model over d.
func New(d Driver, opts Options) Model {
	if opts.SeedCount <= 0 {
		opts.SeedCount = DefaultSeedCount
	}
	if opts.Title == "" {
		opts.Title = "lodex"
	}
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "search names"
	in.CharLimit = 128
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{driver: d, alpha: d.Alphabet(), opts: opts, input: in, spin: sp}
}

func (m Model) Init() tea.Cmd {
	d := m.driver
	start := func() tea.Msg {
		d.Start()
		return nil
	}
	return tea.Batch(start, m.spin.Tick, m.countCmd(""))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.follow()
		m.signal(false)
		return m, nil
	case EventMsg:
		return m.handleEvent(msg.Event)
	case ChangedMsg:
		m.driver.Invalidate()
		return m, m.countCmd(m.snap.Search)
	case countMsg:
		if msg.filter == catalog.SearchFilter(m.snap.Search) {
			if msg.err != nil {
				m.err = msg.err
				m.totalKnown = false
			} else {
				m.total, m.totalKnown = msg.n, true
			}
		}
		return m, nil
	case adminMsg:
		m.status, m.err = msg.status, msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleEvent(ev pager.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case pager.WindowChanged:
		m.snap = ev.Snapshot
		m.rebuild()
		m.signal(false)
		if ev.Snapshot.Search != m.counted {
			return m, m.countCmd(ev.Snapshot.Search)
		}
	case pager.LoadingChanged:
		if ev.Direction == pager.Backward {
			m.snap.LoadingBackward = ev.Loading
		} else {
			m.snap.LoadingForward = ev.Loading
		}
		m.rebuild()
	case pager.ScrollRequested:
		m.scrollTo(ev.Anchor)
		m.signal(false)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		m.input.SetValue("")
		m.driver.Search("")
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != prev {
		m.driver.Search(v)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "pgdown", "ctrl+f":
		m.move(m.listHeight())
	case "pgup", "ctrl+b":
		m.move(-m.listHeight())
	case "g", "home":
		m.move(-len(m.rows))
	case "G", "end":
		m.move(len(m.rows))
	case "h", "left":
		if m.index > 0 {
			m.index--
		}
	case "l", "right":
		if m.index < len(m.alpha.Keys())-1 {
			m.index++
		}
	case "enter":
		key := m.alpha.Keys()[m.index]
		m.status = "jump to " + string(key)
		if m.snap.Search != "" || m.input.Value() != "" {
			// the driver drops the search before jumping
			m.input.SetValue("")
			m.status += ", search cleared"
		}
		m.driver.Jump(key)
	case "/":
		m.searching = true
		m.input.SetValue(m.snap.Search)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "esc":
		if m.snap.Search != "" || m.input.Value() != "" {
			m.input.SetValue("")
			m.driver.Search("")
		}
	case "r":
		m.driver.Invalidate()
		return m, m.countCmd(m.snap.Search)
	case "+":
		return m, m.seedCmd()
	case "D":
		return m, m.clearCmd()
	}
	return m, nil
}

// listHeight is the number of list rows that fit between the chrome lines.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return 20
	}
	chrome := 3
	if m.searching || m.snap.Search != "" {
		chrome++
	}
	if h := m.height - chrome; h > 1 {
		return h
	}
	return 1
}

func (m *Model) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.rows)-1)
	m.follow()
	if k, ok := m.cursorKey(); ok {
		m.index = m.alpha.Order(k)
	}
	m.signal(true)
}

// follow keeps the cursor inside the viewport.
func (m *Model) follow() {
	h := m.listHeight()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+h {
		m.top = m.cursor - h + 1
	}
	m.top = clamp(m.top, 0, max(0, len(m.rows)-h))
	m.cursor = clamp(m.cursor, 0, max(0, len(m.rows)-1))
}

// signal reports which ends of the window are on screen. Only user movement
// reports the top so a fresh window does not prepend by itself.
func (m Model) signal(user bool) {
	if len(m.rows) == 0 {
		return
	}
	if user && m.top == 0 {
		m.driver.TopVisible()
	}
	if m.top+m.listHeight() >= len(m.rows) {
		m.driver.BottomVisible()
	}
}

func (m *Model) rebuild() {
	cur, top := m.rowID(m.cursor), m.rowID(m.top)
	m.rows = buildRows(m.snap)
	if len(m.snap.Items) == 0 {
		m.cursor, m.top = 0, 0
		return
	}
	if i := indexOf(m.rows, top); i >= 0 {
		m.top = i
	}
	if i := indexOf(m.rows, cur); i >= 0 {
		m.cursor = i
	}
	m.follow()
}

func (m *Model) scrollTo(a pager.Anchor) {
	switch a.Kind {
	case pager.AnchorItem:
		i := indexOf(m.rows, itemRowID(a.ItemID))
		if i < 0 {
			return
		}
		if i > 0 && m.rows[i-1].kind == rowHeader && m.rows[i-1].key == m.rows[i].key {
			i--
		}
		m.top = i
		if m.cursor < m.top {
			m.cursor = m.top
		}
	case pager.AnchorBucket:
		i := indexOf(m.rows, headerRowID(a.Bucket))
		if i < 0 {
			return
		}
		m.top, m.cursor = i, i
		m.index = m.alpha.Order(a.Bucket)
		m.status = ""
	}
	h := m.listHeight()
	m.top = clamp(m.top, 0, max(0, len(m.rows)-h))
	if m.cursor >= m.top+h {
		m.cursor = m.top + h - 1
	}
}

func (m Model) rowID(i int) string {
	if i < 0 || i >= len(m.rows) {
		return ""
	}
	return m.rows[i].id()
}

func (m Model) cursorKey() (bucket.Key, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].kind == rowLoading {
		return "", false
	}
	return m.rows[m.cursor].key, true
}

func (m *Model) countCmd(search string) tea.Cmd {
	m.counted = search
	c := m.opts.Counter
	if c == nil {
		return nil
	}
	filter := catalog.SearchFilter(search)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
		defer cancel()
		n, err := c.Count(ctx, filter)
		return countMsg{filter: filter, n: n, err: err}
	}
}

func (m Model) seedCmd() tea.Cmd {
	a, n := m.opts.Admin, m.opts.SeedCount
	if a == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
		defer cancel()
		inserted, err := a.Seed(ctx, n, rand.Uint64())
		if err != nil {
			return adminMsg{status: "seed failed", err: err}
		}
		return adminMsg{status: fmt.Sprintf("seeded %d items", inserted)}
	}
}

func (m Model) clearCmd() tea.Cmd {
	a := m.opts.Admin
	if a == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
		defer cancel()
		if err := a.Clear(ctx); err != nil {
			return adminMsg{status: "clear failed", err: err}
		}
		return adminMsg{status: "cleared"}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
