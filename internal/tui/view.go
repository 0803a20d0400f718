package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rzbill/lodex/internal/bucket"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	presentStyle  = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteByte('\n')
	if m.searching || m.snap.Search != "" {
		if m.searching {
			b.WriteString(m.input.View())
		} else {
			b.WriteString(faintStyle.Render("/ " + m.snap.Search + "  (esc to clear)"))
		}
		b.WriteByte('\n')
	}

	h := m.listHeight()
	end := min(len(m.rows), m.top+h)
	lines := 0
	for i := m.top; i < end; i++ {
		b.WriteString(m.fit(m.renderRow(i)))
		b.WriteByte('\n')
		lines++
	}
	if len(m.rows) == 0 {
		b.WriteString(faintStyle.Render(m.emptyText()))
		b.WriteByte('\n')
		lines++
	}
	for ; lines < h; lines++ {
		b.WriteByte('\n')
	}

	b.WriteString(m.fit(m.indexBar()))
	b.WriteByte('\n')
	b.WriteString(m.fit(m.statusLine()))
	return b.String()
}

func (m Model) titleLine() string {
	count := fmt.Sprintf("%d loaded", len(m.snap.Items))
	if m.totalKnown {
		count = fmt.Sprintf("%d / %d", len(m.snap.Items), m.total)
	}
	return titleStyle.Render(m.opts.Title) + "  " + faintStyle.Render(count)
}

func (m Model) emptyText() string {
	switch {
	case m.snap.LoadingForward:
		return "loading…"
	case m.snap.Search != "":
		return "no items match " + fmt.Sprintf("%q", m.snap.Search)
	default:
		return "no items"
	}
}

func (m Model) renderRow(i int) string {
	r := m.rows[i]
	selected := i == m.cursor
	switch r.kind {
	case rowHeader:
		line := headerStyle.Render(string(r.key))
		if selected {
			return cursorStyle.Render("▸ ") + line
		}
		return "  " + line
	case rowLoading:
		return "  " + m.spin.View() + faintStyle.Render(" loading…")
	}
	created := ""
	if r.item.CreatedMs > 0 {
		created = time.UnixMilli(r.item.CreatedMs).UTC().Format("2006-01-02")
	}
	meta := faintStyle.Render(shortID(r.item.ID) + " " + created)
	if selected {
		return cursorStyle.Render("▸   "+r.item.Name) + "  " + meta
	}
	return "    " + r.item.Name + "  " + meta
}

// indexBar lists every bucket; loaded buckets are bold and the selected one
// is reversed.
func (m Model) indexBar() string {
	loaded := make(map[bucket.Key]bool, len(m.snap.Sections))
	for _, s := range m.snap.Sections {
		loaded[s.Key] = true
	}
	keys := m.alpha.Keys()
	parts := make([]string, 0, len(keys))
	for i, k := range keys {
		s := string(k)
		switch {
		case i == m.index:
			s = selectedStyle.Render(s)
		case loaded[k]:
			s = presentStyle.Render(s)
		default:
			s = faintStyle.Render(s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func (m Model) statusLine() string {
	var parts []string
	if m.snap.LoadingBackward {
		parts = append(parts, m.spin.View()+"loading ↑")
	}
	if m.snap.LoadingForward {
		parts = append(parts, m.spin.View()+"loading ↓")
	}
	if m.snap.Cursor.FullyLoaded && len(m.snap.Items) > 0 {
		parts = append(parts, "end")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	line := strings.Join(parts, "  ")
	if m.err != nil {
		line += "  " + errStyle.Render(m.err.Error())
	}
	help := faintStyle.Render("j/k move  h/l enter jump  / search  + seed  D clear  q quit")
	if line == "" {
		return help
	}
	return line + "  " + help
}

func (m Model) fit(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
