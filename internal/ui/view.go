package ui

import (
	"fmt"
	"strings"

	uistate "github.com/atomicstack/commit-browser/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Rows below the list: the status line and the prompt.
const bottomBarRows = 2

const footerHelp = "↑/↓ move  enter select  ctrl+u clear  esc quit"

const ellipsis = "…"

// View implements tea.Model. The layout top to bottom is header, list,
// preview panel, status line and prompt; with a known height it fills the
// screen exactly.
func (m *Model) View() string {
	rows := []string{renderStyle(styles.Header, m.headerLine())}
	rows = append(rows, m.listRows()...)
	if m.showFooter {
		rows = append(rows, renderStyle(styles.Footer, footerHelp))
	}
	panel := m.previewHeight()
	if m.height > 0 {
		rows = fillHeight(rows, m.height-bottomBarRows-panel)
	}
	rows = append(rows, m.statusLine(), m.filterPrompt())
	for i := range rows {
		rows[i] = fit(rows[i], m.width)
	}
	if panel > 0 {
		at := len(rows) - bottomBarRows
		rows = append(rows[:at], append([]string{m.previewPanel(panel)}, rows[at:]...)...)
	}
	return strings.Join(rows, "\n")
}

func (m *Model) headerLine() string {
	if m.header == "" {
		return m.title
	}
	return m.title + "  " + m.header
}

func (m *Model) listRows() []string {
	visible := m.list.Window(m.maxVisibleItems())
	if len(visible) == 0 {
		msg := "(no entries)"
		if q := m.list.Query(); !q.Empty() {
			msg = fmt.Sprintf("No matches for %q", q.String())
		}
		return []string{renderStyle(styles.Info, msg)}
	}
	out := make([]string, len(visible))
	for i, item := range visible {
		out[i] = m.itemRow(item, m.list.Offset()+i == m.list.Cursor())
	}
	return out
}

// itemRow draws one row. Rows keep the colour of the input line; the
// selected row is redrawn from its plain text so the highlight spans the
// whole width.
func (m *Model) itemRow(item uistate.Item, selected bool) string {
	const bar = "▌"
	if !selected {
		return renderStyle(styles.ItemIndicator, bar) + " " + item.Line
	}
	text := " " + item.Text
	if pad := m.width - 1 - lipgloss.Width(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return renderStyle(styles.SelectedItemIndicator, bar) + renderStyle(styles.SelectedItem, text)
}

func (m *Model) statusLine() string {
	switch {
	case m.errMsg != "":
		return renderStyle(styles.Error, "Error: "+m.errMsg)
	case m.running:
		return renderStyle(styles.Loading, "running…")
	}
	return ""
}

// previewPanel draws the preview inside a rounded border of exactly height
// rows, with the title and scroll position set into the top edge.
func (m *Model) previewPanel(height int) string {
	width := m.width
	if width < 4 {
		width = 4
	}
	inner := width - 2
	body := height - 2
	if body < 1 {
		body = 1
	}
	content, position := m.previewContent(body)

	b := lipgloss.RoundedBorder()
	edge := func(s string) string { return renderStyle(styles.PreviewBorder, s) }
	title := " Preview "
	gap := inner - 2 - lipgloss.Width(title) - lipgloss.Width(position)
	if gap < 0 {
		position = ""
		gap = inner - 2 - lipgloss.Width(title)
	}
	if gap < 0 {
		title = ""
		gap = inner - 2
	}

	out := make([]string, 0, height)
	out = append(out, edge(b.TopLeft+b.Top)+renderStyle(styles.PreviewTitle, title)+
		edge(strings.Repeat(b.Top, gap))+renderStyle(styles.Footer, position)+edge(b.Top+b.TopRight))
	for i := 0; i < body; i++ {
		line := ""
		if i < len(content) {
			line = fit(content[i], inner)
		}
		if pad := inner - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out = append(out, edge(b.Left)+line+edge(b.Right))
	}
	out = append(out, edge(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return strings.Join(out, "\n")
}

// previewContent returns the lines to show in a body of the given height
// and the scroll position label.
func (m *Model) previewContent(body int) ([]string, string) {
	p := m.preview
	switch {
	case p == nil:
		return nil, ""
	case p.err != "":
		return []string{renderStyle(styles.PreviewError, p.err)}, ""
	case p.loading:
		return []string{"Loading…"}, ""
	}
	if last := len(p.lines) - body; p.scrollOffset > last {
		p.scrollOffset = max(last, 0)
	}
	end := min(p.scrollOffset+body, len(p.lines))
	shown := p.lines[p.scrollOffset:end]
	return shown, fmt.Sprintf(" %d/%d ", p.scrollOffset+len(shown), len(p.lines))
}

func renderStyle(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	return m.refreshPreview()
}

// maxVisibleItems is the number of list rows that fit, or -1 when the
// height is unknown.
func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := bottomBarRows + 1 + m.previewHeight()
	if m.showFooter {
		used++
	}
	return max(m.height-used, 1)
}

func countLabel(shown, total int) string {
	return fmt.Sprintf("%d/%d", shown, total)
}

// fillHeight pads rows to exactly height lines, marking a cut with an
// ellipsis row.
func fillHeight(rows []string, height int) []string {
	if height <= 0 {
		return rows
	}
	if len(rows) > height {
		rows = append(rows[:height-1:height-1], ellipsis)
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	return rows
}

// fit truncates a possibly coloured line to width columns.
func fit(line string, width int) string {
	if width <= 0 || lipgloss.Width(line) <= width {
		return line
	}
	if width == 1 {
		return truncate.String(line, 1)
	}
	return truncate.StringWithTail(line, uint(width-1), ellipsis)
}
