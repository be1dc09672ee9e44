package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const previewMinHeight = 3

type previewData struct {
	target       string
	lines        []string
	err          string
	loading      bool
	seq          int
	scrollOffset int
}

type previewLoadedMsg struct {
	target string
	seq    int
	output string
	err    error
}

func (m *Model) previewEnabled() bool {
	return m.previewFn != nil && !m.previewHidden
}

// previewHeight is the number of rows given to the bordered preview panel,
// zero when no panel is drawn.
func (m *Model) previewHeight() int {
	if !m.previewEnabled() || m.height <= 0 {
		return 0
	}
	h := m.height * m.previewPercent / 100
	if h < previewMinHeight {
		h = previewMinHeight
	}
	if limit := m.height - bottomBarRows - 1; h > limit {
		h = limit
	}
	if h < previewMinHeight {
		return 0
	}
	return h
}

func (m *Model) previewInnerSize() (int, int) {
	w := m.width - 2
	h := m.previewHeight() - 2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (m *Model) ensurePreview() tea.Cmd {
	if !m.previewEnabled() {
		return nil
	}
	item, ok := m.list.Current()
	if !ok {
		m.preview = nil
		return nil
	}
	if m.preview != nil && m.preview.target == item.Line && !m.preview.loading {
		return nil
	}
	m.previewSeq++
	seq := m.previewSeq
	m.preview = &previewData{target: item.Line, loading: true, seq: seq}
	fn := m.previewFn
	target := item.Line
	width, height := m.previewInnerSize()
	return func() tea.Msg {
		out, err := fn(target, width, height)
		return previewLoadedMsg{target: target, seq: seq, output: out, err: err}
	}
}

// refreshPreview discards the cached preview so the next render reloads it.
func (m *Model) refreshPreview() tea.Cmd {
	m.preview = nil
	return m.ensurePreview()
}

func (m *Model) handlePreviewLoadedMsg(msg tea.Msg) tea.Cmd {
	update, ok := msg.(previewLoadedMsg)
	if !ok || m.preview == nil {
		return nil
	}
	if m.preview.seq != update.seq || m.preview.target != update.target {
		return nil
	}
	m.preview.loading = false
	m.preview.scrollOffset = 0
	if update.err != nil {
		m.preview.err = update.err.Error()
		m.preview.lines = nil
		return nil
	}
	m.preview.err = ""
	m.preview.lines = strings.Split(strings.TrimRight(update.output, "\n"), "\n")
	return nil
}

func (m *Model) scrollPreview(delta int) {
	if m.preview == nil || m.preview.loading {
		return
	}
	_, innerH := m.previewInnerSize()
	maxOffset := len(m.preview.lines) - innerH
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.preview.scrollOffset += delta
	if m.preview.scrollOffset < 0 {
		m.preview.scrollOffset = 0
	}
	if m.preview.scrollOffset > maxOffset {
		m.preview.scrollOffset = maxOffset
	}
}

// handleMouseMsg scrolls the preview panel with the mouse wheel.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		m.scrollPreview(-3)
	case tea.MouseButtonWheelDown:
		m.scrollPreview(3)
	}
	return nil
}
