package ui

import (
	"github.com/atomicstack/commit-browser/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

type interruptMsg struct{}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.running {
		return nil
	}
	if binding, ok := m.bindings[keyMsg.String()]; ok {
		return m.applyBinding(binding)
	}
	if handled, cmd := m.handleTextInput(keyMsg); handled {
		return cmd
	}
	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return m.abort()
	case "enter":
		return m.accept()
	case "up", "ctrl+k", "ctrl+p":
		return m.moveCursor(m.list.Step(-1))
	case "down", "ctrl+j", "ctrl+n":
		return m.moveCursor(m.list.Step(1))
	case "pgup":
		return m.moveCursor(m.list.Jump(-m.pageRows()))
	case "pgdown":
		return m.moveCursor(m.list.Jump(m.pageRows()))
	case "home":
		return m.moveCursor(m.list.Jump(-m.list.Cursor()))
	case "end":
		return m.moveCursor(m.list.Jump(len(m.list.Rows())))
	case "shift+up":
		m.scrollPreview(-1)
	case "shift+down":
		m.scrollPreview(1)
	}
	return nil
}

func (m *Model) applyBinding(b Binding) tea.Cmd {
	switch {
	case b.TogglePreview:
		m.previewHidden = !m.previewHidden
		return m.ensurePreview()
	case b.Accept:
		return m.accept()
	case b.Command != nil:
		return m.runBinding(b)
	}
	return nil
}

func (m *Model) accept() tea.Cmd {
	item, ok := m.list.Current()
	if !ok {
		return nil
	}
	m.result = Result{Selected: item.Line, Accepted: true}
	return tea.Quit
}

func (m *Model) abort() tea.Cmd {
	m.result = Result{}
	return tea.Quit
}

func (m *Model) handleInterruptMsg(tea.Msg) tea.Cmd {
	m.result = Result{Interrupted: true}
	return tea.Quit
}

func (m *Model) moveCursor(moved bool) tea.Cmd {
	if !moved {
		return nil
	}
	events.Picker.Cursor(m.list.Cursor())
	return m.ensurePreview()
}

// pageRows is how far pgup/pgdown jump; a full screen when the height is
// known.
func (m *Model) pageRows() int {
	if rows := m.maxVisibleItems(); rows > 0 {
		return rows
	}
	return 10
}
