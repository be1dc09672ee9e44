package ui

import (
	"unicode"

	"github.com/atomicstack/commit-browser/internal/logging/events"
	uistate "github.com/atomicstack/commit-browser/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type queryEdit func(*uistate.Query) bool

// queryKeys are the readline keys the prompt understands besides typing.
var queryKeys = map[string]queryEdit{
	"ctrl+u":    (*uistate.Query).Clear,
	"ctrl+w":    (*uistate.Query).DeleteWord,
	"backspace": (*uistate.Query).Backspace,
	"ctrl+h":    (*uistate.Query).Backspace,
	"ctrl+a":    (*uistate.Query).Home,
	"ctrl+e":    (*uistate.Query).End,
	"alt+b":     (*uistate.Query).WordLeft,
	"alt+f":     (*uistate.Query).WordRight,
	"left":      (*uistate.Query).Left,
	"right":     (*uistate.Query).Right,
}

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

// handleTextInput feeds msg to the query. It reports whether the key was
// consumed.
func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.running {
		return false, nil
	}
	if edit, ok := queryKeys[msg.String()]; ok {
		return m.editQuery(edit)
	}
	var text string
	switch msg.Type {
	case tea.KeySpace:
		text = " "
	case tea.KeyRunes:
		if msg.Alt {
			return false, nil
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false, nil
			}
		}
		text = string(msg.Runes)
	default:
		return false, nil
	}
	return m.editQuery(func(q *uistate.Query) bool { return q.Insert(text) })
}

func (m *Model) editQuery(edit queryEdit) (bool, tea.Cmd) {
	q := m.list.Query()
	text, pos := q.String(), q.Pos()
	if !m.list.Edit(edit) {
		return false, nil
	}
	if q.Pos() != pos {
		m.filterCursorDirty = true
	}
	if q.String() == text {
		events.Filter.Cursor(q.Pos())
		return true, nil
	}
	m.errMsg = ""
	events.Filter.Changed(q.String(), len(m.list.Rows()))
	return true, m.ensurePreview()
}

func (m *Model) filterPrompt() string {
	m.filterCursor.Style = styleOrZero(styles.Cursor)
	m.filterCursor.TextStyle = styleOrZero(styles.Filter)
	prompt := renderStyle(styles.FilterPrompt, "» ")
	counter := renderStyle(styles.Footer, countLabel(len(m.list.Rows()), m.list.Total()))

	q := m.list.Query()
	if q.Empty() {
		m.filterCursor.TextStyle = styleOrZero(styles.FilterPlaceholder)
		hint := []rune("(type to search)")
		return prompt + m.renderFilterCursor(string(hint[0])) +
			renderStyle(styles.FilterPlaceholder, string(hint[1:])) + "  " + counter
	}
	runes := []rune(q.String())
	pos := q.Pos()
	caret, after := " ", ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = renderStyle(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + renderStyle(styles.Filter, string(runes[:pos])) +
		m.renderFilterCursor(caret) + after + "  " + counter
}

func styleOrZero(s *lipgloss.Style) lipgloss.Style {
	if s == nil {
		return lipgloss.Style{}
	}
	return s.Copy()
}

func (m *Model) renderFilterCursor(char string) string {
	m.filterCursor.SetChar(char)
	base := m.filterCursor.TextStyle.Copy().Inline(true)
	switch {
	case m.filterCursor.Blink:
		return base.Render(char)
	case styles.Cursor != nil:
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	default:
		return base.Reverse(true).Render(char)
	}
}
