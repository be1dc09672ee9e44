package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTypingFiltersOnVisibleText(t *testing.T) {
	m := newTestModel("* \x1b[33mabc1234\x1b[m fix parser", "* \x1b[33mdef5678\x1b[m add docs")
	handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("docs")})
	if !handled {
		t.Fatalf("expected runes handled")
	}
	if rows := m.list.Rows(); len(rows) != 1 || rows[0].Text != "* def5678 add docs" {
		t.Fatalf("unexpected filtered rows %#v", rows)
	}
}

func TestCtrlUClearsFilter(t *testing.T) {
	m := newTestModel("one", "two")
	m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("tw")})
	handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlU})
	if !handled {
		t.Fatalf("expected ctrl+u handled")
	}
	if q := m.list.Query(); !q.Empty() || len(m.list.Rows()) != 2 {
		t.Fatalf("expected filter cleared, got %q with %d rows", q.String(), len(m.list.Rows()))
	}
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlU}); handled {
		t.Fatalf("expected ctrl+u on empty filter to be unhandled")
	}
}

func TestFilterCursorMovementAndBackspace(t *testing.T) {
	m := newTestModel("alpha")
	m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyLeft}); !handled {
		t.Fatalf("expected left handled")
	}
	if pos := m.list.Query().Pos(); pos != 2 {
		t.Fatalf("expected cursor 2, got %d", pos)
	}
	m.handleTextInput(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.list.Query().String(); got != "ac" {
		t.Fatalf("expected rune before cursor removed, got %q", got)
	}
	if !m.filterCursorDirty {
		t.Fatalf("expected cursor marked dirty")
	}
}

func TestFilterPromptShowsCounter(t *testing.T) {
	m := newTestModel("one", "two", "three")
	m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("thr")})
	prompt := m.filterPrompt()
	if !containsPlain(prompt, "1/3") {
		t.Fatalf("expected match counter in prompt, got %q", prompt)
	}
}

func TestCaretMoveKeepsSelection(t *testing.T) {
	m := newTestModel("one", "two", "three")
	m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if handled, cmd := m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlA}); !handled || cmd != nil {
		t.Fatalf("expected ctrl+a handled without a preview reload")
	}
	if m.list.Cursor() != 1 {
		t.Fatalf("caret moves must keep the selected row, got %d", m.list.Cursor())
	}
}

func TestExtendedQuerySyntax(t *testing.T) {
	m := newTestModel("* abc1234 fix parser", "* def5678 add docs", "* 0123abc docs: fix typo")
	m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("'docs !typo")})
	rows := m.list.Rows()
	if len(rows) != 1 || rows[0].Text != "* def5678 add docs" {
		t.Fatalf("unexpected rows %#v", rows)
	}
}
