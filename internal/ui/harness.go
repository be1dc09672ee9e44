package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

// maxHarnessSteps bounds the follow-up commands run for one message.
const maxHarnessSteps = 64

// Harness drives the picker model without a terminal. Commands returned by
// the model are run synchronously; batches are not expanded because they
// carry the cursor's blink ticks.
type Harness struct {
	model *Model
}

// NewHarness wraps model. The filter caret is made static so no command
// ever waits on a blink timer.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.filterCursor.SetMode(cursor.CursorStatic)
	}
	return &Harness{model: model}
}

// Send routes msg through the model and runs the command chain it starts.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	h.follow(h.update(msg))
}

// Type feeds text to the model one rune at a time, as typed.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Press sends a single special key.
func (h *Harness) Press(key tea.KeyType) {
	h.Send(tea.KeyMsg{Type: key})
}

// Resize reports a new terminal size.
func (h *Harness) Resize(width, height int) {
	h.Send(tea.WindowSizeMsg{Width: width, Height: height})
}

func (h *Harness) update(msg tea.Msg) tea.Cmd {
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	return cmd
}

func (h *Harness) follow(cmd tea.Cmd) {
	for i := 0; cmd != nil && i < maxHarnessSteps; i++ {
		msg := cmd()
		switch msg.(type) {
		case nil, tea.QuitMsg, tea.BatchMsg:
			return
		}
		cmd = h.update(msg)
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Result is the picker outcome so far.
func (h *Harness) Result() Result {
	if h.model == nil {
		return Result{}
	}
	return h.model.Result()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
