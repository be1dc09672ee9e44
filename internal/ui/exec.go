package ui

import (
	"fmt"

	"github.com/atomicstack/commit-browser/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

type execFinishedMsg struct {
	key string
	err error
}

var execProcess = tea.ExecProcess

func (m *Model) runBinding(b Binding) tea.Cmd {
	item, ok := m.list.Current()
	if !ok {
		return nil
	}
	cmd := b.Command(item.Line)
	if cmd == nil {
		return nil
	}
	m.running = true
	m.errMsg = ""
	key := b.Key
	return execProcess(cmd, func(err error) tea.Msg {
		return execFinishedMsg{key: key, err: err}
	})
}

func (m *Model) handleExecFinishedMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(execFinishedMsg)
	if !ok {
		return nil
	}
	m.running = false
	if done.err != nil {
		logging.Error(fmt.Errorf("binding %s: %w", done.key, done.err))
		m.errMsg = done.err.Error()
	}
	return m.refreshPreview()
}
