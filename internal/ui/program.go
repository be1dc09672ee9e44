package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgramOptions selects the terminal the program draws on.
type ProgramOptions struct {
	Input     io.Reader
	Output    io.Writer
	AltScreen bool
	Mouse     bool
}

func (o ProgramOptions) teaOptions(ctx context.Context) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if o.Input != nil {
		opts = append(opts, tea.WithInput(o.Input))
	}
	if o.Output != nil {
		opts = append(opts, tea.WithOutput(o.Output))
	}
	if o.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if o.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return opts
}

// Session runs one picker. Interrupt may be called from any goroutine while
// Run is in progress.
type Session struct {
	model *Model
	popts ProgramOptions

	mu      sync.Mutex
	program *tea.Program
}

// NewSession prepares a picker session.
func NewSession(opts Options, popts ProgramOptions) *Session {
	return &Session{model: NewModel(opts), popts: popts}
}

// Run blocks until the picker is accepted, aborted or interrupted.
func (s *Session) Run(ctx context.Context) (Result, error) {
	program := tea.NewProgram(s.model, s.popts.teaOptions(ctx)...)
	s.mu.Lock()
	s.program = program
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.program = nil
		s.mu.Unlock()
	}()
	final, err := program.Run()
	if err != nil {
		return Result{}, fmt.Errorf("run picker: %w", err)
	}
	if m, ok := final.(*Model); ok {
		return m.Result(), nil
	}
	return s.model.Result(), nil
}

// Interrupt closes a running picker and reports whether one was running.
func (s *Session) Interrupt() bool {
	s.mu.Lock()
	program := s.program
	s.mu.Unlock()
	if program == nil {
		return false
	}
	program.Send(interruptMsg{})
	return true
}
