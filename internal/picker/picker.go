// Package picker runs the fuzzy finder a level is built around: the external
// fzf binary when installed, otherwise the built-in Bubble Tea picker. Both
// honour the same bindings so helpers cannot tell them apart.
package picker

import (
	"context"
	"strings"
)

// Kind names a picker implementation.
type Kind string

const (
	KindFZF     Kind = "fzf"
	KindBuiltin Kind = "builtin"
)

// Binding attaches a key to a helper command. Command reads the highlighted
// line on stdin. Keys use fzf names ("enter", "ctrl-d", "?").
type Binding struct {
	Key           string
	Command       string
	Accept        bool
	TogglePreview bool
}

// Request describes one picker run.
type Request struct {
	Prompt string
	Header string
	Lines  []string
	// Preview is a helper command reading the highlighted line on stdin.
	Preview        string
	PreviewPercent int
	PreviewHidden  bool
	Bindings       []Binding
	// Nested is set when another picker already owns the terminal.
	Nested bool
	// ParentMouse reports that the picker owning the terminal has mouse
	// reporting on, so a nested run must switch it off and back.
	ParentMouse bool
	// Env is appended to the environment of every helper the picker runs.
	Env []string
}

// Result describes how a run ended.
type Result struct {
	Selected    string
	Accepted    bool
	Interrupted bool
}

// Picker is a running or runnable fuzzy finder. Interrupt may be called from
// another goroutine and reports whether a run was in progress.
type Picker interface {
	Kind() Kind
	Run(ctx context.Context, req Request) (Result, error)
	Interrupt() bool
}

// Options selects the implementation.
type Options struct {
	// Prefer is "auto", "fzf" or "builtin".
	Prefer string
	// FZFPath is the located fzf binary, empty when absent.
	FZFPath string
}

// New returns the picker to use. fzf wins in auto mode when installed; an
// explicit fzf preference still degrades to the built-in picker when fzf is
// missing.
func New(opts Options) Picker {
	if opts.Prefer != string(KindBuiltin) && opts.FZFPath != "" {
		return NewFZF(opts.FZFPath)
	}
	return NewBuiltin()
}

// bubbleKey translates an fzf key name to its Bubble Tea spelling.
func bubbleKey(key string) string {
	for _, mod := range []string{"ctrl-", "alt-", "shift-"} {
		if strings.HasPrefix(key, mod) && len(key) > len(mod) {
			return strings.TrimSuffix(mod, "-") + "+" + bubbleKey(key[len(mod):])
		}
	}
	switch key {
	case "bspace":
		return "backspace"
	case "space":
		return " "
	}
	return key
}
