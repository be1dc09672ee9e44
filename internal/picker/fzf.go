package picker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/atomicstack/commit-browser/internal/logging/events"
)

// fzf exit statuses.
const (
	fzfNoMatch     = 1
	fzfInterrupted = 130
)

var execCommand = exec.CommandContext

// FZF drives the external fzf binary.
type FZF struct {
	path string

	mu      sync.Mutex
	cmd     *exec.Cmd
	stopped bool
}

// NewFZF returns a driver for the fzf binary at path.
func NewFZF(path string) *FZF {
	return &FZF{path: path}
}

func (f *FZF) Kind() Kind { return KindFZF }

// Run feeds req.Lines to fzf and waits for it to exit.
func (f *FZF) Run(ctx context.Context, req Request) (Result, error) {
	cmd := execCommand(ctx, f.path, fzfArgs(req)...)
	cmd.Stdin = strings.NewReader(joinLines(req.Lines))
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), req.Env...)

	events.Picker.Start(string(KindFZF), len(req.Lines), req.Nested)
	f.mu.Lock()
	if err := cmd.Start(); err != nil {
		f.mu.Unlock()
		return Result{}, fmt.Errorf("start fzf: %w", err)
	}
	f.cmd = cmd
	f.stopped = false
	f.mu.Unlock()

	err := cmd.Wait()

	f.mu.Lock()
	f.cmd = nil
	stopped := f.stopped
	f.mu.Unlock()

	selected := strings.TrimRight(stdout.String(), "\n")
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("run fzf: %w", err)
		}
		code = exitErr.ExitCode()
	}
	events.Picker.Exit(string(KindFZF), code, selected)
	switch {
	case code == 0:
		return Result{Selected: selected, Accepted: true}, nil
	case code == fzfNoMatch:
		return Result{}, nil
	case code == fzfInterrupted || stopped:
		return Result{Interrupted: true}, nil
	default:
		return Result{}, fmt.Errorf("fzf exited with status %d", code)
	}
}

// Interrupt sends SIGINT to the running fzf, which is how fzf is told to
// close from outside.
func (f *FZF) Interrupt() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	running := f.cmd != nil && f.cmd.Process != nil
	events.Picker.Interrupt(string(KindFZF), running)
	if !running {
		return false
	}
	f.stopped = true
	return f.cmd.Process.Signal(os.Interrupt) == nil
}

func fzfArgs(req Request) []string {
	args := []string{"--ansi", "--no-sort", "--layout=reverse", "--tiebreak=index"}
	if req.Prompt != "" {
		args = append(args, "--prompt="+req.Prompt+"> ")
	}
	if req.Header != "" {
		args = append(args, "--header="+req.Header)
	}
	if req.Preview != "" {
		args = append(args, "--preview="+withLine(req.Preview))
		window := "down:" + strconv.Itoa(previewPercent(req.PreviewPercent)) + "%"
		if req.PreviewHidden {
			window += ",hidden"
		}
		args = append(args, "--preview-window="+window)
	}
	if req.Nested {
		args = append(args, "--no-clear", "--no-mouse")
	}
	for _, b := range req.Bindings {
		action := fzfAction(b)
		if action == "" {
			continue
		}
		events.Picker.Binding(b.Key, action)
		args = append(args, "--bind="+b.Key+":"+action)
	}
	return args
}

func fzfAction(b Binding) string {
	switch {
	case b.TogglePreview:
		return "toggle-preview"
	case b.Accept:
		return "accept"
	case b.Command != "":
		return wrapAction("execute", withLine(b.Command))
	}
	return ""
}

// wrapAction picks action delimiters that do not occur in body.
func wrapAction(name, body string) string {
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}, {"<", ">"}, {"~", "~"}, {"!", "!"}} {
		if !strings.Contains(body, pair[1]) {
			return name + pair[0] + body + pair[1]
		}
	}
	return name + ":" + body
}

// withLine pipes the highlighted line, which fzf substitutes quoted for {},
// into a helper command.
func withLine(command string) string {
	return "printf '%s\\n' {} | " + command
}

func previewPercent(p int) int {
	if p <= 0 || p > 100 {
		return 60
	}
	return p
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
