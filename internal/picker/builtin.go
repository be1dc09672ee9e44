package picker

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/atomicstack/commit-browser/internal/logging/events"
	"github.com/atomicstack/commit-browser/internal/term"
	"github.com/atomicstack/commit-browser/internal/ui"
)

var (
	openTTY    = term.Open
	runSession = func(ctx context.Context, s *ui.Session) (ui.Result, error) { return s.Run(ctx) }
)

// Builtin is the Bubble Tea picker used when fzf is not installed.
type Builtin struct {
	mu      sync.Mutex
	session *ui.Session
}

// NewBuiltin returns the built-in picker.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

func (b *Builtin) Kind() Kind { return KindBuiltin }

// Run draws the picker on the controlling terminal. Nested runs stay on the
// current screen buffer and leave mouse reporting off.
func (b *Builtin) Run(ctx context.Context, req Request) (Result, error) {
	tty, err := openTTY(req.Nested)
	if err != nil {
		return Result{}, err
	}
	defer tty.Close()

	session := ui.NewSession(builtinOptions(req), ui.ProgramOptions{
		Input:     tty.In,
		Output:    tty.Out,
		AltScreen: !req.Nested,
		Mouse:     !req.Nested,
	})
	var guard *term.Guard
	if req.Nested {
		guard = term.Takeover(tty.Out, term.NestedOptions(true, req.ParentMouse))
	}
	defer guard.Restore()

	b.mu.Lock()
	b.session = session
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.session = nil
		b.mu.Unlock()
	}()

	events.Picker.Start(string(KindBuiltin), len(req.Lines), req.Nested)
	var res ui.Result
	err = guard.WhileChild(func() (err error) {
		res, err = runSession(ctx, session)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	code := 0
	if !res.Accepted {
		code = fzfInterrupted
	}
	events.Picker.Exit(string(KindBuiltin), code, res.Selected)
	return Result{Selected: res.Selected, Accepted: res.Accepted, Interrupted: res.Interrupted}, nil
}

// Interrupt closes the running session.
func (b *Builtin) Interrupt() bool {
	b.mu.Lock()
	session := b.session
	b.mu.Unlock()
	running := session != nil && session.Interrupt()
	events.Picker.Interrupt(string(KindBuiltin), running)
	return running
}

func builtinOptions(req Request) ui.Options {
	opts := ui.Options{
		Title:          req.Prompt,
		Header:         req.Header,
		Lines:          req.Lines,
		PreviewPercent: previewPercent(req.PreviewPercent),
		PreviewHidden:  req.PreviewHidden,
	}
	if req.Preview != "" {
		opts.Preview = shellPreview(req.Preview, req.Env)
	}
	for _, b := range req.Bindings {
		binding := ui.Binding{Key: bubbleKey(b.Key), Accept: b.Accept, TogglePreview: b.TogglePreview}
		if b.Command != "" && !b.Accept && !b.TogglePreview {
			binding.Command = shellBinding(b.Command, req.Env)
		}
		events.Picker.Binding(binding.Key, b.Command)
		opts.Bindings = append(opts.Bindings, binding)
	}
	return opts
}

// shellPreview runs the preview command the way fzf would, with the line on
// stdin and the panel size in FZF_PREVIEW_COLUMNS and FZF_PREVIEW_LINES.
func shellPreview(command string, env []string) ui.PreviewFunc {
	return func(line string, width, height int) (string, error) {
		cmd := exec.Command("sh", "-c", command)
		cmd.Stdin = strings.NewReader(line + "\n")
		cmd.Env = append(os.Environ(), env...)
		cmd.Env = append(cmd.Env,
			"FZF_PREVIEW_COLUMNS="+strconv.Itoa(width),
			"FZF_PREVIEW_LINES="+strconv.Itoa(height),
		)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return stdout.String(), fmt.Errorf("%s", msg)
			}
			return stdout.String(), err
		}
		return stdout.String(), nil
	}
}

func shellBinding(command string, env []string) ui.CommandFunc {
	return func(line string) *exec.Cmd {
		cmd := exec.Command("sh", "-c", command)
		cmd.Stdin = strings.NewReader(line + "\n")
		cmd.Env = append(os.Environ(), env...)
		return cmd
	}
}
