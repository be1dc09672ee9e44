package helper

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atomicstack/commit-browser/internal/channel"
	"github.com/atomicstack/commit-browser/internal/config"
	"github.com/atomicstack/commit-browser/internal/git"
	"github.com/atomicstack/commit-browser/internal/gitlog"
	"github.com/atomicstack/commit-browser/internal/logging/events"
	"github.com/atomicstack/commit-browser/internal/menu"
	"github.com/atomicstack/commit-browser/internal/picker"
	"github.com/atomicstack/commit-browser/internal/render"
	"github.com/atomicstack/commit-browser/internal/term"
	"github.com/atomicstack/commit-browser/internal/theme"
	"github.com/atomicstack/commit-browser/internal/tools"
)

var executable = os.Executable

// Main runs the helper selected by cfg. The mode is validated before anything
// else happens, so an unknown mode has no side effects.
func Main(ctx context.Context, cfg config.Config, stdin io.Reader, stdout io.Writer) error {
	mode, err := ParseMode(cfg.Helper.Mode)
	if err != nil {
		events.Helper.Rejected(cfg.Helper.Mode)
		return err
	}
	if mode == ModeNone {
		return fmt.Errorf("%w: no helper mode set", ErrInvariant)
	}

	theme.ForceColor()
	repo, err := git.Open(ctx, cfg.Repo)
	if err != nil {
		return err
	}
	exe, err := executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	adapter := tools.New(ToolOptions(cfg, mode))
	renderer := render.New(render.Options{
		Highlight: adapter.Highlight(),
		Colorize:  adapter.ColorizeDiff(),
		Boxed:     cfg.Boxed,
	})

	d := New(Options{
		Config:     cfg,
		Repo:       repo,
		Registry:   menu.Default(),
		Tools:      adapter,
		Render:     renderer,
		Executable: exe,
		Channel:    cfg.Helper.Channel,
		Picker: func() picker.Picker {
			path, _ := adapter.FuzzyFinder()
			return picker.New(picker.Options{Prefer: cfg.Picker, FZFPath: path})
		},
		Stdout: stdout,
		Stdio:  channel.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr},
	})
	return d.Run(ctx, Invocation{
		Mode:   mode,
		Args:   cfg.Helper.Args,
		Input:  readInput(stdin),
		Depth:  cfg.Helper.Depth,
		Commit: cfg.Helper.Commit,
	})
}

// ToolOptions configures the tool adapter for a helper running in mode.
func ToolOptions(cfg config.Config, mode Mode) tools.Options {
	return tools.Options{
		NoHighlight: cfg.NoHighlight,
		Nested:      cfg.Nested(),
		Mouse:       cfg.Helper.Mouse,
		Inline:      !mode.FullScreen(),
	}
}

// readInput returns the single line a picker sends. A terminal on stdin
// means the helper was started by hand with nothing to read.
func readInput(stdin io.Reader) string {
	if stdin == nil {
		return ""
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(f) {
		return ""
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(gitlog.FirstLine(line))
}
