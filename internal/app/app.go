// Package app runs the top-level session: the commit log in a picker whose
// key bindings re-enter this program as helpers, followed by the commands
// those helpers deferred.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atomicstack/commit-browser/internal/channel"
	"github.com/atomicstack/commit-browser/internal/config"
	"github.com/atomicstack/commit-browser/internal/git"
	"github.com/atomicstack/commit-browser/internal/helper"
	"github.com/atomicstack/commit-browser/internal/logging/events"
	"github.com/atomicstack/commit-browser/internal/menu"
	"github.com/atomicstack/commit-browser/internal/picker"
	"github.com/atomicstack/commit-browser/internal/term"
	"github.com/atomicstack/commit-browser/internal/tools"
)

const header = "enter menu  ctrl-d diff  ctrl-y copy  ctrl-r rebase  ctrl-p cherry-pick  ? preview"

var errNoCommits = errors.New("no commits to browse")

var (
	executable = os.Executable
	newPicker  = func(cfg config.Config) picker.Picker {
		path, _ := tools.New(tools.Options{NoHighlight: cfg.NoHighlight}).FuzzyFinder()
		return picker.New(picker.Options{Prefer: cfg.Picker, FZFPath: path})
	}
	stdio = channel.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
)

// Run bootstraps the session and blocks until the picker has exited and
// every deferred command has run.
func Run(ctx context.Context, cfg config.Config) error {
	repo, err := git.Open(ctx, cfg.Repo)
	if err != nil {
		return err
	}
	ref := cfg.Ref
	if ref == "" {
		ref = "HEAD"
	}
	if _, err := repo.ResolveRef(ctx, ref); err != nil {
		return err
	}
	lines, err := repo.LogLines(ctx, ref)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w at %s", errNoCommits, ref)
	}
	exe, err := executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	ch, err := channel.Create("")
	if err != nil {
		return err
	}
	defer ch.Remove()

	child := cfg
	child.Repo = repo.Path()
	events.App.Session(repo.Path(), ref, 0)

	stop := term.IgnoreInterrupt()
	defer stop()
	return runLevel(ctx, newPicker(cfg), TopLevelRequest(exe, child, ch.Path(), ref, lines), ch)
}

// TopLevelRequest is the picker over the commit log.
func TopLevelRequest(exe string, cfg config.Config, channelPath, ref string, lines []string) picker.Request {
	return picker.Request{
		Prompt:         "commits",
		Header:         header,
		Lines:          lines,
		Preview:        helper.Command(exe, helper.ModePreview),
		PreviewPercent: cfg.PreviewHeight,
		Bindings: []picker.Binding{
			{Key: "enter", Command: helper.Command(exe, helper.ModeMenu)},
			{Key: "ctrl-d", Command: helper.Command(exe, helper.ModeDiff)},
			{Key: "ctrl-y", Command: helper.Command(exe, helper.ModeCopy)},
			{Key: "ctrl-r", Command: helper.Command(exe, helper.ModeMenuItem, string(menu.ActionRebase))},
			{Key: "ctrl-p", Command: helper.Command(exe, helper.ModeMenuItem, string(menu.ActionCherryPick))},
			{Key: "?", TogglePreview: true},
		},
		Env: append(cfg.Environ(), config.HelperEnviron(channelPath, 1, "", ref, true)...),
	}
}

// runLevel runs the top-level picker. Only exit closes it from outside;
// break has no menu to close at this depth. Once the picker is gone the
// queued commands run in order.
func runLevel(ctx context.Context, p picker.Picker, req picker.Request, ch *channel.Channel) error {
	w := ch.Watch(func(cmd string) {
		if cmd == channel.Exit {
			p.Interrupt()
		}
	})
	_, err := p.Run(ctx, req)
	w.Stop()
	w.Wait()
	if err != nil {
		return err
	}

	lines, err := ch.Drain()
	if err != nil {
		return err
	}
	drained := channel.Classify(lines)
	events.App.Finish(len(drained.Commands), drained.Exit)
	return channel.Replay(ctx, drained.Commands, stdio)
}
