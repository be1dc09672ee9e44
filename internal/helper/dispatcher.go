// Package helper is the dispatcher for helper invocations: the short-lived
// re-entries of this program that a picker runs to draw a preview, open the
// action menu or perform an action on the highlighted commit.
package helper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/atomicstack/commit-browser/internal/channel"
	"github.com/atomicstack/commit-browser/internal/config"
	"github.com/atomicstack/commit-browser/internal/gitlog"
	"github.com/atomicstack/commit-browser/internal/logging"
	"github.com/atomicstack/commit-browser/internal/logging/events"
	"github.com/atomicstack/commit-browser/internal/menu"
	"github.com/atomicstack/commit-browser/internal/picker"
	"github.com/atomicstack/commit-browser/internal/render"
	"github.com/atomicstack/commit-browser/internal/term"
)

// Invocation is one helper run.
type Invocation struct {
	Mode Mode
	Args []string
	// Input is the line the picker passed on stdin.
	Input string
	Depth int
	// Commit is set for helpers spawned by the action menu.
	Commit string
}

// deferred is the side channel a helper writes to.
type deferred interface {
	menu.Deferred
	Break() error
}

// Options wires a Dispatcher.
type Options struct {
	Config     config.Config
	Repo       menu.Repository
	Registry   *menu.Registry
	Tools      menu.Tools
	Render     *render.Renderer
	Executable string
	// Channel is the parent level's side channel. Without one, queued
	// commands run when the helper finishes.
	Channel string
	// ChannelDir is where the menu level creates its own channel.
	ChannelDir string
	Picker     func() picker.Picker
	Stdout     io.Writer
	Stdio      channel.Stdio
}

// Dispatcher runs helper invocations.
type Dispatcher struct {
	opts     Options
	registry *menu.Registry
	env      *menu.Env
	parent   *channel.Writer
	deferred deferred
	local    *localQueue
}

// New builds a dispatcher.
func New(opts Options) *Dispatcher {
	if opts.Registry == nil {
		opts.Registry = menu.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	d := &Dispatcher{opts: opts, registry: opts.Registry}
	if opts.Channel != "" {
		d.parent = channel.NewWriter(opts.Channel)
		d.deferred = d.parent
	} else {
		d.local = &localQueue{}
		d.deferred = d.local
	}
	d.env = &menu.Env{
		Repo:     opts.Repo,
		Tools:    opts.Tools,
		Render:   opts.Render,
		Deferred: d.deferred,
		Out:      opts.Stdout,
		Ref:      opts.Config.Ref,
	}
	return d
}

// Run performs inv. Recoverable failures (an unparseable line, a failed
// action) end the single render and return nil.
func (d *Dispatcher) Run(ctx context.Context, inv Invocation) error {
	events.Helper.Dispatch(inv.Mode.String(), inv.Args, inv.Depth)
	switch inv.Mode {
	case ModePreview:
		return d.preview(ctx, inv)
	case ModeMenu:
		return d.menu(ctx, inv)
	case ModeMenuItem:
		return d.menuItem(ctx, inv)
	case ModeMenuPreview:
		return d.menuPreview(ctx, inv)
	case ModeDiff:
		return d.action(ctx, inv, menu.ActionDiff)
	case ModeCopy:
		return d.action(ctx, inv, menu.ActionCopyHash)
	case ModeNone:
		return fmt.Errorf("%w: the interactive session cannot run as a helper", ErrInvariant)
	}
	return fmt.Errorf("%w: %s", ErrUnknownMode, inv.Mode)
}

func (d *Dispatcher) commitFromInput(inv Invocation) (string, bool) {
	commit, ok := gitlog.ExtractCommit(inv.Input)
	if !ok {
		events.Helper.NoCommit(inv.Mode.String(), inv.Input)
	}
	return commit, ok
}

// menuCommit prefers the commit the menu was opened on over the input line,
// which inside the menu is an action row.
func (d *Dispatcher) menuCommit(inv Invocation) (string, bool) {
	if inv.Commit != "" {
		return inv.Commit, true
	}
	return d.commitFromInput(inv)
}

func (d *Dispatcher) preview(ctx context.Context, inv Invocation) error {
	commit, ok := d.commitFromInput(inv)
	if !ok {
		return nil
	}
	out, err := d.registry.Preview(ctx, d.env, string(menu.ActionShow), commit)
	if err != nil {
		out = "error: " + err.Error() + "\n"
	}
	_, err = io.WriteString(d.opts.Stdout, out)
	return err
}

func (d *Dispatcher) menuPreview(ctx context.Context, inv Invocation) error {
	id, ok := gitlog.ExtractAction(inv.Input)
	if !ok {
		return nil
	}
	commit, ok := d.menuCommit(inv)
	if !ok {
		return nil
	}
	out, err := d.registry.Preview(ctx, d.env, id, commit)
	switch {
	case errors.Is(err, menu.ErrUnknownAction):
		out = err.Error() + "\n"
	case err != nil:
		out = "error: " + err.Error() + "\n"
	}
	_, err = io.WriteString(d.opts.Stdout, out)
	return err
}

func (d *Dispatcher) menuItem(ctx context.Context, inv Invocation) error {
	var id string
	if len(inv.Args) > 0 {
		id = strings.TrimSpace(inv.Args[0])
	} else {
		id, _ = gitlog.ExtractAction(inv.Input)
	}
	if id == "" {
		events.Helper.NoCommit(inv.Mode.String(), inv.Input)
		return nil
	}
	if _, err := d.registry.Lookup(id); err != nil {
		events.Action.Unknown(id)
		_, werr := fmt.Fprintln(d.opts.Stdout, err.Error())
		return werr
	}
	commit, ok := d.menuCommit(inv)
	if !ok {
		return nil
	}
	if err := d.registry.Invoke(ctx, d.env, id, commit); err != nil {
		d.report(err)
		return d.deferred.Break()
	}
	return d.flushLocal(ctx)
}

// action runs a single action bound directly to a top-level key.
func (d *Dispatcher) action(ctx context.Context, inv Invocation, id menu.ActionID) error {
	commit, ok := d.commitFromInput(inv)
	if !ok {
		return nil
	}
	if err := d.registry.Invoke(ctx, d.env, string(id), commit); err != nil {
		d.report(err)
		return nil
	}
	return d.flushLocal(ctx)
}

// report surfaces a failed action on the status line. Declined actions
// already explained themselves.
func (d *Dispatcher) report(err error) {
	logging.Error(err)
	if errors.Is(err, menu.ErrDeclined) || d.opts.Tools == nil {
		return
	}
	d.opts.Tools.Status()(err.Error())
}

func (d *Dispatcher) menu(ctx context.Context, inv Invocation) error {
	commit, ok := d.commitFromInput(inv)
	if !ok {
		return nil
	}
	if d.opts.Picker == nil {
		return fmt.Errorf("%w: menu requires a picker", ErrInvariant)
	}
	ch, err := channel.Create(d.opts.ChannelDir)
	if err != nil {
		return err
	}
	defer ch.Remove()

	stop := term.IgnoreInterrupt()
	defer stop()

	p := d.opts.Picker()
	// A nested menu runs without mouse reporting, so its helpers must not
	// turn it back on when they finish.
	nested := inv.Depth > 0
	env := append(d.opts.Config.Environ(), config.HelperEnviron(ch.Path(), inv.Depth+1, commit, d.opts.Config.Ref, !nested)...)
	req := picker.Request{
		Prompt:         "actions " + shortHash(commit),
		Header:         "enter runs the action, esc returns to the log",
		Lines:          d.registry.Lines(),
		Preview:        Command(d.opts.Executable, ModeMenuPreview),
		PreviewPercent: d.opts.Config.PreviewHeight,
		Bindings:       MenuBindings(d.opts.Executable, d.registry),
		Nested:         nested,
		ParentMouse:    d.opts.Config.Helper.Mouse,
		Env:            env,
	}

	// break closes this menu; exit closes it too and travels upward.
	w := ch.Watch(func(string) { p.Interrupt() })
	_, runErr := p.Run(ctx, req)
	w.Stop()
	w.Wait()
	if runErr != nil {
		return runErr
	}

	lines, err := ch.Drain()
	if err != nil {
		return err
	}
	return d.settle(ctx, ch.Path(), lines)
}

// settle hands what the nested picker's helpers queued to the parent level,
// or runs it here when this menu is the outermost level.
func (d *Dispatcher) settle(ctx context.Context, from string, lines []string) error {
	if d.parent != nil {
		n, err := channel.Forward(lines, d.parent)
		if err != nil {
			return err
		}
		events.Channel.Forward(from, d.parent.Path(), n)
		return nil
	}
	return channel.Replay(ctx, channel.Classify(lines).Commands, d.opts.Stdio)
}

func (d *Dispatcher) flushLocal(ctx context.Context) error {
	if d.local == nil || len(d.local.commands) == 0 {
		return nil
	}
	commands := d.local.commands
	d.local.commands = nil
	return channel.Replay(ctx, commands, d.opts.Stdio)
}

// MenuBindings binds enter and every action's key inside the action menu.
func MenuBindings(exe string, reg *menu.Registry) []picker.Binding {
	bindings := []picker.Binding{{Key: "enter", Command: Command(exe, ModeMenuItem)}}
	for _, desc := range reg.Descriptors() {
		bindings = append(bindings, picker.Binding{
			Key:     desc.Key,
			Command: Command(exe, ModeMenuItem, string(desc.ID)),
		})
	}
	return bindings
}

// localQueue collects deferred commands for a helper that has no parent
// channel, so they can run once it finishes.
type localQueue struct {
	commands []string
}

func (q *localQueue) Queue(argv ...string) error {
	if len(argv) == 0 {
		return errors.New("queue: empty command")
	}
	q.commands = append(q.commands, shellescape.QuoteCommand(argv))
	return nil
}

func (q *localQueue) Exit() error  { return nil }
func (q *localQueue) Break() error { return nil }

func shortHash(commit string) string {
	if len(commit) > gitlog.MinHashLength {
		return commit[:gitlog.MinHashLength]
	}
	return commit
}
