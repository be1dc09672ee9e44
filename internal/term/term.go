// Package term owns the shared terminal device: which screen buffer is
// active and whether mouse reporting is on. Anything that changes either
// must restore it before handing control back, including on signals.
package term

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	xterm "golang.org/x/term"
)

const (
	enterAltScreen = ansi.SetAltScreenSaveCursorMode
	exitAltScreen  = ansi.ResetAltScreenSaveCursorMode
	disableMouse   = ansi.ResetNormalMouseMode + ansi.ResetButtonEventMouseMode +
		ansi.ResetAnyEventMouseMode + ansi.ResetSgrExtMouseMode
	enableMouse = ansi.SetNormalMouseMode + ansi.SetButtonEventMouseMode + ansi.SetSgrExtMouseMode
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// TTY is the pair of descriptors used to draw on and read from the user's
// terminal.
type TTY struct {
	In    *os.File
	Out   *os.File
	owned bool
}

var openDevice = func() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// Open returns the terminal to draw on. Nested invocations, and any process
// whose stdio is redirected, talk to the controlling terminal directly
// because their stdout belongs to the parent picker.
func Open(nested bool) (*TTY, error) {
	if !nested && IsTerminal(os.Stdin) && IsTerminal(os.Stdout) {
		return &TTY{In: os.Stdin, Out: os.Stdout}, nil
	}
	dev, err := openDevice()
	if err != nil {
		return nil, fmt.Errorf("open controlling terminal: %w", err)
	}
	return &TTY{In: dev, Out: dev, owned: true}, nil
}

// Close releases the device when Open created it.
func (t *TTY) Close() error {
	if t == nil || !t.owned {
		return nil
	}
	t.owned = false
	return t.In.Close()
}

// Size reports the terminal dimensions, falling back to COLUMNS/LINES and
// finally 80x24.
func (t *TTY) Size() (int, int) {
	if t != nil && t.Out != nil {
		if w, h, err := xterm.GetSize(int(t.Out.Fd())); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return EnvSize()
}

// EnvSize reads COLUMNS and LINES.
func EnvSize() (int, int) {
	return envInt("COLUMNS", defaultWidth), envInt("LINES", defaultHeight)
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}

// Options selects the modes a Guard switches.
type Options struct {
	AltScreen bool
	// DisableMouse turns mouse reporting off for the takeover and back on
	// afterwards. Set it only when reporting was on before.
	DisableMouse bool
}

// Guard remembers which modes it switched so Restore can undo exactly those.
type Guard struct {
	mu       sync.Mutex
	out      io.Writer
	opts     Options
	restored bool
	children atomic.Int32
	signals  chan os.Signal
	done     chan struct{}
	stopped  chan struct{}
}

var exit = os.Exit

// Takeover switches the requested modes on out and installs a signal handler
// that restores them before the process dies. SIGINT is left to a child
// started through WhileChild.
func Takeover(out io.Writer, opts Options) *Guard {
	g := &Guard{out: out, opts: opts, done: make(chan struct{}), stopped: make(chan struct{})}
	if opts.AltScreen {
		io.WriteString(out, enterAltScreen)
	}
	if opts.DisableMouse {
		io.WriteString(out, disableMouse)
	}
	g.signals = make(chan os.Signal, 1)
	signal.Notify(g.signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	go g.watchSignals()
	return g
}

// NestedOptions is the policy for full-screen helpers. Under an active
// picker the helper must not switch buffers again; it only silences the
// picker's mouse reporting, and only when the picker had it on.
func NestedOptions(nested, mouse bool) Options {
	if nested {
		return Options{DisableMouse: mouse}
	}
	return Options{AltScreen: true}
}

// WhileChild runs fn, typically a pager sharing the terminal, with ctrl-c
// left to it: SIGINT reaches the whole foreground group and the child decides
// what it means.
func (g *Guard) WhileChild(fn func() error) error {
	if g == nil {
		return fn()
	}
	g.children.Add(1)
	defer g.children.Add(-1)
	return fn()
}

func (g *Guard) watchSignals() {
	defer close(g.stopped)
	for {
		select {
		case sig := <-g.signals:
			if sig == os.Interrupt && g.children.Load() > 0 {
				continue
			}
			g.Restore()
			code := 1
			if s, ok := sig.(syscall.Signal); ok {
				code = 128 + int(s)
			}
			exit(code)
			return
		case <-g.done:
			return
		}
	}
}

// Restore undoes the modes switched by Takeover. It is safe to call more
// than once.
func (g *Guard) Restore() {
	if g == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.restored {
		return
	}
	g.restored = true
	signal.Stop(g.signals)
	close(g.done)
	if g.opts.DisableMouse {
		io.WriteString(g.out, enableMouse)
	}
	if g.opts.AltScreen {
		io.WriteString(g.out, exitAltScreen)
	}
}

// IgnoreInterrupt swallows SIGINT until the returned function is called. A
// handler is installed rather than SIG_IGN so child processes still get the
// default disposition.
func IgnoreInterrupt() func() {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt)
	go func() {
		for {
			select {
			case <-sigs:
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
		})
	}
}
