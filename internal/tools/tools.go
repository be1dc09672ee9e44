// Package tools detects the optional external programs the browser can use
// and binds each feature to the real tool or to an in-process fallback. Every
// binding is resolved at most once per process.
package tools

import (
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/atomicstack/commit-browser/internal/logging/events"
	"github.com/atomicstack/commit-browser/internal/term"
)

// Tool names probed on PATH, in order of preference per feature.
var (
	FuzzyFinders   = []string{"fzf"}
	Pagers         = []string{"less"}
	Highlighters   = []string{"bat", "batcat"}
	DiffColorizers = []string{"delta", "diff-so-fancy"}
	Multiplexers   = []string{"tmux"}
)

var execCommand = exec.CommandContext

// lazy memoizes one binding.
type lazy[F any] struct {
	once sync.Once
	fn   F
}

func (l *lazy[F]) get(bind func() F) F {
	l.once.Do(func() { l.fn = bind() })
	return l.fn
}

// Options tunes how bindings are chosen.
type Options struct {
	// NoHighlight disables syntax highlighting entirely.
	NoHighlight bool
	// Nested reports that a picker already owns the terminal.
	Nested bool
	// Mouse reports that the enclosing picker has mouse reporting on.
	Mouse bool
	// Inline keeps the pager off the terminal; content goes to Stdout.
	Inline bool
	// LookPath overrides exec.LookPath.
	LookPath func(string) (string, error)
	// OpenTTY overrides how the controlling terminal is opened.
	OpenTTY func() (*term.TTY, error)
	Stdout  io.Writer
	Stderr  io.Writer
}

// Adapter hands out feature bindings.
type Adapter struct {
	opts Options

	probeMu sync.Mutex
	probes  map[string]*lazy[string]

	highlight lazy[HighlightFunc]
	colorize  lazy[ColorizeFunc]
	page      lazy[PageFunc]
	copy      lazy[CopyFunc]
	status    lazy[StatusFunc]
}

// New returns an adapter with nothing probed yet.
func New(opts Options) *Adapter {
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.OpenTTY == nil {
		nested := opts.Nested
		opts.OpenTTY = func() (*term.TTY, error) { return term.Open(nested) }
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Adapter{opts: opts, probes: make(map[string]*lazy[string])}
}

// Find returns the first of names present on PATH. The result for a given
// name is looked up once.
func (a *Adapter) Find(names ...string) (string, bool) {
	for _, name := range names {
		if path := a.probe(name); path != "" {
			return path, true
		}
	}
	return "", false
}

func (a *Adapter) probe(name string) string {
	a.probeMu.Lock()
	p, ok := a.probes[name]
	if !ok {
		p = &lazy[string]{}
		a.probes[name] = p
	}
	a.probeMu.Unlock()
	return p.get(func() string {
		path, err := a.opts.LookPath(name)
		if err != nil {
			path = ""
		}
		events.Tool.Probe(name, path, path != "")
		return path
	})
}

// FuzzyFinder returns the path of the external fuzzy finder.
func (a *Adapter) FuzzyFinder() (string, bool) {
	return a.Find(FuzzyFinders...)
}
