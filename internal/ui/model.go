package ui

import (
	"os/exec"
	"reflect"
	"strings"

	"github.com/atomicstack/commit-browser/internal/theme"
	uistate "github.com/atomicstack/commit-browser/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultPreviewPercent = 60
	defaultTitle          = "commits"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// PreviewFunc renders the preview for line into a panel of the given size.
type PreviewFunc func(line string, width, height int) (string, error)

// CommandFunc builds the command a binding runs for line. The command gets
// the whole terminal while it runs.
type CommandFunc func(line string) *exec.Cmd

// Binding attaches behaviour to a key. Exactly one of Command, Accept and
// TogglePreview is expected to be set.
type Binding struct {
	Key           string
	Command       CommandFunc
	Accept        bool
	TogglePreview bool
}

// Options configures a picker.
type Options struct {
	Title          string
	Header         string
	Lines          []string
	Preview        PreviewFunc
	PreviewPercent int
	PreviewHidden  bool
	Bindings       []Binding
	Width          int
	Height         int
	ShowFooter     bool
}

// Result describes how the picker ended.
type Result struct {
	Selected    string
	Accepted    bool
	Interrupted bool
}

// Model implements the Bubble Tea model for the line picker.
type Model struct {
	list              *uistate.List
	title             string
	header            string
	errMsg            string
	width             int
	height            int
	fixedWidth        bool
	fixedHeight       bool
	showFooter        bool
	filterCursor      cursor.Model
	filterCursorDirty bool

	previewFn      PreviewFunc
	preview        *previewData
	previewSeq     int
	previewPercent int
	previewHidden  bool

	bindings map[string]Binding
	running  bool
	result   Result

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the picker state for opts.
func NewModel(opts Options) *Model {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = defaultTitle
	}
	percent := opts.PreviewPercent
	if percent <= 0 || percent > 100 {
		percent = defaultPreviewPercent
	}
	m := &Model{
		list:           uistate.NewList(uistate.ItemsFromLines(opts.Lines)),
		title:          title,
		header:         opts.Header,
		showFooter:     opts.ShowFooter,
		previewFn:      opts.Preview,
		previewPercent: percent,
		previewHidden:  opts.PreviewHidden,
		bindings:       make(map[string]Binding, len(opts.Bindings)),
	}
	for _, b := range opts.Bindings {
		if b.Key == "" {
			continue
		}
		m.bindings[b.Key] = b
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if cmd := m.ensurePreview(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

// Result reports the outcome once the program has quit.
func (m *Model) Result() Result {
	return m.result
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(previewLoadedMsg{}):  m.handlePreviewLoadedMsg,
		reflect.TypeOf(execFinishedMsg{}):   m.handleExecFinishedMsg,
		reflect.TypeOf(interruptMsg{}):      m.handleInterruptMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
