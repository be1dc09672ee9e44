package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const pagerChromeRows = 2

// Pager is a scrollable read-only view of pre-rendered text.
type Pager struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

// NewPager builds a pager for content. Width and height may be zero until the
// first resize message arrives.
func NewPager(title, content string, width, height int) *Pager {
	p := &Pager{title: title, content: strings.TrimRight(content, "\n")}
	if width > 0 && height > 0 {
		p.resize(width, height)
	}
	return p
}

func (p *Pager) resize(width, height int) {
	h := height - pagerChromeRows
	if h < 1 {
		h = 1
	}
	if !p.ready {
		p.viewport = viewport.New(width, h)
		p.viewport.MouseWheelEnabled = true
		p.viewport.SetContent(p.content)
		p.ready = true
		return
	}
	p.viewport.Width = width
	p.viewport.Height = h
}

// Init is part of the tea.Model interface.
func (p *Pager) Init() tea.Cmd {
	return nil
}

// Update responds to Bubble Tea messages.
func (p *Pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.resize(msg.Width, msg.Height)
		return p, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return p, tea.Quit
		case "g", "home":
			p.viewport.GotoTop()
			return p, nil
		case "G", "end":
			p.viewport.GotoBottom()
			return p, nil
		}
	}
	if !p.ready {
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View implements tea.Model.
func (p *Pager) View() string {
	if !p.ready {
		return ""
	}
	header := renderStyle(styles.Header, p.title)
	footer := renderStyle(styles.Footer, fmt.Sprintf("q quit  g/G top/bottom  %3.f%%", p.viewport.ScrollPercent()*100))
	return header + "\n" + p.viewport.View() + "\n" + footer
}

// RunPager shows content until the user quits.
func RunPager(ctx context.Context, title, content string, popts ProgramOptions) error {
	program := tea.NewProgram(NewPager(title, content, 0, 0), popts.teaOptions(ctx)...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run pager: %w", err)
	}
	return nil
}
