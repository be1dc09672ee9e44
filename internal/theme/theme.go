package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles describes reusable Lip Gloss styles shared by the renderer and the
// built-in picker.
type Styles struct {
	Loading               *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Error                 *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
	PreviewTitle          *lipgloss.Style
	PreviewBody           *lipgloss.Style
	PreviewError          *lipgloss.Style
	PreviewBorder         *lipgloss.Style

	MetaLabel  *lipgloss.Style
	MetaValue  *lipgloss.Style
	Hash       *lipgloss.Style
	Subject    *lipgloss.Style
	Signed     *lipgloss.Style
	Unsigned   *lipgloss.Style
	DiffAdd    *lipgloss.Style
	DiffDelete *lipgloss.Style
	DiffHunk   *lipgloss.Style
	DiffHeader *lipgloss.Style
	BoxBorder  *lipgloss.Style
	BoxTitle   *lipgloss.Style
}

var defaultStyles = Styles{
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
	PreviewTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	PreviewBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	PreviewError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	PreviewBorder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	MetaLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	MetaValue: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	),
	Hash: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true),
	),
	Subject: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Signed: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	Unsigned: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	DiffAdd: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	DiffDelete: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	),
	DiffHunk: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
	),
	DiffHeader: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
	),
	BoxBorder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	BoxTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Render applies style to text, tolerating a nil style.
func Render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}

// ForceColor makes lipgloss emit ANSI colors even when stdout is a pipe, as
// it is for preview commands whose output the picker paints itself.
func ForceColor() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}
