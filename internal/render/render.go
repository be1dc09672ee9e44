// Package render formats commit data for the preview window, the pager and
// the menu.
package render

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/commit-browser/internal/git"
	"github.com/atomicstack/commit-browser/internal/term"
	"github.com/atomicstack/commit-browser/internal/theme"
	"github.com/atomicstack/commit-browser/internal/tools"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

const dateLayout = "2006-01-02 15:04 -0700"

// Options configures a Renderer.
type Options struct {
	Highlight tools.HighlightFunc
	Colorize  tools.ColorizeFunc
	Boxed     bool
	// Width of the area being drawn into; zero means detect it.
	Width int
	Now   func() time.Time
}

// Renderer turns git data into display text.
type Renderer struct {
	styles    *theme.Styles
	highlight tools.HighlightFunc
	colorize  tools.ColorizeFunc
	boxed     bool
	width     int
	now       func() time.Time
}

// New builds a Renderer. Missing functions fall back to plain output.
func New(opts Options) *Renderer {
	r := &Renderer{
		styles:    theme.Default(),
		highlight: opts.Highlight,
		colorize:  opts.Colorize,
		boxed:     opts.Boxed,
		width:     opts.Width,
		now:       opts.Now,
	}
	if r.highlight == nil {
		r.highlight = func(_ context.Context, text, _ string) string { return text }
	}
	if r.colorize == nil {
		r.colorize = tools.ColorizeUnified
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.width <= 0 {
		r.width = PreviewWidth()
	}
	return r
}

// PreviewWidth is the width of the preview window when running under the
// fuzzy finder, otherwise the terminal width.
func PreviewWidth() int {
	if v, err := strconv.Atoi(os.Getenv("FZF_PREVIEW_COLUMNS")); err == nil && v > 0 {
		return v
	}
	w, _ := term.EnvSize()
	return w
}

// Width reports the width the renderer lays out for.
func (r *Renderer) Width() int {
	return r.width
}

// Metadata renders the header block of a commit. verdict is the signature
// verification summary and may be empty.
func (r *Renderer) Metadata(m git.Metadata, verdict string) string {
	var b strings.Builder
	r.field(&b, "commit", theme.Render(r.styles.Hash, m.Hash))
	r.field(&b, "author", r.signature(m.Author))
	if m.Committer.Name != m.Author.Name || m.Committer.Email != m.Author.Email {
		r.field(&b, "committer", r.signature(m.Committer))
	}
	if len(m.Parents) > 0 {
		short := make([]string, len(m.Parents))
		for i, p := range m.Parents {
			short[i] = abbreviate(p)
		}
		r.field(&b, "parents", strings.Join(short, " "))
	}
	if m.Signed {
		status := "signed"
		if verdict != "" {
			status += ", " + verdict
		}
		r.field(&b, "signature", theme.Render(r.styles.Signed, status))
	} else {
		r.field(&b, "signature", theme.Render(r.styles.Unsigned, "none"))
	}
	b.WriteString("\n")
	b.WriteString(theme.Render(r.styles.Subject, m.Subject))
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n", theme.Render(r.styles.MetaLabel, fmt.Sprintf("%-10s", label+":")), value)
}

func (r *Renderer) signature(s git.Signature) string {
	who := theme.Render(r.styles.MetaValue, fmt.Sprintf("%s <%s>", s.Name, s.Email))
	if s.When.IsZero() {
		return who
	}
	when := humanize.RelTime(s.When, r.now(), "ago", "from now")
	return fmt.Sprintf("%s  %s (%s)", who, s.When.Format(dateLayout), when)
}

// Message renders the full commit message with highlighting.
func (r *Renderer) Message(ctx context.Context, message string) string {
	return r.highlight(ctx, strings.TrimRight(message, "\n")+"\n", "markdown")
}

// DiffStat renders `git show --stat --oneline` output without its first
// line, which repeats the subject already shown in the metadata.
func (r *Renderer) DiffStat(stat string) string {
	return DropFirstLine(stat)
}

// Diff colours a plain patch.
func (r *Renderer) Diff(ctx context.Context, patch string) string {
	return r.colorize(ctx, patch, r.width)
}

// Preview is the commit preview: metadata followed by the diffstat.
func (r *Renderer) Preview(m git.Metadata, verdict, stat string) string {
	body := r.Metadata(m, verdict)
	if s := strings.TrimRight(r.DiffStat(stat), "\n"); s != "" {
		body += "\n" + s + "\n"
	}
	return r.Frame(m.Short(), body)
}

// Show is the full commit view used by the pager.
func (r *Renderer) Show(ctx context.Context, m git.Metadata, verdict, patch string) string {
	var b strings.Builder
	b.WriteString(r.Metadata(m, verdict))
	if body := strings.TrimSpace(m.Body); body != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(r.Message(ctx, body), "\n"))
		b.WriteString("\n")
	}
	if patch != "" {
		b.WriteString("\n")
		b.WriteString(r.Diff(ctx, patch))
	}
	return b.String()
}

// Frame wraps body in a titled rounded border when boxed mode is on.
func (r *Renderer) Frame(title, body string) string {
	if !r.boxed {
		return body
	}
	return r.Box(title, body)
}

// Box draws body inside a rounded border exactly Width columns wide. Lines
// that do not fit are truncated rather than wrapped.
func (r *Renderer) Box(title, body string) string {
	inner := r.width - 4
	if inner < 1 {
		inner = 1
	}
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if title != "" {
		lines = append([]string{theme.Render(r.styles.BoxTitle, title)}, lines...)
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, inner, "…")
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(inner + 2)
	if r.styles.BoxBorder != nil {
		style = style.BorderForeground(r.styles.BoxBorder.GetForeground())
	}
	return style.Render(strings.Join(lines, "\n")) + "\n"
}

// DropFirstLine removes the first line of s.
func DropFirstLine(s string) string {
	_, rest, found := strings.Cut(s, "\n")
	if !found {
		return ""
	}
	return rest
}

func abbreviate(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
