package tools

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atomicstack/commit-browser/internal/term"
	"github.com/atomicstack/commit-browser/internal/ui"
)

// PageFunc shows content full screen and returns once the user is done.
type PageFunc func(ctx context.Context, title, content string) error

var runPager = ui.RunPager

// Page returns the pager binding: less when installed, the built-in pager on
// a terminal, otherwise plain output.
func (a *Adapter) Page() PageFunc {
	return a.page.get(func() PageFunc {
		if a.opts.Inline {
			return func(_ context.Context, _, content string) error { return a.writePlain(content) }
		}
		if path, ok := a.Find(Pagers...); ok {
			return a.lessPager(path)
		}
		return a.builtinPager
	})
}

func (a *Adapter) lessPager(path string) PageFunc {
	return func(ctx context.Context, title, content string) error {
		tty, err := a.opts.OpenTTY()
		if err != nil {
			return a.writePlain(content)
		}
		defer tty.Close()
		guard := term.Takeover(tty.Out, term.NestedOptions(a.opts.Nested, a.opts.Mouse))
		defer guard.Restore()
		cmd := execCommand(ctx, path, "-R", "--prompt="+lessPrompt(title))
		cmd.Stdin = strings.NewReader(content)
		cmd.Stdout = tty.Out
		cmd.Stderr = a.opts.Stderr
		if err := guard.WhileChild(cmd.Run); err != nil {
			return fmt.Errorf("run %s: %w", path, err)
		}
		return nil
	}
}

func (a *Adapter) builtinPager(ctx context.Context, title, content string) error {
	tty, err := a.opts.OpenTTY()
	if err != nil || !term.IsTerminal(tty.Out) {
		if tty != nil {
			tty.Close()
		}
		return a.writePlain(content)
	}
	defer tty.Close()
	guard := term.Takeover(tty.Out, term.NestedOptions(a.opts.Nested, a.opts.Mouse))
	defer guard.Restore()
	return runPager(ctx, title, content, ui.ProgramOptions{Input: tty.In, Output: tty.Out})
}

func (a *Adapter) writePlain(content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	_, err := io.WriteString(a.opts.Stdout, content)
	return err
}

// lessPrompt escapes the characters less treats specially in prompts.
func lessPrompt(title string) string {
	r := strings.NewReplacer(`\`, `\\`, "?", `\?`, ":", `\:`, ".", `\.`, "%", `\%`)
	return r.Replace(title) + " (q to quit)"
}
