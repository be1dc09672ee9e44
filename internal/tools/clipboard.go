package tools

import (
	"fmt"
	"io"

	"github.com/atomicstack/commit-browser/internal/logging"
	"github.com/atomicstack/commit-browser/internal/tmux"
	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// CopyFunc places text on the clipboard.
type CopyFunc func(text string) error

var (
	clipboardUnsupported = func() bool { return clipboard.Unsupported }
	clipboardWrite       = clipboard.WriteAll
)

// Copy returns the clipboard binding: the system clipboard utility when one
// is installed, otherwise an OSC 52 escape written to the terminal.
func (a *Adapter) Copy() CopyFunc {
	return a.copy.get(func() CopyFunc {
		if clipboardUnsupported() {
			return a.osc52Copy
		}
		return func(text string) error {
			if err := clipboardWrite(text); err != nil {
				logging.Error(fmt.Errorf("system clipboard: %w", err))
				return a.osc52Copy(text)
			}
			return nil
		}
	})
}

func (a *Adapter) osc52Copy(text string) error {
	tty, err := a.opts.OpenTTY()
	if err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	defer tty.Close()
	return writeOSC52(tty.Out, text)
}

func writeOSC52(w io.Writer, text string) error {
	seq := osc52.New(text)
	if tmux.InSession() {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(w); err != nil {
		return fmt.Errorf("write osc52 sequence: %w", err)
	}
	return nil
}
