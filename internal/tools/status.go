package tools

import (
	"fmt"

	"github.com/atomicstack/commit-browser/internal/logging"
	"github.com/atomicstack/commit-browser/internal/tmux"
)

// StatusFunc shows a one-line message to the user without taking over the
// screen.
type StatusFunc func(msg string)

var displayMessage = tmux.DisplayMessage

// Status returns the status-line binding: the multiplexer's message line
// inside a tmux session, stderr everywhere else.
func (a *Adapter) Status() StatusFunc {
	return a.status.get(func() StatusFunc {
		if tmux.InSession() {
			if _, ok := a.Find(Multiplexers...); ok {
				socket := tmux.SocketPath()
				return func(msg string) {
					if err := displayMessage(socket, msg); err != nil {
						logging.Error(err)
						a.stderrStatus(msg)
					}
				}
			}
		}
		return a.stderrStatus
	})
}

func (a *Adapter) stderrStatus(msg string) {
	fmt.Fprintln(a.opts.Stderr, msg)
}
