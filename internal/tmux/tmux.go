// Package tmux sends single-line status messages to the enclosing tmux
// client. It is only used when the commit browser runs inside tmux.
package tmux

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type commander interface {
	Run() error
}

type realCommander struct {
	cmd *exec.Cmd
}

func (r realCommander) Run() error {
	return r.cmd.Run()
}

var (
	runExecCommand = func(name string, args ...string) commander {
		return realCommander{cmd: exec.Command(name, args...)}
	}
	getenv = os.Getenv
)

// InSession reports whether the process runs inside a tmux client.
func InSession() bool {
	return strings.TrimSpace(getenv("TMUX")) != ""
}

// SocketPath returns the server socket recorded in $TMUX.
func SocketPath() string {
	value := strings.TrimSpace(getenv("TMUX"))
	if value == "" {
		return ""
	}
	socket, _, _ := strings.Cut(value, ",")
	return socket
}

func baseArgs(socketPath string) []string {
	if strings.TrimSpace(socketPath) == "" {
		return []string{}
	}
	return []string{"-S", socketPath}
}

// DisplayMessage shows msg on the status line of the client owning
// $TMUX_PANE.
func DisplayMessage(socketPath, msg string) error {
	args := baseArgs(socketPath)
	if pane := strings.TrimSpace(getenv("TMUX_PANE")); pane != "" {
		args = append(args, "display-message", "-t", pane, "--", escapeFormat(msg))
	} else {
		args = append(args, "display-message", "--", escapeFormat(msg))
	}
	if err := runExecCommand("tmux", args...).Run(); err != nil {
		return fmt.Errorf("tmux display-message: %w", err)
	}
	return nil
}

// tmux expands #{...} formats in display-message; a literal # must be doubled.
func escapeFormat(msg string) string {
	return strings.ReplaceAll(msg, "#", "##")
}
