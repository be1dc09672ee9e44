package channel

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/atomicstack/commit-browser/internal/logging/events"
)

// Drained is the classified content of a channel after its picker exited.
type Drained struct {
	// Commands are the queued shell commands in arrival order.
	Commands []string
	Break    bool
	Exit     bool
}

// Classify separates control lines from queued commands.
func Classify(lines []string) Drained {
	var d Drained
	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case Break:
			d.Break = true
		case Exit:
			d.Exit = true
		default:
			d.Commands = append(d.Commands, line)
		}
	}
	return d
}

// Forward re-queues lines on the parent channel in their original order.
// Break is consumed by the level that received it; exit and every queued
// command travel upward. It returns how many lines were forwarded.
func Forward(lines []string, parent *Writer) (int, error) {
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) == Break {
			continue
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return 0, nil
	}
	if err := parent.appendLines(out...); err != nil {
		return 0, err
	}
	return len(out), nil
}

// Stdio is the standard streams replayed commands run with.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

var shellCommand = func(ctx context.Context, line string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", line)
}

// Replay runs commands through the shell one after another, in order. It
// stops at the first failing command and returns its error.
func Replay(ctx context.Context, commands []string, stdio Stdio) error {
	for _, line := range commands {
		cmd := shellCommand(ctx, line)
		cmd.Stdin = stdio.In
		cmd.Stdout = stdio.Out
		cmd.Stderr = stdio.Err
		err := cmd.Run()
		events.Channel.Replay(line, err)
		if err != nil {
			return fmt.Errorf("deferred command %q: %w", line, err)
		}
	}
	return nil
}
