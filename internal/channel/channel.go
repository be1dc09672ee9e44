// Package channel is the side channel between a picker level and the helpers
// its picker spawns. Helpers append shell-escaped commands, one per line; the
// level reads them back only after its picker has exited.
package channel

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alessio/shellescape"
	"github.com/atomicstack/commit-browser/internal/logging/events"
)

// Reserved control commands.
const (
	// Break closes the nested menu that receives it.
	Break = "break"
	// Exit ends the whole session and propagates to every level above.
	Exit = "exit"
)

// IsControl reports whether line is a reserved control command.
func IsControl(line string) bool {
	switch strings.TrimSpace(line) {
	case Break, Exit:
		return true
	}
	return false
}

// Writer appends commands to a channel file. It is safe to use from a
// different process than the one reading the channel.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter returns a writer for the channel at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the channel file.
func (w *Writer) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

// Queue appends argv as one command line, each word shell-escaped.
func (w *Writer) Queue(argv ...string) error {
	if len(argv) == 0 {
		return errors.New("queue: empty command")
	}
	line := shellescape.QuoteCommand(argv)
	if err := w.appendLines(line); err != nil {
		return err
	}
	events.Channel.Queue(w.path, line)
	return nil
}

// Break queues the break control command.
func (w *Writer) Break() error {
	return w.control(Break)
}

// Exit queues the exit control command.
func (w *Writer) Exit() error {
	return w.control(Exit)
}

func (w *Writer) control(cmd string) error {
	if err := w.appendLines(cmd); err != nil {
		return err
	}
	events.Channel.Control(w.path, cmd)
	return nil
}

// appendLines writes already escaped lines in a single write so that
// concurrent writers never interleave within a line.
func (w *Writer) appendLines(lines ...string) error {
	if w == nil || w.path == "" {
		return errors.New("deferred command channel not set")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	payload := strings.Join(lines, "\n") + "\n"
	if _, err := f.WriteString(payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("write channel: %w", err)
	}
	return f.Close()
}

// Channel is the reading end owned by one picker level.
type Channel struct {
	path string
}

// Create makes a fresh, empty channel file in dir (the system temp dir when
// dir is empty).
func Create(dir string) (*Channel, error) {
	f, err := os.CreateTemp(dir, "commit-browser-*.cmds")
	if err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("create channel: %w", err)
	}
	return &Channel{path: path}, nil
}

// Path returns the channel file handed to child helpers.
func (c *Channel) Path() string {
	return c.path
}

// Drain returns every complete line queued so far, in arrival order.
func (c *Channel) Drain() ([]string, error) {
	lines, _, err := readFrom(c.path, 0)
	return lines, err
}

// Remove deletes the channel file.
func (c *Channel) Remove() error {
	err := os.Remove(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// readFrom returns the complete lines after offset and the offset just past
// the last one. A trailing partial line is left for the next read.
func readFrom(path string, offset int64) ([]string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, offset, err
	}
	defer f.Close()
	if _, err := f.Seek(offset, 0); err != nil {
		return nil, offset, err
	}
	var lines []string
	r := bufio.NewReader(f)
	for {
		chunk, err := r.ReadString('\n')
		if err != nil {
			break
		}
		offset += int64(len(chunk))
		if line := strings.TrimRight(chunk, "\r\n"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, offset, nil
}
