package channel

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newTestChannel(t *testing.T) *Channel {
	t.Helper()
	ch, err := Create(t.TempDir())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return ch
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestQueueEscapesEachWord(t *testing.T) {
	ch := newTestChannel(t)
	w := NewWriter(ch.Path())
	if err := w.Queue("git", "-C", "/tmp/my repo", "cherry-pick", "abc1234"); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := w.Exit(); err != nil {
		t.Fatalf("exit: %v", err)
	}
	lines, err := ch.Drain()
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	want := []string{"git -C '/tmp/my repo' cherry-pick abc1234", "exit"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
}

func TestQueueRejectsEmptyCommand(t *testing.T) {
	if err := NewWriter(newTestChannel(t).Path()).Queue(); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestWriterWithoutChannelFails(t *testing.T) {
	var w *Writer
	if err := w.Break(); err == nil {
		t.Fatalf("expected error without a channel")
	}
}

func TestReplayRunsInQueuedOrder(t *testing.T) {
	requireShell(t)
	ch := newTestChannel(t)
	w := NewWriter(ch.Path())
	if err := w.Queue("echo", "A"); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := w.Queue("echo", "B"); err != nil {
		t.Fatalf("queue: %v", err)
	}
	lines, err := ch.Drain()
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	var out bytes.Buffer
	if err := Replay(context.Background(), Classify(lines).Commands, Stdio{Out: &out}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if out.String() != "A\nB\n" {
		t.Fatalf("expected A then B, got %q", out.String())
	}
}

func TestReplayStopsAtFirstFailure(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	err := Replay(context.Background(), []string{"echo one", "exit 3", "echo two"}, Stdio{Out: &out})
	if err == nil {
		t.Fatalf("expected failure")
	}
	var exitErr interface{ ExitCode() int }
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("expected exit status 3, got %v", err)
	}
	if out.String() != "one\n" {
		t.Fatalf("commands after the failure ran: %q", out.String())
	}
}

func TestClassifySeparatesControl(t *testing.T) {
	d := Classify([]string{"echo A", "break", "echo B", "exit"})
	if !d.Break || !d.Exit {
		t.Fatalf("expected break and exit, got %+v", d)
	}
	if !reflect.DeepEqual(d.Commands, []string{"echo A", "echo B"}) {
		t.Fatalf("unexpected commands %q", d.Commands)
	}
}

func TestForwardDropsBreakKeepsExit(t *testing.T) {
	parent := newTestChannel(t)
	n, err := Forward([]string{"echo A", "break", "exit"}, NewWriter(parent.Path()))
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 forwarded lines, got %d", n)
	}
	lines, _ := parent.Drain()
	if !reflect.DeepEqual(lines, []string{"echo A", "exit"}) {
		t.Fatalf("parent got %q", lines)
	}
	if n, err := Forward([]string{"break"}, NewWriter(parent.Path())); err != nil || n != 0 {
		t.Fatalf("break only forward = %d, %v", n, err)
	}
}

func TestDrainKeepsPartialLineForLater(t *testing.T) {
	ch := newTestChannel(t)
	if err := os.WriteFile(ch.Path(), []byte("echo A\necho B"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines, err := ch.Drain()
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"echo A"}) {
		t.Fatalf("lines = %q", lines)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ch := newTestChannel(t)
	if err := ch.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := ch.Remove(); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if _, err := os.Stat(ch.Path()); !os.IsNotExist(err) {
		t.Fatalf("channel file still present")
	}
}

func TestCreateUsesDir(t *testing.T) {
	dir := t.TempDir()
	ch, err := Create(dir)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Dir(ch.Path()) != dir {
		t.Fatalf("channel %s not under %s", ch.Path(), dir)
	}
}

func watchAndCollect(t *testing.T, ch *Channel) (*Watcher, func() []string) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []string
	)
	w := ch.Watch(func(cmd string) {
		mu.Lock()
		seen = append(seen, cmd)
		mu.Unlock()
	})
	t.Cleanup(func() {
		w.Stop()
		w.Wait()
	})
	return w, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), seen...)
	}
}

func waitFor(t *testing.T, get func() []string, want []string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if reflect.DeepEqual(get(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("control commands = %q, want %q", get(), want)
}

func TestWatchReportsControlCommands(t *testing.T) {
	ch := newTestChannel(t)
	_, seen := watchAndCollect(t, ch)
	w := NewWriter(ch.Path())
	if err := w.Queue("echo", "A"); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := w.Exit(); err != nil {
		t.Fatalf("exit: %v", err)
	}
	waitFor(t, seen, []string{Exit})
}

func TestWatchFallsBackToPolling(t *testing.T) {
	orig := newFSWatcher
	newFSWatcher = func() (*fsnotify.Watcher, error) {
		return nil, errors.New("inotify unavailable")
	}
	t.Cleanup(func() { newFSWatcher = orig })

	ch := newTestChannel(t)
	_, seen := watchAndCollect(t, ch)
	if err := NewWriter(ch.Path()).Break(); err != nil {
		t.Fatalf("break: %v", err)
	}
	waitFor(t, seen, []string{Break})
}

func TestThrottleStopsWhenDone(t *testing.T) {
	th := newThrottle(time.Hour)
	done := make(chan struct{})
	if !th.wait(done) {
		t.Fatalf("first wait should proceed immediately")
	}
	close(done)
	if th.wait(done) {
		t.Fatalf("wait should stop once done is closed")
	}
}
