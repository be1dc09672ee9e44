package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atomicstack/commit-browser/internal/channel"
	"github.com/atomicstack/commit-browser/internal/config"
	"github.com/atomicstack/commit-browser/internal/picker"
	"github.com/atomicstack/commit-browser/internal/testutil"
)

type scriptedPicker struct {
	req        picker.Request
	interrupts atomic.Int32
	run        func(req picker.Request)
	// stop, when set, keeps Run going until Interrupt closes it.
	stop     chan struct{}
	stopOnce sync.Once
}

func blockingPicker(run func(req picker.Request)) *scriptedPicker {
	return &scriptedPicker{run: run, stop: make(chan struct{})}
}

func (p *scriptedPicker) Kind() picker.Kind { return picker.KindFZF }

func (p *scriptedPicker) Run(_ context.Context, req picker.Request) (picker.Result, error) {
	p.req = req
	if p.run != nil {
		p.run(req)
	}
	if p.stop != nil {
		select {
		case <-p.stop:
		case <-time.After(5 * time.Second):
			return picker.Result{}, errors.New("picker was never interrupted")
		}
	}
	return picker.Result{Interrupted: true}, nil
}

func (p *scriptedPicker) Interrupt() bool {
	p.interrupts.Add(1)
	if p.stop != nil {
		p.stopOnce.Do(func() { close(p.stop) })
	}
	return true
}

func channelWriter(req picker.Request) *channel.Writer {
	for _, kv := range req.Env {
		if strings.HasPrefix(kv, config.EnvChannel+"=") {
			return channel.NewWriter(strings.TrimPrefix(kv, config.EnvChannel+"="))
		}
	}
	return nil
}

func stubSession(t *testing.T, p *scriptedPicker) *bytes.Buffer {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("sh not available")
	}
	origPicker, origExe, origStdio := newPicker, executable, stdio
	var out bytes.Buffer
	newPicker = func(config.Config) picker.Picker { return p }
	executable = func() (string, error) { return "/usr/local/bin/commit-browser", nil }
	stdio = channel.Stdio{Out: &out, Err: &out}
	t.Cleanup(func() { newPicker, executable, stdio = origPicker, origExe, origStdio })
	return &out
}

func testConfig(dir string) config.Config {
	return config.Config{Repo: dir, PreviewHeight: 60, Picker: "auto"}
}

func TestRunReplaysDeferredCommandsInOrder(t *testing.T) {
	fixture := testutil.InitRepo(t)
	fixture.Commit("Initial commit", map[string]string{"a.txt": "a\n"})
	p := &scriptedPicker{run: func(req picker.Request) {
		w := channelWriter(req)
		w.Queue("echo", "A")
		w.Queue("echo", "B")
		w.Exit()
	}}
	out := stubSession(t, p)

	if err := Run(context.Background(), testConfig(fixture.Dir)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "A\nB\n" {
		t.Fatalf("expected A then B, got %q", out.String())
	}
	if len(p.req.Lines) != 1 || !strings.Contains(p.req.Lines[0], "Initial commit") {
		t.Fatalf("picker should list the log, got %q", p.req.Lines)
	}
}

func TestRunWithoutDeferredCommands(t *testing.T) {
	fixture := testutil.InitRepo(t)
	fixture.Commit("Initial commit", nil)
	out := stubSession(t, &scriptedPicker{})
	if err := Run(context.Background(), testConfig(fixture.Dir)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunPropagatesDeferredFailure(t *testing.T) {
	fixture := testutil.InitRepo(t)
	fixture.Commit("Initial commit", nil)
	p := &scriptedPicker{run: func(req picker.Request) {
		channelWriter(req).Queue("sh", "-c", "exit 4")
	}}
	stubSession(t, p)
	err := Run(context.Background(), testConfig(fixture.Dir))
	var exitErr interface{ ExitCode() int }
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 4 {
		t.Fatalf("expected exit status 4, got %v", err)
	}
}

func TestRunRejectsUnknownRef(t *testing.T) {
	fixture := testutil.InitRepo(t)
	fixture.Commit("Initial commit", nil)
	stubSession(t, &scriptedPicker{})
	cfg := testConfig(fixture.Dir)
	cfg.Ref = "no-such-branch"
	if err := Run(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown ref")
	}
}

func TestTopLevelRequest(t *testing.T) {
	req := TopLevelRequest("/bin/cb", config.Config{Repo: "/repo", PreviewHeight: 45, Picker: "auto"}, "/tmp/chan", "main", []string{"* a1b2c3d x"})
	if req.Preview != "COMMIT_BROWSER_HELPER=preview /bin/cb" || req.PreviewPercent != 45 {
		t.Fatalf("unexpected preview %q %d", req.Preview, req.PreviewPercent)
	}
	if req.Nested {
		t.Fatalf("top level must not be nested")
	}
	keys := map[string]string{}
	for _, b := range req.Bindings {
		keys[b.Key] = b.Command
	}
	if keys["enter"] != "COMMIT_BROWSER_HELPER=menu /bin/cb" {
		t.Fatalf("enter should open the menu, got %q", keys["enter"])
	}
	if keys["ctrl-r"] != "COMMIT_BROWSER_HELPER=menu-item /bin/cb rebase" {
		t.Fatalf("ctrl-r should rebase, got %q", keys["ctrl-r"])
	}
	for _, want := range []string{config.EnvChannel + "=/tmp/chan", config.EnvDepth + "=1", config.EnvRef + "=main", config.EnvRepo + "=/repo", config.EnvMouse + "=true"} {
		found := false
		for _, kv := range req.Env {
			if kv == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing %q in %q", want, req.Env)
		}
	}
}

func TestBreakDoesNotCloseTopLevel(t *testing.T) {
	ch, err := channel.Create(t.TempDir())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p := &scriptedPicker{run: func(picker.Request) {
		channel.NewWriter(ch.Path()).Break()
	}}
	stubSession(t, p)
	if err := runLevel(context.Background(), p, picker.Request{}, ch); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := p.interrupts.Load(); n != 0 {
		t.Fatalf("break interrupted the top-level picker %d times", n)
	}
}

func TestExitInterruptsTopLevelThenReplays(t *testing.T) {
	ch, err := channel.Create(t.TempDir())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p := blockingPicker(func(picker.Request) {
		w := channel.NewWriter(ch.Path())
		w.Queue("echo", "A")
		w.Exit()
	})
	out := stubSession(t, p)
	if err := runLevel(context.Background(), p, picker.Request{}, ch); err != nil {
		t.Fatalf("run: %v", err)
	}
	if p.interrupts.Load() == 0 {
		t.Fatalf("exit should interrupt the top-level picker")
	}
	if out.String() != "A\n" {
		t.Fatalf("expected queued command replayed after exit, got %q", out.String())
	}
}
