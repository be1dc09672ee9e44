package term

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestTakeoverAndRestoreAltScreen(t *testing.T) {
	var buf bytes.Buffer
	g := Takeover(&buf, NestedOptions(false, true))
	if got := buf.String(); got != enterAltScreen {
		t.Fatalf("expected alt screen enter, got %q", got)
	}
	buf.Reset()
	g.Restore()
	g.Restore()
	if got := buf.String(); got != exitAltScreen {
		t.Fatalf("expected single alt screen exit, got %q", got)
	}
}

func TestNestedTakeoverOnlyTouchesMouse(t *testing.T) {
	var buf bytes.Buffer
	g := Takeover(&buf, NestedOptions(true, true))
	if strings.Contains(buf.String(), enterAltScreen) {
		t.Fatalf("nested takeover must not switch buffers: %q", buf.String())
	}
	if buf.String() != disableMouse {
		t.Fatalf("expected mouse disable, got %q", buf.String())
	}
	buf.Reset()
	g.Restore()
	if buf.String() != enableMouse {
		t.Fatalf("expected mouse restore, got %q", buf.String())
	}
}

func TestNestedTakeoverLeavesMouseOffWhenParentHadItOff(t *testing.T) {
	var buf bytes.Buffer
	g := Takeover(&buf, NestedOptions(true, false))
	g.Restore()
	if buf.Len() != 0 {
		t.Fatalf("expected no mouse sequences, got %q", buf.String())
	}
}

func stubExit(t *testing.T) chan int {
	t.Helper()
	codes := make(chan int, 4)
	prev := exit
	exit = func(code int) { codes <- code }
	t.Cleanup(func() { exit = prev })
	return codes
}

func TestInterruptRestoresAndExits130(t *testing.T) {
	codes := stubExit(t)
	var buf bytes.Buffer
	g := Takeover(&buf, Options{AltScreen: true, DisableMouse: true})
	g.signals <- os.Interrupt

	select {
	case code := <-codes:
		if code != 130 {
			t.Fatalf("expected exit 130, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("guard did not exit on SIGINT")
	}
	<-g.stopped
	want := enterAltScreen + disableMouse + enableMouse + exitAltScreen
	if buf.String() != want {
		t.Fatalf("expected terminal restored before exit, got %q", buf.String())
	}
}

func TestInterruptIsLeftToRunningChild(t *testing.T) {
	codes := stubExit(t)
	var buf bytes.Buffer
	g := Takeover(&buf, Options{AltScreen: true})

	err := g.WhileChild(func() error {
		g.signals <- os.Interrupt
		// The second send only completes once the first was handled.
		select {
		case g.signals <- os.Interrupt:
		case <-time.After(2 * time.Second):
			t.Fatalf("guard stopped watching after SIGINT during child")
		}
		select {
		case code := <-codes:
			t.Fatalf("guard exited %d while a child owned ctrl-c", code)
		default:
		}
		if strings.Contains(buf.String(), exitAltScreen) {
			t.Fatalf("terminal restored while child was running")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	g.Restore()
	<-g.stopped
}

func TestWhileChildOnNilGuardRunsChild(t *testing.T) {
	var g *Guard
	ran := false
	if err := g.WhileChild(func() error { ran = true; return nil }); err != nil || !ran {
		t.Fatalf("expected child to run, ran=%v err=%v", ran, err)
	}
}

func TestRestoreOnNilGuardIsNoop(t *testing.T) {
	var g *Guard
	g.Restore()
}

func TestOpenNestedUsesControllingTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tty")
	if err != nil {
		t.Fatalf("temp: %v", err)
	}
	prev := openDevice
	openDevice = func() (*os.File, error) { return f, nil }
	t.Cleanup(func() { openDevice = prev })

	tty, err := Open(true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if tty.Out != f || tty.In != f {
		t.Fatalf("expected controlling terminal handle")
	}
	if err := tty.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := tty.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
}

func TestOpenReportsMissingTerminal(t *testing.T) {
	prev := openDevice
	openDevice = func() (*os.File, error) { return nil, errors.New("no tty") }
	t.Cleanup(func() { openDevice = prev })
	if _, err := Open(true); err == nil {
		t.Fatalf("expected error without a controlling terminal")
	}
}

func TestEnvSizeFallsBack(t *testing.T) {
	t.Setenv("COLUMNS", "")
	t.Setenv("LINES", "oops")
	w, h := EnvSize()
	if w != defaultWidth || h != defaultHeight {
		t.Fatalf("expected defaults, got %dx%d", w, h)
	}
	t.Setenv("COLUMNS", "132")
	t.Setenv("LINES", "40")
	w, h = EnvSize()
	if w != 132 || h != 40 {
		t.Fatalf("expected 132x40, got %dx%d", w, h)
	}
}

func TestIgnoreInterruptStopIsIdempotent(t *testing.T) {
	stop := IgnoreInterrupt()
	stop()
	stop()
}
