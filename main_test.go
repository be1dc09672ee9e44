package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/commit-browser/internal/config"
	"github.com/atomicstack/commit-browser/internal/helper"
	"github.com/atomicstack/commit-browser/internal/logging"
)

func stubRunners(t *testing.T, appErr, helperErr error) *[]string {
	t.Helper()
	origApp, origHelper := runApp, runHelper
	var calls []string
	runApp = func(ctx context.Context, cfg config.Config) error {
		calls = append(calls, "app:"+cfg.Ref)
		return appErr
	}
	runHelper = func(ctx context.Context, cfg config.Config, stdin io.Reader, stdout io.Writer) error {
		calls = append(calls, "helper:"+cfg.Helper.Mode)
		return helperErr
	}
	t.Cleanup(func() { runApp, runHelper = origApp, origHelper })
	return &calls
}

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		Repo:          "/repo",
		PreviewHeight: 40,
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Helper: config.Helper{Mode: "preview", Depth: 1},
		Flags: map[string]string{
			"repo":          "/repo",
			"previewHeight": "40",
		},
		Args: []string{"--repo", "/repo"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["repo"] != "/repo" {
		t.Fatalf("expected repo flag %q, got %v", "/repo", flagsValue["repo"])
	}
	if flagsValue["previewHeight"] != "40" {
		t.Fatalf("expected preview height 40, got %v", flagsValue["previewHeight"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}
	if payload["helper"] != "preview" || payload["depth"] != 1 {
		t.Fatalf("expected helper context, got %v/%v", payload["helper"], payload["depth"])
	}
	if payload["log"] != logging.Path() {
		t.Fatalf("expected active log path, got %v", payload["log"])
	}
	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.Repo != cfg.Repo {
		t.Fatalf("expected repo %q, got %q", cfg.Repo, cfgValue.Repo)
	}
}

func TestRunRoutesTopLevelAndHelpers(t *testing.T) {
	calls := stubRunners(t, nil, nil)
	var stderr bytes.Buffer
	if code := run([]string{"main"}, nil, nil, io.Discard, &stderr); code != 0 {
		t.Fatalf("top level exit %d: %s", code, stderr.String())
	}
	if code := run([]string{}, []string{config.EnvHelper + "=preview"}, nil, io.Discard, &stderr); code != 0 {
		t.Fatalf("helper exit %d: %s", code, stderr.String())
	}
	want := []string{"app:main", "helper:preview"}
	if strings.Join(*calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %q, want %q", *calls, want)
	}
}

func TestRunConfigErrorExitsTwo(t *testing.T) {
	stubRunners(t, nil, nil)
	var stderr bytes.Buffer
	if code := run([]string{"--preview-height", "0"}, nil, nil, io.Discard, &stderr); code != exitConfig {
		t.Fatalf("expected exit %d, got %d", exitConfig, code)
	}
	if !strings.HasPrefix(stderr.String(), "Configuration error:") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}

func TestRunUnknownModeExitsNonZeroWithoutOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{}, []string{config.EnvHelper + "=explode"}, strings.NewReader("* a1b2c3d x\n"), &stdout, &stderr)
	if code == 0 {
		t.Fatalf("unknown mode must exit non-zero")
	}
	if stdout.Len() != 0 {
		t.Fatalf("unknown mode wrote to stdout: %q", stdout.String())
	}
}

func TestRunUnknownModeLeavesLogUntouched(t *testing.T) {
	calls := stubRunners(t, nil, nil)
	logFile := filepath.Join(t.TempDir(), "logs", "browser.log")
	env := []string{
		config.EnvHelper + "=explode",
		config.EnvLogFile + "=" + logFile,
		config.EnvTrace + "=true",
	}
	var stderr bytes.Buffer
	if code := run(nil, env, nil, io.Discard, &stderr); code != exitFailure {
		t.Fatalf("expected exit %d, got %d", exitFailure, code)
	}
	if len(*calls) != 0 {
		t.Fatalf("unknown mode reached a runner: %q", *calls)
	}
	if _, err := os.Stat(filepath.Dir(logFile)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("unknown mode created the log directory: %v", err)
	}
}

func TestExitCodes(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	gitErr := exec.Command("sh", "-c", "exit 128").Run()
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", helper.ErrInvariant), exitInvariant},
		{fmt.Errorf("wrap: %w", helper.ErrUnknownMode), exitFailure},
		{fmt.Errorf("git rebase: %w", gitErr), 128},
		{errors.New("other"), exitFailure},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
