package config

import (
	"errors"
	"reflect"
	"testing"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Repo != "." || cfg.PreviewHeight != 60 || cfg.Picker != "auto" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Helper.Mode != "" || cfg.Nested() {
		t.Fatalf("top-level config should not be a helper: %+v", cfg.Helper)
	}
	if !cfg.Helper.Mouse {
		t.Fatalf("mouse reporting should be assumed on when unset")
	}
}

func TestLoadArgsFlagsOverrideEnv(t *testing.T) {
	env := []string{EnvPreviewHeight + "=30", EnvBoxed + "=true", EnvPicker + "=fzf"}
	cfg, err := LoadArgs([]string{"--preview-height", "45", "-C", "/tmp/repo", "main"}, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PreviewHeight != 45 {
		t.Fatalf("flag should win, got %d", cfg.PreviewHeight)
	}
	if !cfg.Boxed || cfg.Picker != "fzf" {
		t.Fatalf("env fallbacks ignored: %+v", cfg)
	}
	if cfg.Repo != "/tmp/repo" || cfg.Ref != "main" {
		t.Fatalf("unexpected repo/ref %q %q", cfg.Repo, cfg.Ref)
	}
	if cfg.Flags["previewHeight"] != "45" {
		t.Fatalf("flags map not populated: %v", cfg.Flags)
	}
}

func TestLoadArgsRejectsExtraRefs(t *testing.T) {
	_, err := LoadArgs([]string{"main", "dev"}, nil)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadArgsValidation(t *testing.T) {
	for _, args := range [][]string{
		{"--preview-height", "0"},
		{"--preview-height", "101"},
		{"--picker", "skim"},
		{"--no-such-flag"},
	} {
		if _, err := LoadArgs(args, nil); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%q: expected ErrInvalid, got %v", args, err)
		}
	}
	if _, err := LoadArgs(nil, []string{EnvDepth + "=-1"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("negative depth accepted")
	}
}

func TestLoadArgsHelperProtocol(t *testing.T) {
	env := []string{
		EnvHelper + "=menu-item",
		EnvChannel + "=/tmp/chan",
		EnvDepth + "=2",
		EnvCommit + "=a1b2c3d",
		EnvRef + "=main",
		EnvMouse + "=false",
	}
	cfg, err := LoadArgs([]string{"rebase", "extra"}, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Helper{
		Mode:    "menu-item",
		Args:    []string{"rebase", "extra"},
		Channel: "/tmp/chan",
		Depth:   2,
		Commit:  "a1b2c3d",
		Ref:     "main",
		Mouse:   false,
	}
	if !reflect.DeepEqual(cfg.Helper, want) {
		t.Fatalf("helper = %+v, want %+v", cfg.Helper, want)
	}
	if cfg.Ref != "main" || !cfg.Nested() {
		t.Fatalf("helper should inherit ref and be nested: %+v", cfg)
	}
}

func TestEnvironRoundTrips(t *testing.T) {
	cfg, err := LoadArgs([]string{"--boxed", "--no-highlight", "--preview-height=33", "--picker=builtin"}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	child, err := LoadArgs(nil, cfg.Environ())
	if err != nil {
		t.Fatalf("child load: %v", err)
	}
	if child.Boxed != cfg.Boxed || child.NoHighlight != cfg.NoHighlight ||
		child.PreviewHeight != cfg.PreviewHeight || child.Picker != cfg.Picker || child.Repo != cfg.Repo {
		t.Fatalf("child config %+v differs from parent %+v", child, cfg)
	}
}

func TestHelperEnviron(t *testing.T) {
	got := HelperEnviron("/tmp/c", 1, "", "HEAD", false)
	want := []string{EnvChannel + "=/tmp/c", EnvDepth + "=1", EnvCommit + "=", EnvRef + "=HEAD", EnvMouse + "=false"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}
