// Package config builds the immutable runtime configuration from command
// line flags and the environment. Every flag has an environment fallback so
// helper processes inherit the top-level settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// ErrInvalid marks configuration errors; the process exits with status 2.
var ErrInvalid = errors.New("invalid configuration")

// Config captures runtime configuration for one process.
type Config struct {
	Repo          string
	Ref           string
	PreviewHeight int
	Boxed         bool
	Picker        string
	NoHighlight   bool
	Logging       Logging
	Helper        Helper
	Flags         map[string]string
	Args          []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// Helper carries the protocol variables a level sets for the helpers its
// picker spawns.
type Helper struct {
	Mode    string
	Args    []string
	Channel string
	Depth   int
	Commit  string
	Ref     string
	// Mouse reports whether the picker that spawned this helper has mouse
	// reporting on. Unset means it does.
	Mouse bool
}

const (
	EnvRepo          = "COMMIT_BROWSER_REPO"
	EnvPreviewHeight = "COMMIT_BROWSER_PREVIEW_HEIGHT"
	EnvBoxed         = "COMMIT_BROWSER_BOXED"
	EnvPicker        = "COMMIT_BROWSER_PICKER"
	EnvNoHighlight   = "COMMIT_BROWSER_NO_HIGHLIGHT"
	EnvLogFile       = "COMMIT_BROWSER_LOG_FILE"
	EnvTrace         = "COMMIT_BROWSER_TRACE"

	EnvHelper  = "COMMIT_BROWSER_HELPER"
	EnvChannel = "COMMIT_BROWSER_CHANNEL"
	EnvDepth   = "COMMIT_BROWSER_DEPTH"
	EnvCommit  = "COMMIT_BROWSER_COMMIT"
	EnvRef     = "COMMIT_BROWSER_REF"
	EnvMouse   = "COMMIT_BROWSER_MOUSE"
)

const defaultPreviewHeight = 60

var pickerChoices = []string{"auto", "fzf", "builtin"}

// Binder holds the flag values bound to a flag set, ready to be turned into
// a Config once the set is parsed.
type Binder struct {
	env map[string]string

	repo          *string
	previewHeight *int
	boxed         *bool
	picker        *string
	noHighlight   *bool
	logFile       *string
	trace         *bool
}

// Bind defines the flags on fs with defaults taken from environ.
func Bind(fs *pflag.FlagSet, environ []string) *Binder {
	env := parseEnv(environ)
	return &Binder{
		env:           env,
		repo:          fs.StringP("repo", "C", envOrDefault(env, EnvRepo, "."), "repository to browse"),
		previewHeight: fs.Int("preview-height", envOrInt(env, EnvPreviewHeight, defaultPreviewHeight), "preview window height in percent"),
		boxed:         fs.Bool("boxed", envOrBool(env, EnvBoxed, false), "draw previews inside a border"),
		picker:        fs.String("picker", envOrDefault(env, EnvPicker, "auto"), "fuzzy finder to use: auto, fzf or builtin"),
		noHighlight:   fs.Bool("no-highlight", envOrBool(env, EnvNoHighlight, false), "disable syntax highlighting"),
		logFile:       fs.String("log-file", envOrDefault(env, EnvLogFile, ""), "path to the log file"),
		trace:         fs.Bool("trace", envOrBool(env, EnvTrace, false), "enable verbose JSON trace logging"),
	}
}

// Load validates the parsed flags and positionals. args is the raw argument
// list, kept for the startup trace.
func (b *Binder) Load(positionals, args []string) (Config, error) {
	helper := Helper{
		Mode:    strings.TrimSpace(b.env[EnvHelper]),
		Channel: b.env[EnvChannel],
		Depth:   envOrInt(b.env, EnvDepth, 0),
		Commit:  strings.TrimSpace(b.env[EnvCommit]),
		Ref:     strings.TrimSpace(b.env[EnvRef]),
		Mouse:   envOrBool(b.env, EnvMouse, true),
	}
	if helper.Depth < 0 {
		return Config{}, invalid("%s must be >= 0 (got %d)", EnvDepth, helper.Depth)
	}

	var ref string
	if helper.Mode == "" {
		if len(positionals) > 1 {
			return Config{}, invalid("expected at most one ref, got %d arguments", len(positionals))
		}
		if len(positionals) == 1 {
			ref = positionals[0]
		}
	} else {
		helper.Args = append([]string(nil), positionals...)
		ref = helper.Ref
	}

	if *b.previewHeight < 1 || *b.previewHeight > 100 {
		return Config{}, invalid("preview-height must be between 1 and 100 (got %d)", *b.previewHeight)
	}
	if !validPicker(*b.picker) {
		return Config{}, invalid("picker must be one of %s (got %q)", strings.Join(pickerChoices, ", "), *b.picker)
	}

	cfg := Config{
		Repo:          *b.repo,
		Ref:           ref,
		PreviewHeight: *b.previewHeight,
		Boxed:         *b.boxed,
		Picker:        *b.picker,
		NoHighlight:   *b.noHighlight,
		Logging: Logging{
			FilePath: *b.logFile,
			Trace:    *b.trace,
		},
		Helper: helper,
		Flags: map[string]string{
			"repo":          *b.repo,
			"previewHeight": strconv.Itoa(*b.previewHeight),
			"boxed":         strconv.FormatBool(*b.boxed),
			"picker":        *b.picker,
			"noHighlight":   strconv.FormatBool(*b.noHighlight),
			"trace":         strconv.FormatBool(*b.trace),
			"logFile":       *b.logFile,
		},
		Args: append([]string(nil), args...),
	}
	return cfg, nil
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("commit-browser", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	b := Bind(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return b.Load(fs.Args(), args)
}

// Nested reports whether another picker already owns the terminal.
func (c Config) Nested() bool {
	return c.Helper.Depth > 0
}

// Environ is the environment handed to helpers so they run with the same
// settings as this process.
func (c Config) Environ() []string {
	return []string{
		EnvRepo + "=" + c.Repo,
		EnvPreviewHeight + "=" + strconv.Itoa(c.PreviewHeight),
		EnvBoxed + "=" + strconv.FormatBool(c.Boxed),
		EnvPicker + "=" + c.Picker,
		EnvNoHighlight + "=" + strconv.FormatBool(c.NoHighlight),
		EnvLogFile + "=" + c.Logging.FilePath,
		EnvTrace + "=" + strconv.FormatBool(c.Logging.Trace),
	}
}

// HelperEnviron is the protocol environment for helpers spawned by a picker
// at depth whose side channel is channelPath. mouse is that picker's mouse
// reporting state.
func HelperEnviron(channelPath string, depth int, commit, ref string, mouse bool) []string {
	return []string{
		EnvChannel + "=" + channelPath,
		EnvDepth + "=" + strconv.Itoa(depth),
		EnvCommit + "=" + commit,
		EnvRef + "=" + ref,
		EnvMouse + "=" + strconv.FormatBool(mouse),
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func validPicker(p string) bool {
	for _, c := range pickerChoices {
		if p == c {
			return true
		}
	}
	return false
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok && v != "" {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
