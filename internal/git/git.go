// Package git wraps the git command line for the commit browser. Commit
// metadata is read natively through go-git when possible and falls back to
// the CLI otherwise.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoParent reports a root commit.
var ErrNoParent = errors.New("commit has no parent")

var execCommand = exec.CommandContext

// Repo is a handle on a repository working tree.
type Repo struct {
	path string
}

// Open resolves the repository containing path.
func Open(ctx context.Context, path string) (*Repo, error) {
	if strings.TrimSpace(path) == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	tmp := &Repo{path: abs}
	root, err := tmp.run(ctx, []string{"rev-parse", "--show-toplevel"}, false, "git rev-parse")
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("open repository: git rev-parse returned empty root")
	}
	return &Repo{path: root}, nil
}

// Path returns the repository root.
func (r *Repo) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Command prepares a git invocation rooted at the repository. Callers own
// the stdio wiring.
func (r *Repo) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmdArgs := append([]string{"-C", r.path}, args...)
	return execCommand(ctx, "git", cmdArgs...)
}

// Argv returns the full argument vector for a git invocation rooted at the
// repository, suitable for queueing as a deferred command.
func (r *Repo) Argv(args ...string) []string {
	return append([]string{"git", "-C", r.path}, args...)
}

func (r *Repo) run(ctx context.Context, args []string, allowExit1 bool, context string) (string, error) {
	if r == nil || r.path == "" {
		return "", fmt.Errorf("repository root not set")
	}
	cmd := r.Command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if allowExit1 && errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && stderr.Len() == 0 {
			// exit 1 without stderr is a negative answer, not a failure
			return stdout.String(), errExitOne
		}
		if stderr.Len() > 0 {
			return "", &CommandError{Context: context, Err: err, Stderr: strings.TrimSpace(stderr.String())}
		}
		return "", &CommandError{Context: context, Err: err}
	}
	return stdout.String(), nil
}

var errExitOne = errors.New("git exited with status 1")

// CommandError carries git's stderr alongside the process error so callers
// can surface the message and propagate the exit status.
type CommandError struct {
	Context string
	Err     error
	Stderr  string
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.Context, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Context, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ResolveRef returns the full hash for ref.
func (r *Repo) ResolveRef(ctx context.Context, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		ref = "HEAD"
	}
	out, err := r.run(ctx, []string{"rev-parse", "--verify", "--end-of-options", ref + "^{commit}"}, false, "git rev-parse "+ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Parent returns the first parent of commit, or ErrNoParent for a root commit.
func (r *Repo) Parent(ctx context.Context, commit string) (string, error) {
	out, err := r.run(ctx, []string{"rev-parse", "--verify", "--quiet", commit + "^"}, true, "git rev-parse "+commit+"^")
	if errors.Is(err, errExitOne) {
		return "", ErrNoParent
	}
	if err != nil {
		return "", err
	}
	parent := strings.TrimSpace(out)
	if parent == "" {
		return "", ErrNoParent
	}
	return parent, nil
}

// LogArgs returns the arguments used to feed the top-level picker.
func LogArgs(ref string) []string {
	if strings.TrimSpace(ref) == "" {
		ref = "HEAD"
	}
	return []string{
		"log", "--graph", "--color=always",
		"--format=%C(auto)%h%d %s %C(black)%C(bold)%cr %C(reset)%C(dim)%an",
		ref, "--",
	}
}

// LogLines runs the graph log and returns its lines.
func (r *Repo) LogLines(ctx context.Context, ref string) ([]string, error) {
	out, err := r.run(ctx, LogArgs(ref), false, "git log")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// DiffStat returns `git show --stat` output. The first line is the one-line
// commit summary.
func (r *Repo) DiffStat(ctx context.Context, commit string, color bool) (string, error) {
	return r.run(ctx, []string{"show", "--stat", "--oneline", colorFlag(color), commit, "--"}, false, "git show --stat")
}

// Diff returns the patch introduced by commit.
func (r *Repo) Diff(ctx context.Context, commit string, color bool) (string, error) {
	return r.run(ctx, []string{"show", "--format=", "--patch", colorFlag(color), commit, "--"}, false, "git show --patch")
}

// Message returns the raw commit message.
func (r *Repo) Message(ctx context.Context, commit string) (string, error) {
	return r.run(ctx, []string{"show", "-s", "--format=%B", commit, "--"}, false, "git show --format=%B")
}

// RangeSummary lists the one-line summaries of commits in from..to.
func (r *Repo) RangeSummary(ctx context.Context, from, to string, color bool) (string, error) {
	return r.run(ctx, []string{"log", "--oneline", colorFlag(color), from + ".." + to, "--"}, false, "git log --oneline")
}

// VerifyCommit runs git verify-commit. Signature details go to stderr, so
// the combined output is returned even when verification fails.
func (r *Repo) VerifyCommit(ctx context.Context, commit string) (string, error) {
	cmd := r.Command(ctx, "verify-commit", "--verbose", commit)
	out, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		return text, &CommandError{Context: "git verify-commit", Err: err, Stderr: text}
	}
	return text, nil
}

// RebaseArgv is the deferred command that interactively rebases from parent.
func (r *Repo) RebaseArgv(parent string) []string {
	return r.Argv("rebase", "--interactive", parent)
}

// CherryPickArgv is the deferred command that cherry-picks commit.
func (r *Repo) CherryPickArgv(commit string) []string {
	return r.Argv("cherry-pick", commit)
}

func colorFlag(color bool) string {
	if color {
		return "--color=always"
	}
	return "--no-color"
}

func splitLines(out string) []string {
	trimmed := strings.TrimRight(out, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
