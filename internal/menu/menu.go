// Package menu is the fixed table of actions offered for a commit. Every
// action has a handler that performs it and a preview that only describes
// what it would do.
package menu

import (
	"context"
	"errors"
	"io"

	"github.com/atomicstack/commit-browser/internal/git"
	"github.com/atomicstack/commit-browser/internal/render"
	"github.com/atomicstack/commit-browser/internal/tools"
)

// ActionID names an action. The set is closed; see Registry.Lookup.
type ActionID string

const (
	ActionShow        ActionID = "show"
	ActionDiff        ActionID = "diff"
	ActionMessage     ActionID = "message"
	ActionVerify      ActionID = "verify"
	ActionCopyHash    ActionID = "copy-hash"
	ActionCopyMessage ActionID = "copy-message"
	ActionRebase      ActionID = "rebase"
	ActionCherryPick  ActionID = "cherry-pick"
)

var (
	// ErrUnknownAction is returned for identifiers outside the action table.
	ErrUnknownAction = errors.New("unknown commit browser action")
	// ErrDeclined means the action chose not to run for this commit.
	ErrDeclined = errors.New("action declined")
)

// Repository is the subset of git operations actions use.
type Repository interface {
	Metadata(ctx context.Context, commit string) (git.Metadata, error)
	Diff(ctx context.Context, commit string, color bool) (string, error)
	DiffStat(ctx context.Context, commit string, color bool) (string, error)
	Message(ctx context.Context, commit string) (string, error)
	VerifyCommit(ctx context.Context, commit string) (string, error)
	Parent(ctx context.Context, commit string) (string, error)
	RangeSummary(ctx context.Context, from, to string, color bool) (string, error)
	RebaseArgv(parent string) []string
	CherryPickArgv(commit string) []string
}

// Tools is the subset of tool bindings actions use.
type Tools interface {
	Page() tools.PageFunc
	Copy() tools.CopyFunc
	Status() tools.StatusFunc
}

// Deferred queues commands to run after the top-level picker exits.
type Deferred interface {
	Queue(argv ...string) error
	Exit() error
}

// Env is everything an action may touch.
type Env struct {
	Repo     Repository
	Tools    Tools
	Render   *render.Renderer
	Deferred Deferred
	Out      io.Writer
	// Ref is the tip the browser was opened on.
	Ref string
}

// Handler performs an action on commit.
type Handler func(ctx context.Context, env *Env, commit string) error

// PreviewHandler describes an action on commit without side effects.
type PreviewHandler func(ctx context.Context, env *Env, commit string) (string, error)

// Descriptor is one row of the action table.
type Descriptor struct {
	ID          ActionID
	Key         string
	Description string
	Invoke      Handler
	Preview     PreviewHandler
}

