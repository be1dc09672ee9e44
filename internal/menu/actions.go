package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/atomicstack/commit-browser/internal/git"
)

func invokeShow(ctx context.Context, env *Env, commit string) error {
	meta, err := env.Repo.Metadata(ctx, commit)
	if err != nil {
		return err
	}
	patch, err := env.Repo.Diff(ctx, commit, false)
	if err != nil {
		return err
	}
	body := env.Render.Show(ctx, meta, verdict(ctx, env, meta), patch)
	return env.Tools.Page()(ctx, "show "+meta.Short(), body)
}

func previewShow(ctx context.Context, env *Env, commit string) (string, error) {
	meta, err := env.Repo.Metadata(ctx, commit)
	if err != nil {
		return "", err
	}
	stat, err := env.Repo.DiffStat(ctx, commit, true)
	if err != nil {
		return "", err
	}
	return env.Render.Preview(meta, verdict(ctx, env, meta), stat), nil
}

func invokeDiff(ctx context.Context, env *Env, commit string) error {
	patch, err := env.Repo.Diff(ctx, commit, false)
	if err != nil {
		return err
	}
	return env.Tools.Page()(ctx, "diff "+short(commit), env.Render.Diff(ctx, patch))
}

func previewDiff(ctx context.Context, env *Env, commit string) (string, error) {
	patch, err := env.Repo.Diff(ctx, commit, false)
	if err != nil {
		return "", err
	}
	return env.Render.Diff(ctx, patch), nil
}

func invokeMessage(ctx context.Context, env *Env, commit string) error {
	msg, err := env.Repo.Message(ctx, commit)
	if err != nil {
		return err
	}
	return env.Tools.Page()(ctx, "message "+short(commit), env.Render.Message(ctx, msg))
}

func previewMessage(ctx context.Context, env *Env, commit string) (string, error) {
	msg, err := env.Repo.Message(ctx, commit)
	if err != nil {
		return "", err
	}
	return env.Render.Message(ctx, msg), nil
}

// invokeVerify pages the verification report. A failed verification is a
// result worth showing, not an action failure.
func invokeVerify(ctx context.Context, env *Env, commit string) error {
	out, err := env.Repo.VerifyCommit(ctx, commit)
	if err != nil && out == "" {
		return err
	}
	if out == "" {
		out = "signature verified"
	}
	return env.Tools.Page()(ctx, "verify "+short(commit), out)
}

func previewVerify(ctx context.Context, env *Env, commit string) (string, error) {
	meta, err := env.Repo.Metadata(ctx, commit)
	if err != nil {
		return "", err
	}
	if !meta.Signed {
		return fmt.Sprintf("%s is not signed\n", meta.Short()), nil
	}
	out, _ := env.Repo.VerifyCommit(ctx, commit)
	return strings.TrimRight(out, "\n") + "\n", nil
}

func invokeCopyHash(ctx context.Context, env *Env, commit string) error {
	meta, err := env.Repo.Metadata(ctx, commit)
	if err != nil {
		return err
	}
	return copyText(env, meta.Hash, "copied "+meta.Hash)
}

func previewCopyHash(ctx context.Context, env *Env, commit string) (string, error) {
	meta, err := env.Repo.Metadata(ctx, commit)
	if err != nil {
		return "", err
	}
	return "copies\n\n" + meta.Hash + "\n", nil
}

func invokeCopyMessage(ctx context.Context, env *Env, commit string) error {
	meta, err := env.Repo.Metadata(ctx, commit)
	if err != nil {
		return err
	}
	return copyText(env, meta.Subject, fmt.Sprintf("copied subject of %s", meta.Short()))
}

func previewCopyMessage(ctx context.Context, env *Env, commit string) (string, error) {
	meta, err := env.Repo.Metadata(ctx, commit)
	if err != nil {
		return "", err
	}
	return "copies\n\n" + meta.Subject + "\n", nil
}

func copyText(env *Env, text, status string) error {
	if err := env.Tools.Copy()(text); err != nil {
		return err
	}
	env.Tools.Status()(status)
	return nil
}

// invokeRebase queues an interactive rebase onto the commit's parent and ends
// the session so the rebase runs on a clean terminal.
func invokeRebase(ctx context.Context, env *Env, commit string) error {
	parent, err := env.Repo.Parent(ctx, commit)
	if errors.Is(err, git.ErrNoParent) {
		env.Tools.Status()(fmt.Sprintf("%s is a root commit; nothing to rebase onto", short(commit)))
		return fmt.Errorf("%w: %s has no parent", ErrDeclined, short(commit))
	}
	if err != nil {
		return err
	}
	if err := env.Deferred.Queue(env.Repo.RebaseArgv(parent)...); err != nil {
		return err
	}
	return env.Deferred.Exit()
}

func previewRebase(ctx context.Context, env *Env, commit string) (string, error) {
	parent, err := env.Repo.Parent(ctx, commit)
	if errors.Is(err, git.ErrNoParent) {
		return fmt.Sprintf("%s is a root commit; rebase is not available\n", short(commit)), nil
	}
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(shellescape.QuoteCommand(env.Repo.RebaseArgv(parent)))
	b.WriteString("\n")
	tip := env.Ref
	if tip == "" {
		tip = "HEAD"
	}
	if summary, err := env.Repo.RangeSummary(ctx, parent, tip, true); err == nil && summary != "" {
		b.WriteString("\ncommits to replay:\n")
		b.WriteString(summary)
	}
	return b.String(), nil
}

func invokeCherryPick(ctx context.Context, env *Env, commit string) error {
	if err := env.Deferred.Queue(env.Repo.CherryPickArgv(commit)...); err != nil {
		return err
	}
	return env.Deferred.Exit()
}

func previewCherryPick(ctx context.Context, env *Env, commit string) (string, error) {
	stat, err := env.Repo.DiffStat(ctx, commit, true)
	if err != nil {
		return "", err
	}
	return shellescape.QuoteCommand(env.Repo.CherryPickArgv(commit)) + "\n\n" + stat, nil
}

// verdict summarises signature verification for signed commits.
func verdict(ctx context.Context, env *Env, meta git.Metadata) string {
	if !meta.Signed {
		return ""
	}
	if _, err := env.Repo.VerifyCommit(ctx, meta.Hash); err != nil {
		return "unverified"
	}
	return "verified"
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
