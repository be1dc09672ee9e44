package menu

import (
	"context"
	"fmt"

	"github.com/atomicstack/commit-browser/internal/format/table"
	"github.com/atomicstack/commit-browser/internal/logging/events"
)

var descriptors = []Descriptor{
	{ID: ActionShow, Key: "alt-s", Description: "show commit with full diff", Invoke: invokeShow, Preview: previewShow},
	{ID: ActionDiff, Key: "alt-d", Description: "page the diff", Invoke: invokeDiff, Preview: previewDiff},
	{ID: ActionMessage, Key: "alt-m", Description: "page the commit message", Invoke: invokeMessage, Preview: previewMessage},
	{ID: ActionVerify, Key: "alt-v", Description: "verify the commit signature", Invoke: invokeVerify, Preview: previewVerify},
	{ID: ActionCopyHash, Key: "alt-y", Description: "copy the full hash", Invoke: invokeCopyHash, Preview: previewCopyHash},
	{ID: ActionCopyMessage, Key: "alt-Y", Description: "copy the subject line", Invoke: invokeCopyMessage, Preview: previewCopyMessage},
	{ID: ActionRebase, Key: "alt-r", Description: "interactive rebase from this commit", Invoke: invokeRebase, Preview: previewRebase},
	{ID: ActionCherryPick, Key: "alt-p", Description: "cherry-pick onto the current branch", Invoke: invokeCherryPick, Preview: previewCherryPick},
}

// Registry looks actions up by identifier.
type Registry struct {
	order []ActionID
	byID  map[ActionID]Descriptor
}

// Default returns the registry of built-in actions.
func Default() *Registry {
	return newRegistry(descriptors)
}

func newRegistry(ds []Descriptor) *Registry {
	r := &Registry{byID: make(map[ActionID]Descriptor, len(ds))}
	for _, d := range ds {
		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d
	}
	return r
}

// Lookup returns the descriptor for id or an ErrUnknownAction error.
func (r *Registry) Lookup(id string) (Descriptor, error) {
	d, ok := r.byID[ActionID(id)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownAction, id)
	}
	return d, nil
}

// Descriptors returns the actions in display order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Lines renders the menu shown by the nested picker. The first field of each
// line is the action identifier.
func (r *Registry) Lines() []string {
	rows := make([][]string, 0, len(r.order))
	for _, d := range r.Descriptors() {
		rows = append(rows, []string{string(d.ID), "[" + d.Key + "]", d.Description})
	}
	return table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft})
}

// Invoke runs the action.
func (r *Registry) Invoke(ctx context.Context, env *Env, id, commit string) error {
	d, err := r.Lookup(id)
	if err != nil {
		events.Action.Unknown(id)
		return err
	}
	events.Action.Invoke(id, commit)
	if err := d.Invoke(ctx, env, commit); err != nil {
		events.Action.Error(id, err)
		return err
	}
	return nil
}

// Preview renders the action's preview. Actions without a preview handler
// fall back to their description.
func (r *Registry) Preview(ctx context.Context, env *Env, id, commit string) (string, error) {
	d, err := r.Lookup(id)
	if err != nil {
		events.Action.Unknown(id)
		return "", err
	}
	events.Action.Preview(id, commit)
	if d.Preview == nil {
		return d.Description + "\n", nil
	}
	out, err := d.Preview(ctx, env, commit)
	if err != nil {
		events.Action.Error(id, err)
	}
	return out, err
}
