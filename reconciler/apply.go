package reconciler

import (
	"context"

	"github.com/crmarques/connectorctl/resource"
	"github.com/go-logr/logr"
)

type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionSkipped   Action = "skipped"
)

// ConfirmFunc is asked before an update with the rendered configuration diff.
type ConfirmFunc func(ctx context.Context, target *Resource, diff string) (bool, error)

type ApplyOptions struct {
	// Force updates without calling Confirm.
	Force bool
	// Confirm is consulted for updates unless Force is set. A nil Confirm
	// approves every update.
	Confirm ConfirmFunc
}

type ApplyResult struct {
	Action   Action               `json:"action" yaml:"action"`
	Kind     resource.Kind        `json:"kind" yaml:"kind"`
	Name     string               `json:"name" yaml:"name"`
	ID       string               `json:"id,omitempty" yaml:"id,omitempty"`
	Diff     []resource.DiffEntry `json:"diff,omitempty" yaml:"diff,omitempty"`
	Resource *RemoteResource      `json:"-" yaml:"-"`
}

// Apply creates target when it is absent remotely. Otherwise it diffs the
// configurations and updates when they differ and the update is confirmed.
func Apply(ctx context.Context, target *Resource, opts ApplyOptions) (ApplyResult, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("kind", target.Kind(), "name", target.Name())
	result := ApplyResult{Kind: target.Kind(), Name: target.Name()}

	remote, err := target.RemoteResource(ctx)
	if err != nil {
		return result, err
	}

	if remote == nil {
		created, err := target.Create(ctx)
		if err != nil {
			return result, err
		}
		result.Action = ActionCreated
		result.ID = created.ID
		result.Resource = &created
		logger.Info("resource created", target.IDField(), created.ID)
		return result, nil
	}

	result.ID = remote.ID
	result.Resource = remote

	result.Diff, err = target.diffAgainst(remote)
	if err != nil {
		return result, err
	}

	if len(result.Diff) == 0 && remote.Name == target.Name() {
		result.Action = ActionUnchanged
		logger.V(1).Info("resource is up to date", target.IDField(), remote.ID)
		return result, nil
	}

	if !opts.Force && opts.Confirm != nil {
		rendered, err := resource.RenderDiff(result.Diff)
		if err != nil {
			return result, err
		}
		approved, err := opts.Confirm(ctx, target, rendered)
		if err != nil {
			return result, err
		}
		if !approved {
			result.Action = ActionSkipped
			logger.Info("update skipped", target.IDField(), remote.ID)
			return result, nil
		}
	}

	updated, err := target.Update(ctx)
	if err != nil {
		return result, err
	}
	result.Action = ActionUpdated
	result.ID = updated.ID
	result.Resource = &updated
	logger.Info("resource updated", target.IDField(), updated.ID)
	return result, nil
}
