// Package reconciler decides whether a declared connector resource has to be
// created or updated on the control plane and performs that call.
package reconciler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/faults"
	"github.com/crmarques/connectorctl/resource"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

const FieldWorkspaceID = "workspace_id"

// RemoteResource is the control plane's view of a source or destination.
type RemoteResource struct {
	Kind                    resource.Kind
	ID                      string
	Name                    string
	DefinitionID            string
	WorkspaceID             string
	ConnectionConfiguration map[string]any
	Raw                     map[string]any
}

// Resource reconciles one declared source or destination. It is meant for a
// single apply cycle and is not safe for concurrent use.
type Resource struct {
	client      api.Client
	workspaceID string
	config      resource.ResourceConfig
	variant     variant

	remote   *RemoteResource
	resolved bool
}

// New builds a reconciler for cfg. No request is sent.
func New(client api.Client, workspaceID string, cfg resource.ResourceConfig) (*Resource, error) {
	if client == nil {
		return nil, validationError("api client is required", nil)
	}
	workspaceID = strings.TrimSpace(workspaceID)
	if _, err := uuid.Parse(workspaceID); err != nil {
		return nil, validationError(fmt.Sprintf("workspace id %q is not a valid UUID", workspaceID), err)
	}

	v, err := variantFor(cfg.Kind)
	if err != nil {
		return nil, err
	}

	return &Resource{
		client:      client,
		workspaceID: workspaceID,
		config:      cfg,
		variant:     v,
	}, nil
}

func (r *Resource) Kind() resource.Kind {
	return r.variant.kind
}

func (r *Resource) Name() string {
	return r.config.Name
}

func (r *Resource) WorkspaceID() string {
	return r.workspaceID
}

func (r *Resource) Config() resource.ResourceConfig {
	return r.config
}

// IDField is the response field holding the remote identifier.
func (r *Resource) IDField() string {
	return r.variant.idField
}

// Attribute exposes the fields of the resource file by their YAML key.
func (r *Resource) Attribute(name string) (resource.Value, error) {
	if name == FieldWorkspaceID {
		return r.workspaceID, nil
	}
	if value, found := r.config.Lookup(name); found {
		return value, nil
	}
	return nil, &AttributeError{Kind: r.variant.kind, Name: name}
}

func (r *Resource) CreatePayload() map[string]any {
	return r.variant.createPayload(r.config, r.workspaceID)
}

func (r *Resource) SearchPayload() map[string]any {
	return r.variant.searchPayload(r.config, r.workspaceID)
}

// UpdatePayload targets the resolved remote resource. The identifier stays
// blank until RemoteResource or Exists found a match.
func (r *Resource) UpdatePayload() map[string]any {
	resourceID := ""
	if r.remote != nil {
		resourceID = r.remote.ID
	}
	return r.variant.updatePayload(r.config, resourceID)
}

// RemoteResource searches the workspace for a resource with the declared
// definition and name. It returns nil when none exists and a
// DuplicateResourceError when several do. A single match is kept for Update;
// after a duplicate the next Update searches again.
func (r *Resource) RemoteResource(ctx context.Context) (*RemoteResource, error) {
	logger := r.logger(ctx)
	logger.V(1).Info("searching remote resource", "definitionID", r.config.DefinitionID)

	response, err := r.invoke(ctx, r.variant.searchOp, r.SearchPayload())
	if err != nil {
		return nil, err
	}

	matches, err := resource.Query(ctx, response, r.variant.matchesQuery())
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", r.variant.searchOp, err)
	}

	// Only a definite answer (none or exactly one) resolves the resource.
	r.remote = nil
	r.resolved = false
	switch len(matches) {
	case 0:
		r.resolved = true
		logger.V(1).Info("remote resource not found")
		return nil, nil
	case 1:
		remote, err := r.variant.decodeRemote(matches[0])
		if err != nil {
			return nil, err
		}
		r.remote = &remote
		r.resolved = true
		logger.V(1).Info("remote resource found", r.variant.idField, remote.ID)
		return r.remote, nil
	default:
		return nil, newDuplicateResourceError(r.variant.kind, r.config.Name, len(matches))
	}
}

func (r *Resource) Exists(ctx context.Context) (bool, error) {
	remote, err := r.RemoteResource(ctx)
	if err != nil {
		return false, err
	}
	return remote != nil, nil
}

func (r *Resource) Create(ctx context.Context) (RemoteResource, error) {
	r.logger(ctx).Info("creating remote resource")

	response, err := r.invoke(ctx, r.variant.createOp, r.CreatePayload())
	if err != nil {
		return RemoteResource{}, err
	}
	created, err := r.variant.decodeRemote(response)
	if err != nil {
		return RemoteResource{}, fmt.Errorf("decode %s response: %w", r.variant.createOp, err)
	}
	r.remote = &created
	r.resolved = true
	return created, nil
}

// Update replaces the configuration and name of the resolved remote resource.
// When nothing was resolved yet a search runs first; a missing resource is
// reported as a not-found fault without calling the update endpoint.
func (r *Resource) Update(ctx context.Context) (RemoteResource, error) {
	if !r.resolved {
		if _, err := r.RemoteResource(ctx); err != nil {
			return RemoteResource{}, err
		}
	}
	if r.remote == nil {
		return RemoteResource{}, faults.NewNotFoundError(
			fmt.Sprintf("%s %q does not exist in workspace %s", r.variant.kind, r.config.Name, r.workspaceID),
			nil,
		)
	}

	r.logger(ctx).Info("updating remote resource", r.variant.idField, r.remote.ID)

	response, err := r.invoke(ctx, r.variant.updateOp, r.UpdatePayload())
	if err != nil {
		return RemoteResource{}, err
	}
	updated, err := r.variant.decodeRemote(response)
	if err != nil {
		return RemoteResource{}, fmt.Errorf("decode %s response: %w", r.variant.updateOp, err)
	}
	r.remote = &updated
	return updated, nil
}

// ConfigurationDiff compares the remote connection configuration with the
// declared one. A resource missing remotely is compared against an empty
// configuration.
func (r *Resource) ConfigurationDiff(ctx context.Context) ([]resource.DiffEntry, error) {
	remote, err := r.RemoteResource(ctx)
	if err != nil {
		return nil, err
	}

	return r.diffAgainst(remote)
}

func (r *Resource) diffAgainst(remote *RemoteResource) ([]resource.DiffEntry, error) {
	remoteConfiguration := map[string]any{}
	if remote != nil {
		var err error
		remoteConfiguration, err = resource.NormalizeMap(remote.ConnectionConfiguration)
		if err != nil {
			return nil, err
		}
	}
	localConfiguration, err := resource.NormalizeMap(r.config.Configuration)
	if err != nil {
		return nil, err
	}

	return resource.BuildDiff(remoteConfiguration, localConfiguration), nil
}

func (r *Resource) RenderConfigurationDiff(ctx context.Context) (string, error) {
	entries, err := r.ConfigurationDiff(ctx)
	if err != nil {
		return "", err
	}
	return resource.RenderDiff(entries)
}

func (r *Resource) invoke(ctx context.Context, operation api.Operation, payload map[string]any) (resource.Value, error) {
	response, err := r.client.Invoke(ctx, operation, payload)
	if err == nil {
		return response, nil
	}
	if api.StatusCode(err) == http.StatusUnprocessableEntity {
		return nil, newInvalidConfigurationError(r.variant.kind, r.config.Name, err)
	}
	return nil, err
}

func (r *Resource) logger(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx).WithValues(
		"kind", r.variant.kind,
		"name", r.config.Name,
		"workspaceID", r.workspaceID,
	)
}
