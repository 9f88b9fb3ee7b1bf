package common

import (
	"context"
	"strings"
	"time"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/config"
)

// ClientOptions carries the per-invocation client settings taken from flags.
// A zero Timeout keeps the client default.
type ClientOptions struct {
	Timeout time.Duration
}

// ClientFactory builds the control-plane client for a resolved API server.
type ClientFactory func(server config.APIServer, options ClientOptions) (api.Client, error)

type CommandDependencies struct {
	Contexts  config.ContextService
	NewClient ClientFactory
}

func RequireContexts(deps CommandDependencies) (config.ContextService, error) {
	if deps.Contexts == nil {
		return nil, ValidationError("context service is not configured", nil)
	}
	return deps.Contexts, nil
}

func RequireClientFactory(deps CommandDependencies) (ClientFactory, error) {
	if deps.NewClient == nil {
		return nil, ValidationError("api client factory is not configured", nil)
	}
	return deps.NewClient, nil
}

// ContextSelection turns the global flags into a context selection. Flag
// overrides are only set when the flag carries a value.
func ContextSelection(globalFlags *GlobalFlags) config.ContextSelection {
	selection := config.ContextSelection{}
	if globalFlags == nil {
		return selection
	}

	selection.Name = strings.TrimSpace(globalFlags.Context)
	overrides := map[string]string{}
	if value := strings.TrimSpace(globalFlags.APIURL); value != "" {
		overrides[config.OverrideAPIBaseURL] = value
	}
	if value := strings.TrimSpace(globalFlags.WorkspaceID); value != "" {
		overrides[config.OverrideWorkspaceID] = value
	}
	if len(overrides) > 0 {
		selection.Overrides = overrides
	}
	return selection
}

// ResolveTarget resolves the selected context and builds the client for its
// API server.
func ResolveTarget(ctx context.Context, deps CommandDependencies, globalFlags *GlobalFlags) (config.Context, api.Client, error) {
	contexts, err := RequireContexts(deps)
	if err != nil {
		return config.Context{}, nil, err
	}
	newClient, err := RequireClientFactory(deps)
	if err != nil {
		return config.Context{}, nil, err
	}

	resolved, err := contexts.ResolveContext(ctx, ContextSelection(globalFlags))
	if err != nil {
		return config.Context{}, nil, err
	}
	if resolved.API == nil {
		return config.Context{}, nil, ValidationError("context "+resolved.Name+" has no api server configured", nil)
	}

	client, err := newClient(*resolved.API, clientOptions(globalFlags))
	if err != nil {
		return config.Context{}, nil, err
	}
	return resolved, client, nil
}

func clientOptions(globalFlags *GlobalFlags) ClientOptions {
	if globalFlags == nil {
		return ClientOptions{}
	}
	return ClientOptions{Timeout: globalFlags.Timeout}
}
