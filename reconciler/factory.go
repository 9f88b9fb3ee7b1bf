package reconciler

import (
	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/resource"
)

// FromFile parses the resource file at path and builds the reconciler for the
// variant named by its definition_type.
func FromFile(client api.Client, workspaceID string, path string) (*Resource, error) {
	cfg, err := resource.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return FromConfig(client, workspaceID, cfg)
}

func FromConfig(client api.Client, workspaceID string, cfg resource.ResourceConfig) (*Resource, error) {
	return New(client, workspaceID, cfg)
}
