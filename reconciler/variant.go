package reconciler

import (
	"fmt"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/resource"
)

// variant is the per-kind capability set: which operations to call and how
// the payloads and responses of those operations are shaped.
type variant struct {
	kind              resource.Kind
	createOp          api.Operation
	updateOp          api.Operation
	searchOp          api.Operation
	idField           string
	definitionIDField string
	matchesField      string
}

var (
	sourceVariant = variant{
		kind:              resource.KindSource,
		createOp:          api.OperationCreateSource,
		updateOp:          api.OperationUpdateSource,
		searchOp:          api.OperationSearchSources,
		idField:           "source_id",
		definitionIDField: "source_definition_id",
		matchesField:      "sources",
	}
	destinationVariant = variant{
		kind:              resource.KindDestination,
		createOp:          api.OperationCreateDestination,
		updateOp:          api.OperationUpdateDestination,
		searchOp:          api.OperationSearchDestinations,
		idField:           "destination_id",
		definitionIDField: "destination_definition_id",
		matchesField:      "destinations",
	}
)

func variantFor(kind resource.Kind) (variant, error) {
	switch kind {
	case resource.KindSource:
		return sourceVariant, nil
	case resource.KindDestination:
		return destinationVariant, nil
	default:
		return variant{}, validationError(fmt.Sprintf("unsupported definition_type %q: use source or destination", kind), nil)
	}
}

func (v variant) createPayload(cfg resource.ResourceConfig, workspaceID string) map[string]any {
	return map[string]any{
		v.definitionIDField:        cfg.DefinitionID,
		"connection_configuration": cfg.Configuration,
		"workspace_id":             workspaceID,
		"name":                     cfg.Name,
	}
}

func (v variant) updatePayload(cfg resource.ResourceConfig, resourceID string) map[string]any {
	return map[string]any{
		v.idField:                  resourceID,
		"connection_configuration": cfg.Configuration,
		"name":                     cfg.Name,
	}
}

func (v variant) searchPayload(cfg resource.ResourceConfig, workspaceID string) map[string]any {
	return map[string]any{
		v.definitionIDField: cfg.DefinitionID,
		"workspace_id":      workspaceID,
		"name":              cfg.Name,
	}
}

func (v variant) matchesQuery() string {
	return fmt.Sprintf(".%s // [] | .[]", v.matchesField)
}

func (v variant) decodeRemote(value resource.Value) (RemoteResource, error) {
	object, ok := value.(map[string]any)
	if !ok {
		return RemoteResource{}, validationError(fmt.Sprintf("%s response is not an object", v.kind), nil)
	}

	id, _ := object[v.idField].(string)
	if id == "" {
		return RemoteResource{}, validationError(fmt.Sprintf("%s response is missing %s", v.kind, v.idField), nil)
	}

	configuration := map[string]any{}
	if raw, found := object["connection_configuration"]; found && raw != nil {
		typed, ok := raw.(map[string]any)
		if !ok {
			return RemoteResource{}, validationError(fmt.Sprintf("%s %s connection_configuration is not an object", v.kind, id), nil)
		}
		configuration = typed
	}

	remote := RemoteResource{
		Kind:                    v.kind,
		ID:                      id,
		ConnectionConfiguration: configuration,
		Raw:                     object,
	}
	remote.Name, _ = object["name"].(string)
	remote.DefinitionID, _ = object[v.definitionIDField].(string)
	remote.WorkspaceID, _ = object["workspace_id"].(string)
	return remote, nil
}
