package check

import (
	"fmt"
	"strings"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/faults"
	"github.com/crmarques/connectorctl/internal/cli/common"
	"github.com/crmarques/connectorctl/logging"
	"github.com/crmarques/connectorctl/reconciler"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check api health and workspace access for the active context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			resolved, client, err := common.ResolveTarget(command.Context(), deps, globalFlags)
			if err != nil {
				return err
			}
			logger := logging.FromContext(command.Context()).WithValues("context", resolved.Name)

			health, err := client.Invoke(command.Context(), api.OperationHealth, nil)
			if err != nil {
				return err
			}
			if available, ok := lookupBool(health, "available"); ok && !available {
				return faults.NewTypedError(faults.TransportError, "api reports it is not available", nil)
			}
			logger.V(1).Info("api health probe succeeded")
			if err := common.WriteText(command, globalFlags.Output, fmt.Sprintf("api %s: OK", resolved.API.BaseURL)); err != nil {
				return err
			}

			workspace, err := client.Invoke(command.Context(), api.OperationGetWorkspace, map[string]any{
				reconciler.FieldWorkspaceID: resolved.WorkspaceID,
			})
			if err != nil {
				return err
			}
			line := fmt.Sprintf("workspace %s: OK", resolved.WorkspaceID)
			if name, ok := lookupString(workspace, "name"); ok {
				line = fmt.Sprintf("workspace %s (%s): OK", resolved.WorkspaceID, name)
			}
			return common.WriteText(command, globalFlags.Output, line)
		},
	}
}

func lookupBool(value any, key string) (bool, bool) {
	object, ok := value.(map[string]any)
	if !ok {
		return false, false
	}
	typed, ok := object[key].(bool)
	return typed, ok
}

func lookupString(value any, key string) (string, bool) {
	object, ok := value.(map[string]any)
	if !ok {
		return "", false
	}
	typed, ok := object[key].(string)
	if !ok || strings.TrimSpace(typed) == "" {
		return "", false
	}
	return typed, true
}
