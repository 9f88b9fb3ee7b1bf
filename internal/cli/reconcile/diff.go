package reconcile

import (
	"fmt"
	"io"

	"github.com/crmarques/connectorctl/internal/cli/common"
	"github.com/crmarques/connectorctl/reconciler"
	"github.com/crmarques/connectorctl/resource"
	"github.com/spf13/cobra"
)

type fileDiff struct {
	File        string               `json:"file" yaml:"file"`
	WorkspaceID string               `json:"workspaceId" yaml:"workspaceId"`
	Kind        resource.Kind        `json:"kind" yaml:"kind"`
	Name        string               `json:"name" yaml:"name"`
	Diff        []resource.DiffEntry `json:"diff" yaml:"diff"`
}

func NewDiffCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "diff <file>...",
		Short:   "Compare resource files with the remote configuration",
		Example: "  connectorctl diff sources/my-source.yaml\n  connectorctl diff destinations/*.yaml -o yaml",
		Args:    requireResourceFiles,
		RunE: func(command *cobra.Command, args []string) error {
			resolved, client, err := common.ResolveTarget(command.Context(), deps, globalFlags)
			if err != nil {
				return err
			}

			items := make([]fileDiff, 0, len(args))
			for _, path := range args {
				target, err := reconciler.FromFile(client, resolved.WorkspaceID, path)
				if err != nil {
					return err
				}
				entries, err := target.ConfigurationDiff(command.Context())
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				items = append(items, fileDiff{
					File:        target.Config().Path,
					WorkspaceID: target.WorkspaceID(),
					Kind:        target.Kind(),
					Name:        target.Name(),
					Diff:        entries,
				})
			}

			return common.WriteOutput(command, globalFlags.Output, items, renderFileDiffs)
		},
	}
}

func renderFileDiffs(w io.Writer, items []fileDiff) error {
	for _, item := range items {
		if len(item.Diff) == 0 {
			if _, err := fmt.Fprintf(w, "%s %s: no changes\n", item.Kind, item.Name); err != nil {
				return err
			}
			continue
		}

		rendered, err := resource.RenderDiff(item.Diff)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s %s (%s):\n%s", item.Kind, item.Name, item.File, rendered); err != nil {
			return err
		}
	}
	return nil
}
