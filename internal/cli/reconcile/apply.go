package reconcile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/crmarques/connectorctl/internal/cli/common"
	"github.com/crmarques/connectorctl/reconciler"
	"github.com/spf13/cobra"
)

// confirmPrompter asks the operator whether an update may proceed.
type confirmPrompter func(command *cobra.Command, title string, diff string) (bool, error)

func NewApplyCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return newApplyCommandWithPrompter(deps, globalFlags, terminalPrompter)
}

func newApplyCommandWithPrompter(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter confirmPrompter,
) *cobra.Command {
	var force bool

	command := &cobra.Command{
		Use:   "apply <file>...",
		Short: "Create or update sources and destinations from resource files",
		Long: strings.Join([]string{
			"Apply each resource file in order.",
			"A resource missing from the workspace is created.",
			"An existing resource is updated when its configuration or name differs, after confirmation.",
			"Without an interactive terminal, updates require --force.",
		}, " "),
		Example: strings.Join([]string{
			"  connectorctl apply sources/my-source.yaml",
			"  connectorctl apply sources/*.yaml destinations/*.yaml --force",
			"  connectorctl apply destinations/warehouse.yaml --context prod -o json",
		}, "\n"),
		Args: requireResourceFiles,
		RunE: func(command *cobra.Command, args []string) error {
			resolved, client, err := common.ResolveTarget(command.Context(), deps, globalFlags)
			if err != nil {
				return err
			}

			options := reconciler.ApplyOptions{Force: force}
			if !force {
				options.Confirm = confirmUpdate(command, prompter)
			}

			results := make([]reconciler.ApplyResult, 0, len(args))
			for _, path := range args {
				target, err := reconciler.FromFile(client, resolved.WorkspaceID, path)
				if err != nil {
					return writePartialResults(command, globalFlags, results, err)
				}
				result, err := reconciler.Apply(command.Context(), target, options)
				if err != nil {
					return writePartialResults(command, globalFlags, results, fmt.Errorf("%s: %w", path, err))
				}
				results = append(results, result)
			}

			return writeApplyResults(command, globalFlags.Output, results)
		},
	}

	command.Flags().BoolVarP(&force, "force", "f", false, "update existing resources without confirmation")
	return command
}

func confirmUpdate(command *cobra.Command, prompter confirmPrompter) reconciler.ConfirmFunc {
	return func(_ context.Context, target *reconciler.Resource, diff string) (bool, error) {
		title := fmt.Sprintf("Update %s %q?", target.Kind(), target.Name())
		approved, err := prompter(command, title, diff)
		if err != nil {
			return false, fmt.Errorf("%s %q differs from its remote state: %w", target.Kind(), target.Name(), err)
		}
		return approved, nil
	}
}

func terminalPrompter(command *cobra.Command, title string, diff string) (bool, error) {
	if !common.IsInteractiveTerminal(command) {
		return false, common.ValidationError("rerun with --force to update without an interactive terminal", nil)
	}
	return common.PromptConfirm(command, title, diff, false)
}

func writePartialResults(command *cobra.Command, globalFlags *common.GlobalFlags, results []reconciler.ApplyResult, err error) error {
	if len(results) > 0 {
		if writeErr := writeApplyResults(command, globalFlags.Output, results); writeErr != nil {
			return writeErr
		}
	}
	return err
}

func writeApplyResults(command *cobra.Command, format string, results []reconciler.ApplyResult) error {
	return common.WriteOutput(command, format, results, func(w io.Writer, items []reconciler.ApplyResult) error {
		for _, item := range items {
			if _, err := fmt.Fprintln(w, applyResultLine(item)); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyResultLine(result reconciler.ApplyResult) string {
	line := fmt.Sprintf("%s %s %s", result.Action, result.Kind, result.Name)
	if result.ID != "" {
		line += " (" + result.ID + ")"
	}
	return line
}
