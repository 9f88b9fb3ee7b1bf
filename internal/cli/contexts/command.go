package contexts

import (
	"fmt"
	"io"

	configdomain "github.com/crmarques/connectorctl/config"
	"github.com/crmarques/connectorctl/internal/cli/common"
	"github.com/spf13/cobra"
)

type contextSummary struct {
	Name        string `json:"name" yaml:"name"`
	Current     bool   `json:"current" yaml:"current"`
	BaseURL     string `json:"base-url,omitempty" yaml:"base-url,omitempty"`
	WorkspaceID string `json:"workspace-id" yaml:"workspace-id"`
}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "context",
		Short: "Manage contexts",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newListCommand(deps, globalFlags),
		newCurrentCommand(deps, globalFlags),
		newUseCommand(deps),
	)
	return command
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			items, err := contexts.List(command.Context())
			if err != nil {
				return err
			}

			currentName := ""
			if current, currentErr := contexts.GetCurrent(command.Context()); currentErr == nil {
				currentName = current.Name
			}

			summaries := make([]contextSummary, 0, len(items))
			for _, item := range items {
				summaries = append(summaries, summarize(item, item.Name == currentName))
			}

			return common.WriteOutput(command, globalFlags.Output, summaries, func(w io.Writer, value []contextSummary) error {
				for _, item := range value {
					marker := " "
					if item.Current {
						marker = "*"
					}
					if _, writeErr := fmt.Fprintf(w, "%s %s\n", marker, item.Name); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}
}

func newCurrentCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			current, err := contexts.GetCurrent(command.Context())
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, summarize(current, true), func(w io.Writer, value contextSummary) error {
				_, writeErr := fmt.Fprintln(w, value.Name)
				return writeErr
			})
		},
	}
}

func newUseCommand(deps common.CommandDependencies) *cobra.Command {
	command := &cobra.Command{
		Use:   "use <name>",
		Short: "Set the current context",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return common.ValidationError("context name is required", nil)
			}
			return nil
		},
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			return contexts.SetCurrent(command.Context(), args[0])
		},
	}
	command.ValidArgsFunction = common.ContextNameCompletion(deps)
	return command
}

func summarize(item configdomain.Context, current bool) contextSummary {
	summary := contextSummary{
		Name:        item.Name,
		Current:     current,
		WorkspaceID: item.WorkspaceID,
	}
	if item.API != nil {
		summary.BaseURL = item.API.BaseURL
	}
	return summary
}
