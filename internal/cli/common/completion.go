package common

import "github.com/spf13/cobra"

// ContextNameCompletion completes context names from the catalog.
func ContextNameCompletion(deps CommandDependencies) cobra.CompletionFunc {
	return func(command *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 || deps.Contexts == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		items, err := deps.Contexts.List(command.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := make([]cobra.Completion, 0, len(items))
		for _, item := range items {
			names = append(names, item.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
