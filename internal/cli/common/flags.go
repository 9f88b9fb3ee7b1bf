package common

import (
	"time"

	"github.com/crmarques/connectorctl/logging"
	"github.com/spf13/cobra"
)

type GlobalFlags struct {
	Context     string
	APIURL      string
	WorkspaceID string
	Timeout     time.Duration
	Debug       bool
	LogFormat   string
	NoStatus    bool
	NoColor     bool
	Output      string
}

func BindGlobalFlags(command *cobra.Command, flags *GlobalFlags) {
	command.PersistentFlags().StringVarP(&flags.Context, "context", "c", "", "context name")
	command.PersistentFlags().StringVar(&flags.APIURL, "api-url", "", "override the context api base url")
	command.PersistentFlags().StringVar(&flags.WorkspaceID, "workspace-id", "", "override the context workspace id")
	command.PersistentFlags().DurationVar(&flags.Timeout, "timeout", 0, "api request timeout (default 30s)")
	command.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "enable debug logging")
	command.PersistentFlags().StringVar(&flags.LogFormat, "log-format", logging.FormatConsole, "log format: console|json")
	command.PersistentFlags().BoolVarP(&flags.NoStatus, "no-status", "n", false, "hide status output")
	command.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "disable color output")
	command.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputAuto, "output format: auto|text|json|yaml")
	RegisterOutputFlagCompletion(command)
}

func RegisterOutputFlagCompletion(command *cobra.Command) {
	_ = command.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{OutputAuto, OutputText, OutputJSON, OutputYAML},
		cobra.ShellCompDirectiveNoFileComp,
	))
	_ = command.RegisterFlagCompletionFunc("log-format", cobra.FixedCompletions(
		[]string{logging.FormatConsole, logging.FormatJSON},
		cobra.ShellCompDirectiveNoFileComp,
	))
}

// LogLevel maps --debug onto the zap level that enables V(1) entries.
func LogLevel(flags *GlobalFlags) string {
	if flags != nil && flags.Debug {
		return "debug"
	}
	return "info"
}
