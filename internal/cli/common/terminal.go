package common

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func IsInteractiveTerminal(command *cobra.Command) bool {
	return isTerminalReader(command.InOrStdin()) && IsTerminalWriter(command.OutOrStdout())
}

func IsTerminalWriter(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok || file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func isTerminalReader(reader io.Reader) bool {
	file, ok := reader.(*os.File)
	if !ok || file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
