package reconcile

import (
	"strings"

	"github.com/crmarques/connectorctl/internal/cli/common"
	"github.com/spf13/cobra"
)

func requireResourceFiles(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return common.ValidationError("resource file is required", nil)
	}
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			return common.ValidationError("resource file path must not be empty", nil)
		}
	}
	return nil
}
