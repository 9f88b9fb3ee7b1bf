package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/config"
	"github.com/crmarques/connectorctl/internal/cli"
	httpapi "github.com/crmarques/connectorctl/internal/providers/api/http"
	fileconfig "github.com/crmarques/connectorctl/internal/providers/config/file"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, newDependencies(""))
	stop()
	if err != nil {
		os.Exit(exitCodeForError(err))
	}
}

// newDependencies wires the file context catalog and the HTTP control-plane
// client. An empty catalogPath falls back to CONNECTORCTL_CONTEXTS_FILE and
// then to the default location.
func newDependencies(catalogPath string) cli.Dependencies {
	return cli.Dependencies{
		Contexts:  fileconfig.NewFileContextService(catalogPath),
		NewClient: newAPIClient,
	}
}

func newAPIClient(server config.APIServer, options cli.ClientOptions) (api.Client, error) {
	client, err := httpapi.NewAPIClient(server, httpapi.WithTimeout(options.Timeout))
	if err != nil {
		return nil, err
	}
	return client, nil
}

func exitCodeForError(err error) int {
	return cli.ExitCodeForError(err)
}
