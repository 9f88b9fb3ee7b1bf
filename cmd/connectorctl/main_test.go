package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crmarques/connectorctl/config"
	"github.com/crmarques/connectorctl/faults"
	"github.com/crmarques/connectorctl/internal/cli"
)

func TestNewDependenciesUsesCatalogPath(t *testing.T) {
	t.Parallel()

	catalogPath := filepath.Join(t.TempDir(), "contexts.yaml")
	content := `contexts:
  - name: local
    workspace-id: 5ae6b09b-fdec-41af-aaf7-7d94cfc33ef6
    api:
      base-url: http://localhost:8000/api
current-ctx: local
`
	if err := os.WriteFile(catalogPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	deps := newDependencies(catalogPath)
	resolved, err := deps.Contexts.ResolveContext(context.Background(), config.ContextSelection{})
	if err != nil {
		t.Fatalf("ResolveContext returned error: %v", err)
	}
	if resolved.Name != "local" || resolved.API == nil {
		t.Fatalf("unexpected resolved context %#v", resolved)
	}

	client, err := deps.NewClient(*resolved.API, cli.ClientOptions{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if client == nil {
		t.Fatal("expected api client")
	}
}

func TestNewAPIClientRejectsInvalidServer(t *testing.T) {
	t.Parallel()

	_, err := newAPIClient(config.APIServer{BaseURL: "not a url"}, cli.ClientOptions{})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "validation", err: faults.NewValidationError("bad", nil), want: 2},
		{name: "not found", err: faults.NewNotFoundError("missing", nil), want: 3},
		{name: "plain", err: errors.New("boom"), want: 1},
	}

	for _, testCase := range testCases {
		if got := exitCodeForError(testCase.err); got != testCase.want {
			t.Fatalf("exitCodeForError(%s) = %d, want %d", testCase.name, got, testCase.want)
		}
	}
}
