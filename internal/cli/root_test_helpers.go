package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/config"
	"github.com/crmarques/connectorctl/faults"
	clitestkit "github.com/crmarques/connectorctl/internal/cli/testkit"
	"github.com/crmarques/connectorctl/resource"
	"github.com/spf13/cobra"
)

const (
	testWorkspaceID  = "5ae6b09b-fdec-41af-aaf7-7d94cfc33ef6"
	testDefinitionID = "778daa7c-feaf-4db6-96f3-70fd645acc77"
)

func executeForTest(deps Dependencies, stdin string, args ...string) (string, error) {
	return clitestkit.ExecuteCommandForTest(NewRootCommand(deps), stdin, args...)
}

func executeForTestWithStreams(deps Dependencies, stdin string, args ...string) (string, string, error) {
	return clitestkit.ExecuteCommandForTestWithStreams(NewRootCommand(deps), stdin, args...)
}

func registeredPaths(command *cobra.Command, prefix []string) [][]string {
	return clitestkit.RegisteredPaths(command, prefix)
}

func joinPath(path []string) string {
	return clitestkit.JoinPath(path)
}

func testDeps() Dependencies {
	return testDepsWith(newTestAPIClient())
}

func testDepsWith(client *testAPIClient) Dependencies {
	contexts := &testContextService{}
	return Dependencies{
		Contexts: contexts,
		NewClient: func(server config.APIServer, options ClientOptions) (api.Client, error) {
			client.mu.Lock()
			client.servers = append(client.servers, server)
			client.options = append(client.options, options)
			client.mu.Unlock()
			return client, nil
		},
	}
}

type testContextService struct {
	mu         sync.Mutex
	current    string
	selections []config.ContextSelection
}

func (s *testContextService) List(context.Context) ([]config.Context, error) {
	return []config.Context{testContext("dev"), testContext("prod")}, nil
}

func (s *testContextService) SetCurrent(_ context.Context, name string) error {
	if name != "dev" && name != "prod" {
		return faults.NewNotFoundError(fmt.Sprintf("context %q not found", name), nil)
	}
	s.mu.Lock()
	s.current = name
	s.mu.Unlock()
	return nil
}

func (s *testContextService) GetCurrent(context.Context) (config.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return testContext("dev"), nil
	}
	return testContext(s.current), nil
}

func (s *testContextService) ResolveContext(_ context.Context, selection config.ContextSelection) (config.Context, error) {
	s.mu.Lock()
	s.selections = append(s.selections, selection)
	s.mu.Unlock()

	name := selection.Name
	if name == "" {
		name = "dev"
	}
	if name == "missing" {
		return config.Context{}, faults.NewNotFoundError(fmt.Sprintf("context %q not found", name), nil)
	}

	resolved := testContext(name)
	if value, ok := selection.Overrides[config.OverrideAPIBaseURL]; ok {
		resolved.API.BaseURL = value
	}
	if value, ok := selection.Overrides[config.OverrideWorkspaceID]; ok {
		resolved.WorkspaceID = value
	}
	return resolved, nil
}

func (s *testContextService) Validate(context.Context, config.Context) error { return nil }

func testContext(name string) config.Context {
	return config.Context{
		Name:        name,
		WorkspaceID: testWorkspaceID,
		API: &config.APIServer{
			BaseURL: "https://" + name + ".example.invalid/api",
		},
	}
}

type testAPICall struct {
	operation api.Operation
	payload   map[string]any
}

type testAPIClient struct {
	mu        sync.Mutex
	calls     []testAPICall
	servers   []config.APIServer
	options   []ClientOptions
	responses map[api.Operation]func(map[string]any) (resource.Value, error)
}

func newTestAPIClient() *testAPIClient {
	return &testAPIClient{responses: map[api.Operation]func(map[string]any) (resource.Value, error){}}
}

func (c *testAPIClient) on(operation api.Operation, fn func(map[string]any) (resource.Value, error)) *testAPIClient {
	c.responses[operation] = fn
	return c
}

func (c *testAPIClient) Invoke(_ context.Context, operation api.Operation, payload any) (resource.Value, error) {
	typed, _ := payload.(map[string]any)

	c.mu.Lock()
	c.calls = append(c.calls, testAPICall{operation: operation, payload: typed})
	fn, found := c.responses[operation]
	c.mu.Unlock()

	if !found {
		return nil, errors.New("unexpected operation " + string(operation))
	}
	return fn(typed)
}

func (c *testAPIClient) callsFor(operation api.Operation) []testAPICall {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched := make([]testAPICall, 0)
	for _, call := range c.calls {
		if call.operation == operation {
			matched = append(matched, call)
		}
	}
	return matched
}

func sourceSearch(items ...map[string]any) func(map[string]any) (resource.Value, error) {
	return func(map[string]any) (resource.Value, error) {
		matches := make([]any, len(items))
		for idx, item := range items {
			matches[idx] = item
		}
		return map[string]any{"sources": matches}, nil
	}
}

func echoSource(id string) func(map[string]any) (resource.Value, error) {
	return func(payload map[string]any) (resource.Value, error) {
		return map[string]any{
			"source_id":                id,
			"name":                     payload["name"],
			"connection_configuration": payload["connection_configuration"],
		}, nil
	}
}

func writeResourceFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write resource file: %v", err)
	}
	return path
}

const sourceFileYAML = `definition_type: source
definition_id: 778daa7c-feaf-4db6-96f3-70fd645acc77
resource_name: my-source
configuration:
  dataset_name: covid
  rows: 10
`

func assertTypedCategory(t *testing.T, err error, category faults.ErrorCategory) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %q error, got nil", category)
	}
	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		t.Fatalf("expected typed error, got %T: %v", err, err)
	}
	if typedErr.Category != category {
		t.Fatalf("expected %q category, got %q (%v)", category, typedErr.Category, err)
	}
}
