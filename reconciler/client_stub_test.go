package reconciler

import (
	"context"
	"fmt"
	"sync"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/resource"
)

const (
	testWorkspaceID  = "5ae6b09b-fdec-41af-aaf7-7d94cfc33ef6"
	testDefinitionID = "778daa7c-feaf-4db6-96f3-70fd645acc77"
)

type recordedCall struct {
	Operation api.Operation
	Payload   map[string]any
}

type stubClient struct {
	mu        sync.Mutex
	calls     []recordedCall
	responses map[api.Operation]func(payload map[string]any) (resource.Value, error)
}

func newStubClient() *stubClient {
	return &stubClient{responses: map[api.Operation]func(map[string]any) (resource.Value, error){}}
}

func (s *stubClient) on(operation api.Operation, fn func(payload map[string]any) (resource.Value, error)) *stubClient {
	s.responses[operation] = fn
	return s
}

func (s *stubClient) Invoke(_ context.Context, operation api.Operation, payload any) (resource.Value, error) {
	typed, _ := payload.(map[string]any)

	s.mu.Lock()
	s.calls = append(s.calls, recordedCall{Operation: operation, Payload: typed})
	fn, found := s.responses[operation]
	s.mu.Unlock()

	if !found {
		return nil, fmt.Errorf("unexpected operation %s", operation)
	}
	return fn(typed)
}

func (s *stubClient) callsFor(operation api.Operation) []recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]recordedCall, 0)
	for _, call := range s.calls {
		if call.Operation == operation {
			matched = append(matched, call)
		}
	}
	return matched
}

func searchResult(field string, items ...map[string]any) func(map[string]any) (resource.Value, error) {
	return func(map[string]any) (resource.Value, error) {
		matches := make([]any, len(items))
		for idx, item := range items {
			matches[idx] = item
		}
		return map[string]any{field: matches}, nil
	}
}

func echoResource(idField string, id string) func(map[string]any) (resource.Value, error) {
	return func(payload map[string]any) (resource.Value, error) {
		return map[string]any{
			idField:                    id,
			"name":                     payload["name"],
			"workspace_id":             testWorkspaceID,
			"connection_configuration": payload["connection_configuration"],
		}, nil
	}
}

func failWith(err error) func(map[string]any) (resource.Value, error) {
	return func(map[string]any) (resource.Value, error) {
		return nil, err
	}
}

func sourceConfig(configuration map[string]any) resource.ResourceConfig {
	return resource.ResourceConfig{
		Kind:          resource.KindSource,
		DefinitionID:  testDefinitionID,
		Name:          "my-source",
		Configuration: configuration,
		Extra:         map[string]any{"owner": "data-team"},
	}
}
