package resource

import (
	"context"
	"testing"

	"github.com/crmarques/connectorctl/faults"
	"github.com/google/go-cmp/cmp"
)

func TestQueryCollectsEveryResult(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"sources": []any{
			map[string]any{"source_id": "a", "port": int64(1)},
			map[string]any{"source_id": "b", "port": int64(2)},
		},
	}

	results, err := Query(context.Background(), payload, ".sources // [] | .[]")
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	expected := []Value{
		map[string]any{"source_id": "a", "port": int64(1)},
		map[string]any{"source_id": "b", "port": int64(2)},
	}
	if diff := cmp.Diff(expected, results); diff != "" {
		t.Fatalf("query results mismatch (-want +got):\n%s", diff)
	}

	missing, err := Query(context.Background(), map[string]any{}, ".sources // [] | .[]")
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected no results, got %#v", missing)
	}
}

func TestQueryErrors(t *testing.T) {
	t.Parallel()

	if _, err := Query(context.Background(), nil, ".["); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected parse validation error, got %v", err)
	}
	if _, err := Query(context.Background(), "text", ".sources[]"); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected evaluation validation error, got %v", err)
	}
}
