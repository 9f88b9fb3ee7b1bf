package resource

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/crmarques/connectorctl/faults"
	"github.com/google/go-cmp/cmp"
)

func TestNormalizeAlignsYAMLAndJSONNumbers(t *testing.T) {
	t.Parallel()

	fromYAML, err := Normalize(map[string]any{
		"port":    5432,
		"ratio":   0.5,
		"timeout": 30.0,
		"keys":    map[any]any{1: "a"},
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	fromJSON, err := Normalize(map[string]any{
		"port":    json.Number("5432"),
		"ratio":   json.Number("0.5"),
		"timeout": json.Number("30"),
		"keys":    map[string]any{"1": "a"},
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if diff := cmp.Diff(fromYAML, fromJSON); diff != "" {
		t.Fatalf("normalized values differ (-yaml +json):\n%s", diff)
	}
}

func TestNormalizeRejectsNonFiniteFloat(t *testing.T) {
	t.Parallel()

	_, err := Normalize(map[string]any{"nested": []any{math.Inf(1)}})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNormalizeMapNilIsEmpty(t *testing.T) {
	t.Parallel()

	value, err := NormalizeMap(nil)
	if err != nil {
		t.Fatalf("NormalizeMap returned error: %v", err)
	}
	if value == nil || len(value) != 0 {
		t.Fatalf("expected empty map, got %#v", value)
	}
}
