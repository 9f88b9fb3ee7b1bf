package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/crmarques/connectorctl/faults"
)

func TestStatusCodeThroughWrapping(t *testing.T) {
	t.Parallel()

	apiErr := &Error{Operation: OperationCreateSource, StatusCode: http.StatusUnprocessableEntity, Body: `{"message":"bad"}`}
	wrapped := fmt.Errorf("apply: %w", faults.NewTypedError(faults.ValidationError, "rejected", apiErr))

	if got := StatusCode(wrapped); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
	if got := StatusCode(errors.New("plain")); got != 0 {
		t.Fatalf("expected 0 for plain error, got %d", got)
	}
	if got := StatusCode(nil); got != 0 {
		t.Fatalf("expected 0 for nil error, got %d", got)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	withBody := &Error{Operation: OperationSearchSources, StatusCode: 500, Body: "boom"}
	if withBody.Error() != "searchSources failed with status 500: boom" {
		t.Fatalf("unexpected message %q", withBody.Error())
	}
	withoutBody := &Error{Operation: OperationHealth, StatusCode: 503}
	if withoutBody.Error() != "health failed with status 503" {
		t.Fatalf("unexpected message %q", withoutBody.Error())
	}
}

func TestEndpointFor(t *testing.T) {
	t.Parallel()

	endpoint, found := EndpointFor(OperationSearchDestinations)
	if !found {
		t.Fatalf("expected searchDestinations endpoint")
	}
	if endpoint.Method != http.MethodPost || endpoint.Path != "/v1/destinations/search" {
		t.Fatalf("unexpected endpoint %#v", endpoint)
	}
	if _, found := EndpointFor(Operation("deleteSource")); found {
		t.Fatalf("expected unknown operation to have no endpoint")
	}
}
