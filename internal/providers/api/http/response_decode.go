package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/faults"
	"github.com/crmarques/connectorctl/resource"
)

func encodeRequestBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	normalized, err := resource.Normalize(body)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(normalized)
	if err != nil {
		return nil, validationError("failed to encode JSON request body", err)
	}
	return encoded, nil
}

// decodeJSONResponse keeps numbers exact via UseNumber before normalizing them
// to int64 or float64.
func decodeJSONResponse(body []byte) (resource.Value, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, validationError("response body is not valid JSON", err)
	}

	normalized, err := resource.Normalize(value)
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

// classifyStatusError wraps an *api.Error in the fault category matching its
// status so callers can branch on either.
func classifyStatusError(operation api.Operation, statusCode int, body []byte) error {
	apiErr := &api.Error{Operation: operation, StatusCode: statusCode, Body: summarizeBody(body)}

	category := faults.TransportError
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		category = faults.AuthError
	case statusCode == http.StatusNotFound:
		category = faults.NotFoundError
	case statusCode == http.StatusConflict:
		category = faults.ConflictError
	case statusCode >= 400 && statusCode < 500:
		category = faults.ValidationError
	}
	return faults.NewTypedError(category, "", apiErr)
}

const maxSummaryBytes = 512

// summarizeBody cuts long bodies on a rune boundary.
func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) <= maxSummaryBytes {
		return trimmed
	}
	cut := maxSummaryBytes
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut] + "..."
}
