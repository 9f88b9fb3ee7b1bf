package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/crmarques/connectorctl/api"
)

func (c *APIClient) execute(ctx context.Context, operation api.Operation, endpoint api.Endpoint, payload any) ([]byte, error) {
	request, err := c.newRequest(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	response, err := c.doRequest(ctx, string(operation), request)
	if err != nil {
		return nil, transportError(string(operation)+" request failed", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes+1))
	if err != nil {
		return nil, transportError("failed to read "+string(operation)+" response body", err)
	}
	oversized := len(body) > maxResponseBytes
	if oversized {
		body = body[:maxResponseBytes]
	}

	if response.StatusCode >= http.StatusBadRequest {
		return nil, classifyStatusError(operation, response.StatusCode, body)
	}
	if oversized {
		return nil, transportError(
			fmt.Sprintf("%s response body exceeds %d bytes", operation, maxResponseBytes),
			nil,
		)
	}

	return body, nil
}

func (c *APIClient) newRequest(ctx context.Context, endpoint api.Endpoint, payload any) (*http.Request, error) {
	requestBody, err := encodeRequestBody(payload)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if len(requestBody) > 0 {
		bodyReader = bytes.NewReader(requestBody)
	}

	target := *c.baseURL
	target.Path = joinBaseAndRequestPath(c.baseURL.Path, endpoint.Path)

	request, err := http.NewRequestWithContext(ctx, endpoint.Method, target.String(), bodyReader)
	if err != nil {
		return nil, internalError("failed to create remote request", err)
	}

	request.Header.Set("Accept", defaultMediaType)
	if len(requestBody) > 0 {
		request.Header.Set("Content-Type", defaultMediaType)
	}

	keys := make([]string, 0, len(c.defaultHeaders))
	for key := range c.defaultHeaders {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		request.Header.Set(key, c.defaultHeaders[key])
	}

	if err := c.applyAuth(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func normalizeRequestPath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if trimmed != "/" {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}
	return trimmed
}

// joinBaseAndRequestPath keeps the base URL path as a prefix, so
// http://host/api and /v1/health resolve to /api/v1/health.
func joinBaseAndRequestPath(basePath string, requestPath string) string {
	normalizedBase := normalizeRequestPath(basePath)
	if normalizedBase == "" {
		normalizedBase = "/"
	}

	normalizedRequest := normalizeRequestPath(requestPath)
	if normalizedRequest == "" || normalizedRequest == "/" {
		return normalizedBase
	}

	joined := path.Join(normalizedBase, strings.TrimPrefix(normalizedRequest, "/"))
	if !strings.HasPrefix(joined, "/") {
		return "/" + joined
	}
	return joined
}
