// Package api describes the control-plane operations connectorctl calls on the
// remote data-integration platform. Transport, authentication and timeouts are
// the concern of the Client implementation.
package api

import (
	"context"
	"net/http"

	"github.com/crmarques/connectorctl/resource"
)

type Operation string

const (
	OperationCreateSource       Operation = "createSource"
	OperationUpdateSource       Operation = "updateSource"
	OperationSearchSources      Operation = "searchSources"
	OperationCreateDestination  Operation = "createDestination"
	OperationUpdateDestination  Operation = "updateDestination"
	OperationSearchDestinations Operation = "searchDestinations"
	OperationHealth             Operation = "health"
	OperationGetWorkspace       Operation = "getWorkspace"
)

// Endpoint is the HTTP method and path, relative to the API base URL, that
// serves an operation.
type Endpoint struct {
	Method string
	Path   string
}

var endpoints = map[Operation]Endpoint{
	OperationCreateSource:       {Method: http.MethodPost, Path: "/v1/sources/create"},
	OperationUpdateSource:       {Method: http.MethodPost, Path: "/v1/sources/update"},
	OperationSearchSources:      {Method: http.MethodPost, Path: "/v1/sources/search"},
	OperationCreateDestination:  {Method: http.MethodPost, Path: "/v1/destinations/create"},
	OperationUpdateDestination:  {Method: http.MethodPost, Path: "/v1/destinations/update"},
	OperationSearchDestinations: {Method: http.MethodPost, Path: "/v1/destinations/search"},
	OperationHealth:             {Method: http.MethodGet, Path: "/v1/health"},
	OperationGetWorkspace:       {Method: http.MethodPost, Path: "/v1/workspaces/get"},
}

func EndpointFor(operation Operation) (Endpoint, bool) {
	endpoint, found := endpoints[operation]
	return endpoint, found
}

type Client interface {
	// Invoke sends payload to the endpoint serving operation and returns the
	// decoded response. Rejections carry an *Error reachable via errors.As.
	Invoke(ctx context.Context, operation Operation, payload any) (resource.Value, error)
}
