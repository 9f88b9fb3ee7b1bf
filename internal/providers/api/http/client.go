package http

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/config"
	"github.com/crmarques/connectorctl/resource"
	"golang.org/x/oauth2"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultMediaType   = "application/json"
	maxResponseBytes   = 1 << 20
)

var _ api.Client = (*APIClient)(nil)

// APIClient calls the control-plane API over HTTP. It is safe for concurrent
// use; the only mutable state is the OAuth2 token cached by tokenSource.
type APIClient struct {
	baseURL        *url.URL
	defaultHeaders map[string]string
	auth           authConfig
	client         *http.Client
	tlsDebug       tlsDebugInfo

	tokenSource   oauth2.TokenSource
	oauthTokenURL *url.URL
}

type ClientOption func(*APIClient)

// WithTimeout replaces the default 30s client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *APIClient) {
		if c == nil || timeout <= 0 {
			return
		}
		c.client.Timeout = timeout
	}
}

func NewAPIClient(cfg config.APIServer, opts ...ClientOption) (*APIClient, error) {
	baseURL, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	auth, err := buildAuthConfig(cfg.Auth)
	if err != nil {
		return nil, err
	}

	tlsConfig, err := buildTLSConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	client := &APIClient{
		baseURL:        baseURL,
		defaultHeaders: maps.Clone(cfg.DefaultHeaders),
		auth:           auth,
		client: &http.Client{
			Timeout:   defaultHTTPTimeout,
			Transport: transport,
		},
		tlsDebug: newTLSDebugInfo(cfg.TLS),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(client)
	}
	if auth.mode == authModeOAuth2 {
		client.oauthTokenURL, _ = url.Parse(auth.oauth2.TokenURL)
		client.tokenSource = newOAuth2TokenSource(auth.oauth2, client.client)
	}
	return client, nil
}

// Invoke sends payload as the JSON body of the endpoint serving operation.
// A nil payload sends no body.
func (c *APIClient) Invoke(ctx context.Context, operation api.Operation, payload any) (resource.Value, error) {
	endpoint, found := api.EndpointFor(operation)
	if !found {
		return nil, validationError(fmt.Sprintf("unsupported api operation %q", operation), nil)
	}

	body, err := c.execute(ctx, operation, endpoint, payload)
	if err != nil {
		return nil, err
	}
	return decodeJSONResponse(body)
}

func parseBaseURL(raw string) (*url.URL, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, validationError("api.base-url is required", nil)
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return nil, validationError("api.base-url is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, validationError("api.base-url must use http or https", nil)
	}
	if parsed.Host == "" {
		return nil, validationError("api.base-url host is required", nil)
	}

	if parsed.Path == "" {
		parsed.Path = "/"
	}

	return parsed, nil
}
