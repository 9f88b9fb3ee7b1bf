package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crmarques/connectorctl/config"
	"github.com/go-logr/logr"
)

type tlsDebugInfo struct {
	enabled            bool
	insecureSkipVerify bool
	caCertFile         string
	clientCertFile     string
}

func newTLSDebugInfo(tlsSettings *config.TLS) tlsDebugInfo {
	if tlsSettings == nil {
		return tlsDebugInfo{}
	}

	return tlsDebugInfo{
		enabled:            true,
		insecureSkipVerify: tlsSettings.InsecureSkipVerify,
		caCertFile:         strings.TrimSpace(tlsSettings.CACertFile),
		clientCertFile:     strings.TrimSpace(tlsSettings.ClientCertFile),
	}
}

func (c *APIClient) doRequest(ctx context.Context, purpose string, request *http.Request) (*http.Response, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues(
		"purpose", purpose,
		"method", request.Method,
		"url", redactURLForDebug(request.URL),
	)
	logger.V(1).Info("http request",
		"tlsEnabled", c.tlsDebug.enabled,
		"mtlsEnabled", c.tlsDebug.clientCertFile != "",
		"tlsInsecureSkipVerify", c.tlsDebug.insecureSkipVerify,
		"tlsCACertFile", c.tlsDebug.caCertFile,
	)

	started := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		logger.V(1).Info("http request failed", "error", err.Error())
		return nil, err
	}

	logger.V(1).Info("http response", "status", response.StatusCode, "duration", time.Since(started))
	return response, nil
}

func redactURLForDebug(value *url.URL) string {
	if value == nil {
		return ""
	}

	cloned := *value
	cloned.User = nil

	query := cloned.Query()
	if len(query) > 0 {
		for key, values := range query {
			redacted := make([]string, len(values))
			for idx := range values {
				redacted[idx] = "<redacted>"
			}
			query[key] = redacted
		}
		cloned.RawQuery = query.Encode()
	}

	return cloned.String()
}
