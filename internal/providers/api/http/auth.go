package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/crmarques/connectorctl/config"
	"github.com/go-logr/logr"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type authMode int

const (
	authModeNone authMode = iota
	authModeOAuth2
	authModeBasic
	authModeBearer
	authModeCustomHeader
)

type authConfig struct {
	mode         authMode
	oauth2       config.OAuth2
	basicAuth    config.BasicAuth
	bearerToken  config.BearerTokenAuth
	customHeader config.HeaderTokenAuth
}

// buildAuthConfig accepts a nil block for control planes without
// authentication; otherwise exactly one mode must be set.
func buildAuthConfig(cfg *config.HTTPAuth) (authConfig, error) {
	if cfg == nil {
		return authConfig{mode: authModeNone}, nil
	}

	setCount := 0
	if cfg.OAuth2 != nil {
		setCount++
	}
	if cfg.BasicAuth != nil {
		setCount++
	}
	if cfg.BearerToken != nil {
		setCount++
	}
	if cfg.CustomHeader != nil {
		setCount++
	}
	if setCount != 1 {
		return authConfig{}, validationError("api.auth must define exactly one auth mode", nil)
	}

	switch {
	case cfg.OAuth2 != nil:
		oauth := *cfg.OAuth2
		if strings.TrimSpace(oauth.TokenURL) == "" ||
			strings.TrimSpace(oauth.GrantType) == "" ||
			strings.TrimSpace(oauth.ClientID) == "" ||
			strings.TrimSpace(oauth.ClientSecret) == "" {
			return authConfig{}, validationError("api.auth.oauth2 requires token-url, grant-type, client-id, client-secret", nil)
		}
		if strings.TrimSpace(oauth.GrantType) != config.OAuthClientCreds {
			return authConfig{}, validationError("api.auth.oauth2.grant-type supports only client_credentials", nil)
		}
		tokenURL, err := url.Parse(oauth.TokenURL)
		if err != nil || tokenURL.Scheme == "" || tokenURL.Host == "" {
			return authConfig{}, validationError("api.auth.oauth2.token-url is invalid", err)
		}

		return authConfig{mode: authModeOAuth2, oauth2: oauth}, nil
	case cfg.BasicAuth != nil:
		basic := *cfg.BasicAuth
		if basic.Username == "" || basic.Password == "" {
			return authConfig{}, validationError("api.auth.basic-auth requires username and password", nil)
		}
		return authConfig{mode: authModeBasic, basicAuth: basic}, nil
	case cfg.BearerToken != nil:
		bearer := *cfg.BearerToken
		if bearer.Token == "" {
			return authConfig{}, validationError("api.auth.bearer-token.token is required", nil)
		}
		return authConfig{mode: authModeBearer, bearerToken: bearer}, nil
	default:
		custom := *cfg.CustomHeader
		if custom.Header == "" || custom.Token == "" {
			return authConfig{}, validationError("api.auth.custom-header requires header and token", nil)
		}
		return authConfig{mode: authModeCustomHeader, customHeader: custom}, nil
	}
}

func (c *APIClient) applyAuth(ctx context.Context, request *http.Request) error {
	switch c.auth.mode {
	case authModeNone:
	case authModeOAuth2:
		token, err := c.oauthToken(ctx)
		if err != nil {
			return err
		}
		request.Header.Set("Authorization", "Bearer "+token)
	case authModeBasic:
		request.SetBasicAuth(c.auth.basicAuth.Username, c.auth.basicAuth.Password)
	case authModeBearer:
		request.Header.Set("Authorization", "Bearer "+c.auth.bearerToken.Token)
	case authModeCustomHeader:
		request.Header.Set(c.auth.customHeader.Header, c.auth.customHeader.Token)
	default:
		return internalError("api.auth mode is not configured", nil)
	}
	return nil
}

// newOAuth2TokenSource sends token requests through httpClient. The returned
// source caches the token until shortly before it expires.
func newOAuth2TokenSource(cfg config.OAuth2, httpClient *http.Client) oauth2.TokenSource {
	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       strings.Fields(cfg.Scope),
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if audience := strings.TrimSpace(cfg.Audience); audience != "" {
		credentials.EndpointParams = url.Values{"audience": {audience}}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	return credentials.TokenSource(ctx)
}

func (c *APIClient) oauthToken(ctx context.Context) (string, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("purpose", "oauth2-token")
	logger.V(1).Info("resolving oauth2 token", "url", redactURLForDebug(c.oauthTokenURL))

	token, err := c.tokenSource.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			status := 0
			if retrieveErr.Response != nil {
				status = retrieveErr.Response.StatusCode
			}
			return "", authError(
				fmt.Sprintf("oauth2 token request failed with status %d: %s", status, summarizeBody(retrieveErr.Body)),
				err,
			)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return "", transportError("oauth2 token request failed", err)
		}
		return "", authError("oauth2 token response is invalid", err)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return "", authError("oauth2 token response does not include access_token", nil)
	}
	return token.AccessToken, nil
}
