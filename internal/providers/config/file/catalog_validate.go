package file

import (
	"fmt"
	"maps"
	"net/url"
	"sort"
	"strings"

	"github.com/crmarques/connectorctl/config"
	"github.com/crmarques/connectorctl/yamlutil"
	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
)

// envContextName names the context assembled from overrides when no catalog
// exists.
const envContextName = "env"

func validateCatalog(contextCatalog config.ContextCatalog) error {
	if len(contextCatalog.Contexts) == 0 {
		if contextCatalog.CurrentCtx != "" {
			return validationError("current-ctx must be empty when contexts list is empty", nil)
		}
		return nil
	}

	seen := map[string]struct{}{}
	for _, item := range contextCatalog.Contexts {
		if item.Name == "" {
			return validationError("context name must not be empty", nil)
		}
		if _, exists := seen[item.Name]; exists {
			return validationError(fmt.Sprintf("duplicate context name %q", item.Name), nil)
		}
		seen[item.Name] = struct{}{}

		// Contexts with ${NAME} references are checked once resolved.
		if containsEnvPlaceholder(item) {
			continue
		}
		if err := validateConfig(normalizeConfig(item)); err != nil {
			return fmt.Errorf("context %q: %w", item.Name, err)
		}
	}

	if contextCatalog.CurrentCtx == "" {
		return validationError("current-ctx must be set when contexts are defined", nil)
	}

	if _, exists := seen[contextCatalog.CurrentCtx]; !exists {
		return validationError(fmt.Sprintf("current-ctx %q does not match any context", contextCatalog.CurrentCtx), nil)
	}

	return nil
}

func validateConfig(cfg config.Context) error {
	if cfg.Name == "" {
		return validationError("context name must not be empty", nil)
	}

	if cfg.WorkspaceID == "" {
		return validationError("workspace-id is required", nil)
	}
	if _, err := uuid.Parse(cfg.WorkspaceID); err != nil {
		return validationError(fmt.Sprintf("workspace-id %q is not a valid UUID", cfg.WorkspaceID), err)
	}

	return validateAPIServer(cfg.API)
}

func normalizeConfig(cfg config.Context) config.Context {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.WorkspaceID = strings.TrimSpace(cfg.WorkspaceID)
	if cfg.API != nil {
		cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	}
	return cfg
}

func validateAPIServer(apiServer *config.APIServer) error {
	if apiServer == nil {
		return validationError("api is required", nil)
	}
	if apiServer.BaseURL == "" {
		return validationError("api.base-url is required", nil)
	}
	parsedURL, err := url.Parse(apiServer.BaseURL)
	if err != nil || parsedURL.Host == "" || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return validationError(fmt.Sprintf("api.base-url %q must be an absolute http or https URL", apiServer.BaseURL), err)
	}
	if err := validateAuth(apiServer.Auth); err != nil {
		return err
	}

	if apiServer.TLS != nil {
		tls := apiServer.TLS
		if (tls.ClientCertFile == "") != (tls.ClientKeyFile == "") {
			return validationError("api.tls.client-cert-file and api.tls.client-key-file must be set together", nil)
		}
	}

	return nil
}

// validateAuth accepts a nil auth block for unauthenticated control planes.
func validateAuth(auth *config.HTTPAuth) error {
	if auth == nil {
		return nil
	}
	if countSet(
		auth.OAuth2 != nil,
		auth.BasicAuth != nil,
		auth.BearerToken != nil,
		auth.CustomHeader != nil,
	) != 1 {
		return validationError("api.auth must define exactly one of oauth2, basic-auth, bearer-token, custom-header", nil)
	}

	if auth.OAuth2 != nil {
		oauth := auth.OAuth2
		if oauth.TokenURL == "" || oauth.GrantType == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			return validationError("api.auth.oauth2 requires token-url, grant-type, client-id, client-secret", nil)
		}
		if oauth.GrantType != config.OAuthClientCreds {
			return validationError(fmt.Sprintf("api.auth.oauth2.grant-type %q is not supported: use %s", oauth.GrantType, config.OAuthClientCreds), nil)
		}
	}

	if auth.BasicAuth != nil {
		basic := auth.BasicAuth
		if basic.Username == "" || basic.Password == "" {
			return validationError("api.auth.basic-auth requires username and password", nil)
		}
	}

	if auth.BearerToken != nil && auth.BearerToken.Token == "" {
		return validationError("api.auth.bearer-token.token is required", nil)
	}

	if auth.CustomHeader != nil {
		head := auth.CustomHeader
		if head.Header == "" || head.Token == "" {
			return validationError("api.auth.custom-header requires header and token", nil)
		}
	}

	return nil
}

func applyOverrides(cfg config.Context, overrides map[string]string) (config.Context, error) {
	for _, key := range sortedOverrideKeys(overrides) {
		value := overrides[key]
		switch key {
		case config.OverrideAPIBaseURL:
			if cfg.API == nil {
				cfg.API = &config.APIServer{}
			}
			cfg.API.BaseURL = value
		case config.OverrideWorkspaceID:
			cfg.WorkspaceID = value
		default:
			return config.Context{}, unknownOverrideError(key)
		}
	}

	return cfg, nil
}

// cloneContext copies the pointer fields overrides write to so the loaded
// catalog is never mutated.
func cloneContext(cfg config.Context) config.Context {
	if cfg.API == nil {
		return cfg
	}
	apiServer := *cfg.API
	apiServer.DefaultHeaders = maps.Clone(cfg.API.DefaultHeaders)
	cfg.API = &apiServer
	return cfg
}

func sortedOverrideKeys(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func countSet(values ...bool) int {
	count := 0
	for _, value := range values {
		if value {
			count++
		}
	}
	return count
}

func containsEnvPlaceholder(cfg config.Context) bool {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "${")
}

func expandEnvPlaceholders(cfg config.Context, lookup yamlutil.LookupFunc) (config.Context, error) {
	if !containsEnvPlaceholder(cfg) {
		return cfg, nil
	}
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	if err := yamlutil.ExpandEnvPlaceholdersInto(&cfg, lookup); err != nil {
		return config.Context{}, validationError(fmt.Sprintf("context %q", cfg.Name), err)
	}
	return cfg, nil
}
