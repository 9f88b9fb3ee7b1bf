package config

type ContextSelection struct {
	Name      string
	Overrides map[string]string
}

const (
	ContextFileEnvVar         = "CONNECTORCTL_CONTEXTS_FILE"
	APIURLEnvVar              = "CONNECTORCTL_API_URL"
	WorkspaceIDEnvVar         = "CONNECTORCTL_WORKSPACE_ID"
	DefaultContextCatalogPath = "~/.connectorctl/contexts.yaml"
	OAuthClientCreds          = "client_credentials"
)

// Override keys accepted by ContextSelection.Overrides.
const (
	OverrideAPIBaseURL  = "api.base-url"
	OverrideWorkspaceID = "workspace-id"
)

type ContextCatalog struct {
	Contexts   []Context `yaml:"contexts"`
	CurrentCtx string    `yaml:"current-ctx"`
}

// Context selects the control plane, the credentials used to reach it and the
// workspace resources are reconciled in.
type Context struct {
	Name        string     `yaml:"name"`
	WorkspaceID string     `yaml:"workspace-id"`
	API         *APIServer `yaml:"api,omitempty"`
}

type APIServer struct {
	BaseURL        string            `yaml:"base-url"`
	DefaultHeaders map[string]string `yaml:"default-headers,omitempty"`
	Auth           *HTTPAuth         `yaml:"auth,omitempty"`
	TLS            *TLS              `yaml:"tls,omitempty"`
}

type HTTPAuth struct {
	OAuth2       *OAuth2          `yaml:"oauth2,omitempty"`
	BasicAuth    *BasicAuth       `yaml:"basic-auth,omitempty"`
	BearerToken  *BearerTokenAuth `yaml:"bearer-token,omitempty"`
	CustomHeader *HeaderTokenAuth `yaml:"custom-header,omitempty"`
}

type OAuth2 struct {
	TokenURL     string `yaml:"token-url"`
	GrantType    string `yaml:"grant-type"`
	ClientID     string `yaml:"client-id"`
	ClientSecret string `yaml:"client-secret"`
	Scope        string `yaml:"scope,omitempty"`
	Audience     string `yaml:"audience,omitempty"`
}

type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type BearerTokenAuth struct {
	Token string `yaml:"token"`
}

type HeaderTokenAuth struct {
	Header string `yaml:"header"`
	Token  string `yaml:"token"`
}

type TLS struct {
	CACertFile         string `yaml:"ca-cert-file,omitempty"`
	ClientCertFile     string `yaml:"client-cert-file,omitempty"`
	ClientKeyFile      string `yaml:"client-key-file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify,omitempty"`
}
