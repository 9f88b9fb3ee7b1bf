package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crmarques/connectorctl/config"
	"github.com/crmarques/connectorctl/faults"
)

var _ config.ContextService = (*FileContextService)(nil)

type FileContextService struct {
	contextCatalogPath string
	lookupEnv          func(string) (string, bool)
}

func NewFileContextService(path string) *FileContextService {
	return &FileContextService{contextCatalogPath: path, lookupEnv: os.LookupEnv}
}

func (m *FileContextService) List(_ context.Context) ([]config.Context, error) {
	contextCatalog, err := m.loadCatalog()
	if err != nil {
		return nil, err
	}

	contexts := make([]config.Context, len(contextCatalog.Contexts))
	copy(contexts, contextCatalog.Contexts)
	return contexts, nil
}

func (m *FileContextService) SetCurrent(_ context.Context, name string) error {
	contextCatalog, err := m.loadCatalog()
	if err != nil {
		return err
	}

	if findContextIndex(contextCatalog.Contexts, name) < 0 {
		return notFoundError(fmt.Sprintf("context %q not found", name))
	}

	contextCatalog.CurrentCtx = name
	return m.saveCatalog(contextCatalog)
}

func (m *FileContextService) GetCurrent(_ context.Context) (config.Context, error) {
	contextCatalog, err := m.loadCatalog()
	if err != nil {
		return config.Context{}, err
	}
	if contextCatalog.CurrentCtx == "" {
		return config.Context{}, notFoundError("current context not set")
	}

	idx := findContextIndex(contextCatalog.Contexts, contextCatalog.CurrentCtx)
	if idx < 0 {
		return config.Context{}, notFoundError(fmt.Sprintf("current context %q not found", contextCatalog.CurrentCtx))
	}

	return contextCatalog.Contexts[idx], nil
}

// ResolveContext expands ${NAME} references of the selected context, then
// layers environment overrides and selection overrides on top of it. With an empty catalog a context is assembled
// from overrides alone, so CI runs do not need a catalog file.
func (m *FileContextService) ResolveContext(_ context.Context, selection config.ContextSelection) (config.Context, error) {
	contextCatalog, err := m.loadCatalog()
	if err != nil {
		return config.Context{}, err
	}

	var resolved config.Context
	effectiveName := selection.Name
	if effectiveName == "" {
		effectiveName = contextCatalog.CurrentCtx
	}

	switch {
	case effectiveName != "":
		idx := findContextIndex(contextCatalog.Contexts, effectiveName)
		if idx < 0 {
			return config.Context{}, notFoundError(fmt.Sprintf("context %q not found", effectiveName))
		}
		resolved = cloneContext(contextCatalog.Contexts[idx])
	case len(contextCatalog.Contexts) == 0 && m.hasAPIOverride(selection.Overrides):
		resolved = config.Context{Name: envContextName, API: &config.APIServer{}}
	default:
		return config.Context{}, notFoundError("current context not set")
	}

	resolved, err = expandEnvPlaceholders(resolved, m.lookupEnv)
	if err != nil {
		return config.Context{}, err
	}
	resolved, err = applyOverrides(resolved, m.envOverrides())
	if err != nil {
		return config.Context{}, err
	}
	resolved, err = applyOverrides(resolved, selection.Overrides)
	if err != nil {
		return config.Context{}, err
	}
	resolved = normalizeConfig(resolved)
	if err := validateConfig(resolved); err != nil {
		return config.Context{}, err
	}

	return resolved, nil
}

func (m *FileContextService) Validate(_ context.Context, cfg config.Context) error {
	return validateConfig(normalizeConfig(cfg))
}

func (m *FileContextService) envOverrides() map[string]string {
	overrides := map[string]string{}
	if m.lookupEnv == nil {
		return overrides
	}
	if value, found := m.lookupEnv(config.APIURLEnvVar); found && value != "" {
		overrides[config.OverrideAPIBaseURL] = value
	}
	if value, found := m.lookupEnv(config.WorkspaceIDEnvVar); found && value != "" {
		overrides[config.OverrideWorkspaceID] = value
	}
	return overrides
}

func (m *FileContextService) hasAPIOverride(overrides map[string]string) bool {
	if overrides[config.OverrideAPIBaseURL] != "" {
		return true
	}
	_, found := m.envOverrides()[config.OverrideAPIBaseURL]
	return found
}

func (m *FileContextService) saveCatalog(contextCatalog config.ContextCatalog) error {
	if err := validateCatalog(contextCatalog); err != nil {
		return err
	}

	resolvedPath, err := m.resolveCatalogPath()
	if err != nil {
		return err
	}

	encoded, err := encodeCatalog(contextCatalog)
	if err != nil {
		return internalError("failed to encode context catalog", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolvedPath), 0o700); err != nil {
		return internalError("failed to create context config directory", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(resolvedPath), ".connectorctl-contexts-*")
	if err != nil {
		return internalError("failed to create temporary context catalog file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(encoded); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to write context catalog", err)
	}
	if err := tempFile.Chmod(0o600); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to set context catalog permissions", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to finalize context catalog", err)
	}

	if err := os.Rename(tempPath, resolvedPath); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to replace context catalog", err)
	}

	return ensureUserOnlyReadWriteFile(resolvedPath)
}

func (m *FileContextService) loadCatalog() (config.ContextCatalog, error) {
	resolvedPath, err := m.resolveCatalogPath()
	if err != nil {
		return config.ContextCatalog{}, err
	}

	contextCatalog, err := decodeCatalogFile(resolvedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.ContextCatalog{}, nil
		}
		return config.ContextCatalog{}, err
	}
	if err := ensureUserOnlyReadWriteFile(resolvedPath); err != nil {
		return config.ContextCatalog{}, err
	}

	if err := validateCatalog(contextCatalog); err != nil {
		return config.ContextCatalog{}, err
	}

	return contextCatalog, nil
}

func (m *FileContextService) resolveCatalogPath() (string, error) {
	return resolveCatalogPath(m.contextCatalogPath)
}

func findContextIndex(contexts []config.Context, name string) int {
	for idx, item := range contexts {
		if item.Name == name {
			return idx
		}
	}
	return -1
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}

func ensureUserOnlyReadWriteFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return internalError("failed to inspect context catalog permissions", err)
	}

	if info.Mode().Perm() == 0o600 {
		return nil
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return internalError("failed to update context catalog permissions", err)
	}
	return nil
}
