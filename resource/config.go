package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/crmarques/connectorctl/faults"
	"github.com/crmarques/connectorctl/yamlutil"
	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
)

// LoadFile reads and parses a resource file.
func LoadFile(path string) (ResourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ResourceConfig{}, faults.NewNotFoundError(fmt.Sprintf("resource file %q not found", path), err)
		}
		return ResourceConfig{}, faults.NewInternalError(fmt.Sprintf("failed to read resource file %q", path), err)
	}

	cfg, err := ParseWithEnv(data, os.LookupEnv)
	if err != nil {
		return ResourceConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes a resource document:
//
//	definition_type: source
//	definition_id: 778daa7c-feaf-4db6-96f3-70fd645acc77
//	resource_name: my-file-source
//	configuration:
//	  dataset_name: covid
//	  password: ${COVID_PASSWORD}
//
// ${NAME} references in string values are replaced from the process
// environment.
func Parse(data []byte) (ResourceConfig, error) {
	return ParseWithEnv(data, os.LookupEnv)
}

func ParseWithEnv(data []byte, lookup yamlutil.LookupFunc) (ResourceConfig, error) {
	var root yaml.Node
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return ResourceConfig{}, validationError("resource file is empty", nil)
		}
		return ResourceConfig{}, validationError("invalid resource yaml", err)
	}
	if err := yamlutil.ExpandEnvPlaceholders(&root, lookup); err != nil {
		return ResourceConfig{}, validationError("invalid resource yaml", err)
	}

	var document map[string]any
	if err := root.Decode(&document); err != nil {
		return ResourceConfig{}, validationError("invalid resource yaml", err)
	}
	if document == nil {
		return ResourceConfig{}, validationError("resource file is empty", nil)
	}

	definitionType, err := requiredString(document, FieldDefinitionType)
	if err != nil {
		return ResourceConfig{}, err
	}
	kind, err := ParseKind(definitionType)
	if err != nil {
		return ResourceConfig{}, err
	}

	definitionID, err := requiredString(document, FieldDefinitionID)
	if err != nil {
		return ResourceConfig{}, err
	}
	if _, err := uuid.Parse(definitionID); err != nil {
		return ResourceConfig{}, validationError(fmt.Sprintf("%s %q is not a valid UUID", FieldDefinitionID, definitionID), err)
	}

	name, err := requiredString(document, FieldResourceName)
	if err != nil {
		return ResourceConfig{}, err
	}

	configuration, err := configurationField(document)
	if err != nil {
		return ResourceConfig{}, err
	}

	extra := make(map[string]any)
	for key, value := range document {
		switch key {
		case FieldDefinitionType, FieldDefinitionID, FieldResourceName, FieldConfiguration:
			continue
		}
		extra[key] = value
	}

	return ResourceConfig{
		Kind:          kind,
		DefinitionID:  definitionID,
		Name:          name,
		Configuration: configuration,
		Extra:         extra,
	}, nil
}

// Lookup returns a top-level field of the resource document. Modeled fields
// are served from their typed counterparts.
func (c ResourceConfig) Lookup(name string) (Value, bool) {
	switch name {
	case FieldDefinitionType:
		return string(c.Kind), true
	case FieldDefinitionID:
		return c.DefinitionID, true
	case FieldResourceName:
		return c.Name, true
	case FieldConfiguration:
		return c.Configuration, true
	}
	value, found := c.Extra[name]
	return value, found
}

func requiredString(document map[string]any, key string) (string, error) {
	raw, found := document[key]
	if !found || raw == nil {
		return "", validationError(fmt.Sprintf("%s is required", key), nil)
	}
	value, ok := raw.(string)
	if !ok {
		return "", validationError(fmt.Sprintf("%s must be a string", key), nil)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", validationError(fmt.Sprintf("%s must not be empty", key), nil)
	}
	return value, nil
}

func configurationField(document map[string]any) (map[string]any, error) {
	raw, found := document[FieldConfiguration]
	if !found || raw == nil {
		return map[string]any{}, nil
	}

	normalized, err := Normalize(raw)
	if err != nil {
		return nil, validationError(FieldConfiguration+" is invalid", err)
	}
	configuration, ok := normalized.(map[string]any)
	if !ok {
		return nil, validationError(FieldConfiguration+" must be a mapping", nil)
	}
	return configuration, nil
}

func validationError(message string, cause error) error {
	return faults.NewValidationError(message, cause)
}
