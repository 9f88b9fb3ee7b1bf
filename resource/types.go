package resource

import (
	"fmt"
	"strings"
)

type Value = any

// Kind selects the connector variant a resource file declares.
type Kind string

const (
	KindSource      Kind = "source"
	KindDestination Kind = "destination"
)

func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindSource:
		return KindSource, nil
	case KindDestination:
		return KindDestination, nil
	default:
		return "", validationError(fmt.Sprintf("unsupported definition_type %q: use source or destination", value), nil)
	}
}

func (k Kind) String() string {
	return string(k)
}

// Title returns the display name used in attribute errors and CLI output.
func (k Kind) Title() string {
	switch k {
	case KindSource:
		return "Source"
	case KindDestination:
		return "Destination"
	default:
		return string(k)
	}
}

const (
	FieldDefinitionType = "definition_type"
	FieldDefinitionID   = "definition_id"
	FieldResourceName   = "resource_name"
	FieldConfiguration  = "configuration"
)

// ResourceConfig is the desired state declared in a resource file. Keys that
// are not modeled explicitly are kept in Extra.
type ResourceConfig struct {
	Kind          Kind
	DefinitionID  string
	Name          string
	Configuration map[string]any
	Extra         map[string]any
	Path          string
}

type DiffOperation string

const (
	DiffAdd    DiffOperation = "add"
	DiffRemove DiffOperation = "remove"
	DiffChange DiffOperation = "change"
)

// DiffEntry describes one difference between the remote and local
// configuration. Path is a JSON pointer relative to the configuration root.
type DiffEntry struct {
	Path      string        `json:"path" yaml:"path"`
	Operation DiffOperation `json:"operation" yaml:"operation"`
	Remote    Value         `json:"remote,omitempty" yaml:"remote,omitempty"`
	Local     Value         `json:"local,omitempty" yaml:"local,omitempty"`
}
