package yamlutil

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(name string) (string, bool)

// ExpandEnvPlaceholders replaces ${NAME} references inside the string scalars
// of node. Keys, numbers and booleans are left untouched. A reference to an
// unset variable is an error.
func ExpandEnvPlaceholders(node *yaml.Node, lookup LookupFunc) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			if err := ExpandEnvPlaceholders(child, lookup); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if err := ExpandEnvPlaceholders(node.Content[i+1], lookup); err != nil {
				return fmt.Errorf("%s: %w", node.Content[i].Value, err)
			}
		}
	case yaml.ScalarNode:
		if isStringScalar(node) && strings.Contains(node.Value, "${") {
			resolved, err := substituteEnvPlaceholders(node.Value, lookup)
			if err != nil {
				return err
			}
			node.Value = resolved
		}
	}
	return nil
}

// ExpandEnvPlaceholdersInto round-trips target through a YAML node, expanding
// placeholders on the way. target must be a pointer.
func ExpandEnvPlaceholdersInto(target any, lookup LookupFunc) error {
	data, err := yaml.Marshal(target)
	if err != nil {
		return err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	if err := ExpandEnvPlaceholders(&root, lookup); err != nil {
		return err
	}
	return root.Decode(target)
}

func isStringScalar(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && (node.Tag == "!!str" || node.Tag == "")
}

func substituteEnvPlaceholders(value string, lookup LookupFunc) (string, error) {
	var builder strings.Builder
	for i := 0; i < len(value); {
		if value[i] == '$' && i+1 < len(value) && value[i+1] == '{' {
			start := i + 2
			end := strings.IndexByte(value[start:], '}')
			if end < 0 {
				return "", fmt.Errorf("missing closing brace in %q", value)
			}
			name := strings.TrimSpace(value[start : start+end])
			if name == "" {
				return "", fmt.Errorf("empty environment variable reference in %q", value)
			}
			envValue, ok := lookup(name)
			if !ok {
				return "", fmt.Errorf("environment variable %q is not set", name)
			}
			builder.WriteString(envValue)
			i = start + end + 1
			continue
		}
		builder.WriteByte(value[i])
		i++
	}
	return builder.String(), nil
}
