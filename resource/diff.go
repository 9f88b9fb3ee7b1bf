package resource

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// BuildDiff lists the differences that applying local over remote would
// introduce. Both values are expected to be normalized. Entries are ordered by
// path so the output is stable between runs.
func BuildDiff(remote Value, local Value) []DiffEntry {
	entries := make([]DiffEntry, 0)
	collectDiffEntries(&entries, "", remote, local)
	return entries
}

func collectDiffEntries(entries *[]DiffEntry, pointer string, remote any, local any) {
	if reflect.DeepEqual(remote, local) {
		return
	}

	remoteObject, remoteIsObject := remote.(map[string]any)
	localObject, localIsObject := local.(map[string]any)
	if remoteIsObject && localIsObject {
		keys := make([]string, 0, len(remoteObject)+len(localObject))
		seen := make(map[string]struct{}, len(remoteObject)+len(localObject))
		for key := range remoteObject {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
		for key := range localObject {
			if _, found := seen[key]; found {
				continue
			}
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			nextPointer := pointer + "/" + escapePointerToken(key)
			remoteValue, remoteFound := remoteObject[key]
			localValue, localFound := localObject[key]

			switch {
			case !remoteFound:
				appendDiffEntry(entries, nextPointer, DiffAdd, nil, localValue)
			case !localFound:
				appendDiffEntry(entries, nextPointer, DiffRemove, remoteValue, nil)
			default:
				collectDiffEntries(entries, nextPointer, remoteValue, localValue)
			}
		}
		return
	}

	remoteArray, remoteIsArray := remote.([]any)
	localArray, localIsArray := local.([]any)
	if remoteIsArray && localIsArray {
		maxLength := max(len(remoteArray), len(localArray))
		for idx := range maxLength {
			nextPointer := pointer + "/" + strconv.Itoa(idx)

			switch {
			case idx >= len(remoteArray):
				appendDiffEntry(entries, nextPointer, DiffAdd, nil, localArray[idx])
			case idx >= len(localArray):
				appendDiffEntry(entries, nextPointer, DiffRemove, remoteArray[idx], nil)
			default:
				collectDiffEntries(entries, nextPointer, remoteArray[idx], localArray[idx])
			}
		}
		return
	}

	appendDiffEntry(entries, pointer, DiffChange, remote, local)
}

func appendDiffEntry(entries *[]DiffEntry, pointer string, operation DiffOperation, remote any, local any) {
	*entries = append(*entries, DiffEntry{
		Path:      pointer,
		Operation: operation,
		Remote:    remote,
		Local:     local,
	})
}

// RenderDiff formats entries one per line. Additions are prefixed with "+",
// removals with "-" and changes with "~", followed by the dotted path and the
// JSON encoded values, for example `~ .changed.key: 2 => 3`. An empty diff
// renders as an empty string.
func RenderDiff(entries []DiffEntry) (string, error) {
	var builder strings.Builder
	for _, entry := range entries {
		line, err := renderDiffLine(entry)
		if err != nil {
			return "", err
		}
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	return builder.String(), nil
}

func renderDiffLine(entry DiffEntry) (string, error) {
	path := DotPath(entry.Path)
	switch entry.Operation {
	case DiffAdd:
		local, err := marshalDiffValue(entry.Local)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("+ %s: %s", path, local), nil
	case DiffRemove:
		remote, err := marshalDiffValue(entry.Remote)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("- %s: %s", path, remote), nil
	default:
		remote, err := marshalDiffValue(entry.Remote)
		if err != nil {
			return "", err
		}
		local, err := marshalDiffValue(entry.Local)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("~ %s: %s => %s", path, remote, local), nil
	}
}

func marshalDiffValue(value any) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", validationError("failed to render diff value", err)
	}
	return string(encoded), nil
}

// DotPath turns a JSON pointer into the dotted form shown to operators.
func DotPath(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(pointer), "/")
	if trimmed == "" {
		return "."
	}

	segments := strings.Split(trimmed, "/")
	for idx, segment := range segments {
		segments[idx] = unescapePointerToken(segment)
	}
	return "." + strings.Join(segments, ".")
}

func escapePointerToken(value string) string {
	escaped := strings.ReplaceAll(value, "~", "~0")
	return strings.ReplaceAll(escaped, "/", "~1")
}

func unescapePointerToken(value string) string {
	unescaped := strings.ReplaceAll(value, "~1", "/")
	return strings.ReplaceAll(unescaped, "~0", "~")
}
