// Package jsonpath parses JSON documents and extracts values by dotted path
// expressions of the form "field1.field2[0].field3".
//
// The extractor is deliberately lenient about malformed paths and is the
// repository's fuzzing target: it must never panic, but it makes no promise
// of rejecting nonsense paths with a useful error.
package jsonpath

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Parse decodes a JSON document into its generic representation
// (map[string]any, []any, string, float64, bool or nil).
func Parse(doc string) (any, error) {
	var node any
	if err := json.Unmarshal([]byte(doc), &node); err != nil {
		return nil, err
	}
	return node, nil
}

// Extract walks node along path and returns the text form of the value it
// lands on. The second return is false when the path does not resolve.
//
// Path segments are split on '.', so keys containing dots are unreachable;
// a segment like "items[2]" indexes into an array. A non-numeric index is
// treated as 0 rather than rejected.
func Extract(node any, path string) (string, bool) {
	if node == nil || path == "" {
		return "", false
	}

	current := node
	for _, part := range strings.Split(path, ".") {
		if bracket := strings.Index(part, "["); bracket >= 0 && strings.HasSuffix(part, "]") {
			fieldName := part[:bracket]
			index, _ := strconv.Atoi(part[bracket+1 : len(part)-1])

			obj, ok := current.(map[string]any)
			if !ok {
				return "", false
			}
			arr, ok := obj[fieldName].([]any)
			if !ok {
				return "", false
			}
			if index < 0 || index >= len(arr) {
				return "", false
			}
			current = arr[index]
		} else {
			obj, ok := current.(map[string]any)
			if !ok {
				return "", false
			}
			current, ok = obj[part]
			if !ok {
				return "", false
			}
		}

		if current == nil {
			return "", false
		}
	}

	return asText(current)
}

// asText renders scalar values the way a caller reading a config-ish
// document expects. Objects and arrays render as empty text.
func asText(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(value), true
	case nil:
		return "", false
	default:
		return "", true
	}
}
