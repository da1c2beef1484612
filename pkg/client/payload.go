package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Params are the query parameters of an upstream request. Values are scalars;
// nil values are neither sent nor part of the cache key.
type Params map[string]any

// Payload is a parsed upstream response: a JSON object with a truthy "data" field.
type Payload map[string]any

// Data returns the payload's "data" field.
func (p Payload) Data() any {
	return p["data"]
}

// Records returns the object elements of a list-valued "data" field.
// Non-object elements are skipped; a non-list "data" yields nil.
func (p Payload) Records() []map[string]any {
	items, ok := p["data"].([]any)
	if !ok {
		return nil
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]any); ok {
			records = append(records, record)
		}
	}
	return records
}

// Meta returns the payload's "meta" object, or an empty map.
func (p Payload) Meta() map[string]any {
	if meta, ok := p["meta"].(map[string]any); ok {
		return meta
	}
	return map[string]any{}
}

// isJSONContentType reports whether a Content-Type header declares JSON.
func isJSONContentType(header string) bool {
	return strings.Contains(strings.ToLower(header), "application/json")
}

// parseJSON parses a decoded body into an untyped value tree.
func parseJSON(body []byte) (any, error) {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return value, nil
}

// validateShape accepts only objects whose "data" field is truthy.
func validateShape(value any) (Payload, error) {
	object, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w (got %T)", ErrNotObject, value)
	}

	data, ok := object["data"]
	if !ok {
		return nil, ErrMissingData
	}
	if !truthy(data) {
		return nil, ErrEmptyData
	}

	return Payload(object), nil
}

// truthy applies the emptiness rules of the upstream contract: null, false,
// zero, the empty string and empty arrays or objects are all falsy.
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case float64:
		return value != 0
	case string:
		return value != ""
	case []any:
		return len(value) > 0
	case map[string]any:
		return len(value) > 0
	default:
		return true
	}
}
