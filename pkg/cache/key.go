package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key identifies a cached upstream payload.
type Key struct {
	// URL is the upstream endpoint (e.g., "http://host:8082/api/v1/institute/list")
	URL string

	// Params are the query parameters sent with the request (e.g., {"page": 1})
	Params map[string]any
}

// String generates a deterministic cache key string.
// Format: <url>_{"param1":value1,"param2":value2}
//
// Parameter names are sorted and nil values are dropped, so two parameter maps
// that would produce the same upstream query always produce the same key. A nil
// map and an empty map both serialize as {}.
//
// Example:
//
//	http://host/x_{"page":1,"size":10}
func (k Key) String() string {
	names := make([]string, 0, len(k.Params))
	for name, value := range k.Params {
		if value == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(k.URL)
	b.WriteString("_{")
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(encodeValue(name))
		b.WriteByte(':')
		b.WriteString(encodeValue(k.Params[name]))
	}
	b.WriteByte('}')

	return b.String()
}

// encodeValue renders a parameter as JSON, falling back to a quoted string
// for values encoding/json cannot represent.
func encodeValue(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return strconv.Quote(fmt.Sprint(v))
	}
	return string(encoded)
}
