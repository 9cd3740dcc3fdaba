package catalog

import (
	"fmt"
	"strings"
)

// Row is an entity instance as returned by the upstream REST backend. Shapes
// are entity-type-dependent; the only guaranteed field is a stable "id".
type Row map[string]any

// ID returns the row's stable identifier, normalized to a string.
func (r Row) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	}
	return ""
}

// Field resolves a possibly-dotted field path against the row. Nested object
// references ("artist.name") walk one map level per segment. Returns false
// when any segment is absent or a non-map intermediate is hit.
func (r Row) Field(path string) (any, bool) {
	segments := strings.Split(path, ".")
	var current any = map[string]any(r)

	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			if typed, isRow := current.(Row); isRow {
				node = map[string]any(typed)
			} else {
				return nil, false
			}
		}
		value, exists := node[segment]
		if !exists {
			return nil, false
		}
		current = value
	}

	return current, true
}

// FieldString resolves a field path and stringifies scalar values. Object and
// array values return false; relation fields must be matched through their
// configured label path, never the object itself.
func (r Row) FieldString(path string) (string, bool) {
	value, found := r.Field(path)
	if !found || value == nil {
		return "", false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v)), true
		}
		return fmt.Sprintf("%v", v), true
	case bool:
		return fmt.Sprintf("%t", v), true
	case int, int64:
		return fmt.Sprintf("%d", v), true
	}

	return "", false
}
