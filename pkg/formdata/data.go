package formdata

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Data maps field ids to their current values. The zero value is an empty,
// usable snapshot.
type Data struct {
	values map[string]any
}

// New seeds a snapshot from an existing map. Textual values are sanitised.
func New(values map[string]any) Data {
	out := Data{values: make(map[string]any, len(values))}
	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out.values[key] = normalise(value)
	}
	return out
}

// Set returns a snapshot with id bound to value.
func (d Data) Set(id string, value any) Data {
	id = strings.TrimSpace(id)
	if id == "" {
		return d
	}
	out := d.clone(1)
	out.values[id] = normalise(value)
	return out
}

// Merge returns a snapshot with every entry of values applied.
func (d Data) Merge(values map[string]any) Data {
	if len(values) == 0 {
		return d
	}
	out := d.clone(len(values))
	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out.values[key] = normalise(value)
	}
	return out
}

// Clear returns a snapshot without the given keys.
func (d Data) Clear(keys ...string) Data {
	if len(keys) == 0 || len(d.values) == 0 {
		return d
	}
	out := d.clone(0)
	for _, key := range keys {
		delete(out.values, strings.TrimSpace(key))
	}
	return out
}

// Reset returns an empty snapshot.
func (d Data) Reset() Data {
	return Data{}
}

// Get returns the raw value bound to id.
func (d Data) Get(id string) (any, bool) {
	if d.values == nil {
		return nil, false
	}
	value, ok := d.values[id]
	return value, ok
}

// String returns the value bound to id formatted as text, or "".
func (d Data) String(id string) string {
	value, ok := d.Get(id)
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int parses the value bound to id as an integer.
func (d Data) Int(id string) (int, error) {
	value, ok := d.Get(id)
	if !ok {
		return 0, fmt.Errorf("formdata: %q is not set", id)
	}
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("formdata: %q is not a whole number", id)
		}
		return int(v), nil
	default:
		n, err := strconv.Atoi(strings.TrimSpace(d.String(id)))
		if err != nil {
			return 0, fmt.Errorf("formdata: %q: %w", id, err)
		}
		return n, nil
	}
}

// Blank reports whether id is unset or holds only whitespace / false.
func (d Data) Blank(id string) bool {
	value, ok := d.Get(id)
	if !ok || value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	default:
		return false
	}
}

// Has reports whether id is bound.
func (d Data) Has(id string) bool {
	_, ok := d.Get(id)
	return ok
}

// Keys returns the bound ids in sorted order.
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for key := range d.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of bound ids.
func (d Data) Len() int {
	return len(d.values)
}

// Map returns a copy of the underlying values.
func (d Data) Map() map[string]any {
	return d.clone(0).values
}

// MarshalJSON encodes the snapshot as a flat object.
func (d Data) MarshalJSON() ([]byte, error) {
	if d.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.values)
}

// UnmarshalJSON decodes a flat object into the snapshot.
func (d *Data) UnmarshalJSON(payload []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("formdata: decode: %w", err)
	}
	*d = New(raw)
	return nil
}

func (d Data) clone(extra int) Data {
	out := Data{values: make(map[string]any, len(d.values)+extra)}
	for key, value := range d.values {
		out.values[key] = deepCopy(value)
	}
	return out
}

func normalise(value any) any {
	switch v := value.(type) {
	case string:
		return SanitizeText(v)
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = SanitizeText(item)
		}
		return out
	default:
		return deepCopy(value)
	}
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
