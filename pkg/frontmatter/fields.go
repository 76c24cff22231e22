package frontmatter

import "reflect"

// Fields is an insertion-ordered mapping of frontmatter keys to plain values
// (strings, numbers, booleans, nil, []any, map[string]any). Order matters:
// it is what keeps serialization faithful to the original block.
type Fields struct {
	keys  []string
	items map[string]any
}

// NewFields returns an empty field set.
func NewFields() *Fields {
	return &Fields{items: make(map[string]any)}
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Get returns the value for key and whether it is present.
func (f *Fields) Get(key string) (any, bool) {
	v, ok := f.items[key]
	return v, ok
}

// GetString returns the value for key as a string, or "" when the key is
// absent or not a string.
func (f *Fields) GetString(key string) string {
	if v, ok := f.items[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.items[key]
	return ok
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (f *Fields) Set(key string, value any) {
	if _, ok := f.items[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.items[key] = value
}

// Delete removes key if present.
func (f *Fields) Delete(key string) {
	if _, ok := f.items[key]; !ok {
		return
	}
	delete(f.items, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
}

// Clear removes all keys.
func (f *Fields) Clear() {
	f.keys = f.keys[:0]
	clear(f.items)
}

// Equal reports whether f and other hold the same keys in the same order
// with deep-equal values.
func (f *Fields) Equal(other *Fields) bool {
	if f.Len() != other.Len() {
		return false
	}
	for i, key := range f.keys {
		if other.keys[i] != key {
			return false
		}
		if !reflect.DeepEqual(f.items[key], other.items[key]) {
			return false
		}
	}
	return true
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (f *Fields) Keys() []string {
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Map returns a plain map snapshot of the fields. Nested values are shared,
// not copied.
func (f *Fields) Map() map[string]any {
	m := make(map[string]any, len(f.items))
	for k, v := range f.items {
		m[k] = v
	}
	return m
}
