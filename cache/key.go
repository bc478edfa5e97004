package cache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies a cached query. Elements are compared structurally, so
// Key{"feed", 1, 20} built in two places addresses the same entry.
type Key []any

// String builds a stable representation of the key, used as the map index.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, el := range k {
		parts[i] = encodeElem(el)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Equal reports whether both keys hold structurally equal elements.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

// HasPrefix reports whether the first len(prefix) elements of k equal prefix.
// An empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if encodeElem(k[i]) != encodeElem(prefix[i]) {
			return false
		}
	}
	return true
}

// Append returns a new key with extra elements, leaving k untouched.
func (k Key) Append(elems ...any) Key {
	out := make(Key, 0, len(k)+len(elems))
	out = append(out, k...)
	return append(out, elems...)
}

func encodeElem(el any) string {
	b, err := json.Marshal(el)
	if err != nil {
		// unencodable elements still need a stable identity
		return fmt.Sprintf("%T:%v", el, el)
	}
	return string(b)
}
