// Package canonical produces the deterministic form of JSON documents.
//
// Every mapping is emitted with its keys in lexicographic (byte-wise) order at
// every depth; sequences keep their order and leaf values are untouched.
// Canonicalizing twice yields the same bytes, and two documents that differ
// only in key insertion order canonicalize identically.
package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object whose members are ordered by key.
type Object []Member

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	i := sort.Search(len(o), func(i int) bool { return o[i].Key >= key })
	if i < len(o) && o[i].Key == key {
		return o[i].Value, true
	}
	return nil, false
}

// Keys returns the member keys in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// MarshalJSON implements json.Marshaler, emitting members in stored order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encode(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := encode(m.Value)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Canonicalize returns a value equivalent to v in which every mapping is an
// Object. v may be any JSON-encodable value: structs, maps, slices or the
// generic values produced by encoding/json. Numbers come back as json.Number
// so their literal text is preserved.
func Canonicalize(v any) (any, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	return order(generic), nil
}

// Marshal returns the canonical serialization of v: keys ordered at every
// depth, two-space indentation, no HTML escaping and a trailing newline.
// This is the form every persisted artifact takes.
func Marshal(v any) ([]byte, error) {
	c, err := Canonicalize(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("canonical encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Equal reports whether a and b have the same canonical form.
func Equal(a, b any) (bool, error) {
	ca, err := Marshal(a)
	if err != nil {
		return false, err
	}
	cb, err := Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}

// Digest returns the hex-encoded SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// toGeneric converts v into the value tree encoding/json would decode it to.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return out, nil
}

func order(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := make(Object, len(keys))
		for i, k := range keys {
			obj[i] = Member{Key: k, Value: order(t[k])}
		}
		return obj
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = order(e)
		}
		return out
	default:
		return v
	}
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
