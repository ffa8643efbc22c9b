package pandoctree

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Value is any member of the closed set of tree value kinds: a scalar
// (string, int, float64, bool), a List, a Tuple, an ordered *Map, an Option,
// a *Node, or one of the root aggregates (*Document, *Meta). The codec and
// the traversal utilities dispatch exhaustively over this set; incidental
// iterability plays no part.
type Value = any

// List is an ordered sequence of values ([X] in the grammar).
type List []Value

// Tuple is a fixed-length ordered sequence ((A, B, ...) in the grammar).
type Tuple []Value

// MapPair is one entry of an ordered Map.
type MapPair struct {
	Key   string
	Value Value
}

// Map is a string-keyed mapping that preserves insertion order end to end.
// Metadata key order is meaningful document content, not an implementation
// artifact, so it survives decode, traversal, and encode.
type Map struct {
	keys    []string
	entries map[string]Value
}

// NewMap builds a Map from pairs, keeping first-insertion order.
func NewMap(pairs ...MapPair) *Map {
	m := &Map{entries: make(map[string]Value, len(pairs))}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set stores value under key. A new key is appended to the iteration order;
// an existing key keeps its position.
func (m *Map) Set(key string, value Value) {
	if _, seen := m.entries[key]; !seen {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = value
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Pairs returns the entries in insertion order.
func (m *Map) Pairs() []MapPair {
	out := make([]MapPair, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, MapPair{Key: k, Value: m.entries[k]})
	}
	return out
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *Map) String() string {
	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		parts = append(parts, fmt.Sprintf("%q: %s", k, Repr(m.entries[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Option is an optional value ((Maybe X) in the grammar; v2 wire format
// only, where the empty option is JSON null).
type Option struct {
	value Value
	some  bool
}

// Some wraps a present value.
func Some(v Value) Option { return Option{value: v, some: true} }

// None is the empty option.
func None() Option { return Option{} }

// IsSome reports whether the option holds a value.
func (o Option) IsSome() bool { return o.some }

// Get returns the held value, if any.
func (o Option) Get() (Value, bool) { return o.value, o.some }

func (o Option) String() string {
	if !o.some {
		return "Nothing"
	}
	return Repr(o.value)
}

// Repr renders a value in constructor-call syntax, the same shape the tree
// was built from: Para([Str("hi")]).
func Repr(v Value) string {
	switch x := v.(type) {
	case nil:
		return "Nothing"
	case string:
		return fmt.Sprintf("%q", x)
	case List:
		return "[" + joinRepr(x) + "]"
	case Tuple:
		return "(" + joinRepr(x) + ")"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

func joinRepr(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Repr(v)
	}
	return strings.Join(parts, ", ")
}
