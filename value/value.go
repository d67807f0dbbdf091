// Package value defines the literal values produced by symbolic evaluation.
//
// The set is closed: strings, numbers (with the integer/floating
// distinction preserved), booleans, null, and the two container shapes the
// default resolver can emit (lists and attribute maps). Values are
// immutable once created.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type identifies the concrete type of a Value.
type Type string

const (
	STRING Type = "string"
	INT    Type = "int"
	FLOAT  Type = "float"
	BOOL   Type = "bool"
	NULL   Type = "null"
	LIST   Type = "list"
	ATTRS  Type = "attrs"
)

// Value is a literal value. Implementations are immutable.
type Value interface {
	// Type returns the concrete type of this value.
	Type() Type

	// String returns a source-like representation of the value.
	String() string

	// Equals reports whether this value equals the other value.
	Equals(other Value) bool
}

// String is a string value.
type String struct {
	Value string
}

func (s *String) Type() Type     { return STRING }
func (s *String) String() string { return fmt.Sprintf("%q", s.Value) }

func (s *String) Equals(other Value) bool {
	o, ok := other.(*String)
	return ok && s.Value == o.Value
}

func (s *String) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value)
}

// Int is an integer-valued number.
type Int struct {
	Value int64
}

func (i *Int) Type() Type     { return INT }
func (i *Int) String() string { return strconv.FormatInt(i.Value, 10) }

func (i *Int) Equals(other Value) bool {
	switch o := other.(type) {
	case *Int:
		return i.Value == o.Value
	case *Float:
		return float64(i.Value) == o.Value
	}
	return false
}

func (i *Int) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Value)
}

// Float is a floating point number. Integer-valued floats render with one
// fractional digit so that an emitted default reads as a float.
type Float struct {
	Value float64
}

func (f *Float) Type() Type { return FLOAT }

func (f *Float) String() string {
	if f.Value == math.Trunc(f.Value) && !math.IsInf(f.Value, 0) {
		return strconv.FormatFloat(f.Value, 'f', 1, 64)
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// Integral reports whether the value is a whole number.
func (f *Float) Integral() bool {
	return f.Value == math.Trunc(f.Value) && !math.IsInf(f.Value, 0)
}

func (f *Float) Equals(other Value) bool {
	switch o := other.(type) {
	case *Float:
		return f.Value == o.Value
	case *Int:
		return f.Value == float64(o.Value)
	}
	return false
}

func (f *Float) MarshalJSON() ([]byte, error) {
	return []byte(f.String()), nil
}

// Bool is a boolean value.
type Bool struct {
	Value bool
}

func (b *Bool) Type() Type     { return BOOL }
func (b *Bool) String() string { return strconv.FormatBool(b.Value) }

func (b *Bool) Equals(other Value) bool {
	o, ok := other.(*Bool)
	return ok && b.Value == o.Value
}

func (b *Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Value)
}

// Null is the null value (also used for undefined defaults that demote to
// a nullable type).
type Null struct{}

func (n *Null) Type() Type     { return NULL }
func (n *Null) String() string { return "null" }

func (n *Null) Equals(other Value) bool {
	_, ok := other.(*Null)
	return ok
}

func (n *Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// List is an ordered list of values.
type List struct {
	Items []Value
}

func (l *List) Type() Type { return LIST }

func (l *List) String() string {
	items := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		items = append(items, item.String())
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (l *List) Equals(other Value) bool {
	o, ok := other.(*List)
	if !ok || len(l.Items) != len(o.Items) {
		return false
	}
	for i, item := range l.Items {
		if !item.Equals(o.Items[i]) {
			return false
		}
	}
	return true
}

func (l *List) MarshalJSON() ([]byte, error) {
	if len(l.Items) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l.Items)
}

// Attrs is an attribute map with stable key order (declaration order).
type Attrs struct {
	keys   []string
	values map[string]Value
}

// NewAttrs returns an empty attribute map.
func NewAttrs() *Attrs {
	return &Attrs{values: map[string]Value{}}
}

// Set adds or replaces a key. Insertion order of new keys is preserved.
func (a *Attrs) Set(key string, v Value) {
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = v
}

// Get returns the value for key, if present.
func (a *Attrs) Get(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (a *Attrs) Keys() []string { return a.keys }

// Len returns the number of attributes.
func (a *Attrs) Len() int { return len(a.keys) }

func (a *Attrs) Type() Type { return ATTRS }

func (a *Attrs) String() string {
	items := make([]string, 0, len(a.keys))
	for _, k := range a.keys {
		items = append(items, fmt.Sprintf("%s: %s", k, a.values[k].String()))
	}
	return "{" + strings.Join(items, ", ") + "}"
}

func (a *Attrs) Equals(other Value) bool {
	o, ok := other.(*Attrs)
	if !ok || len(a.keys) != len(o.keys) {
		return false
	}
	for _, k := range a.keys {
		ov, exists := o.values[k]
		if !exists || !a.values[k].Equals(ov) {
			return false
		}
	}
	return true
}

func (a *Attrs) MarshalJSON() ([]byte, error) {
	if len(a.keys) == 0 {
		return []byte("{}"), nil
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		sb.Write(key)
		sb.WriteByte(':')
		val, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		sb.Write(val)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// IsNumeric reports whether v is an Int or Float.
func IsNumeric(v Value) bool {
	switch v.Type() {
	case INT, FLOAT:
		return true
	}
	return false
}

// AsFloat returns the numeric value of v as a float64.
func AsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case *Int:
		return float64(n.Value), true
	case *Float:
		return n.Value, true
	}
	return 0, false
}

// AsString returns the string value of v, if it is a string.
func AsString(v Value) (string, bool) {
	if s, ok := v.(*String); ok {
		return s.Value, true
	}
	return "", false
}

// Text renders v as unquoted text: strings render without quotes, other
// values as their String form. Used when composing interpolated values.
func Text(v Value) string {
	if s, ok := v.(*String); ok {
		return s.Value
	}
	return v.String()
}
