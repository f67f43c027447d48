// Package cbwobject maps decoded API payloads onto schema-less values that keep
// the field order of the source document.
package cbwobject

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a scalar, an ordered sequence of values, or a Generic Object.
// The zero Value is null. Values are never mutated after construction.
type Value struct {
	kind Kind
	b    bool
	s    string // string payload or number literal
	list []Value
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// NewBool wraps a boolean.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewString wraps a string.
func NewString(s string) Value { return Value{kind: KindString, s: s} }

// NewNumber wraps a JSON number literal. The literal is kept verbatim so it
// renders exactly as the server sent it.
func NewNumber(n json.Number) Value { return Value{kind: KindNumber, s: n.String()} }

// NewInt wraps an integer.
func NewInt(i int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(i, 10)} }

// NewList wraps a sequence. A nil slice yields an empty list, never null.
func NewList(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// NewObjectValue wraps an object. A nil object yields null.
func NewObjectValue(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Number returns the raw number literal.
func (v Value) Number() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return json.Number(v.s), true
}

// Int returns the number as an int64. Integral floats such as 7.0 convert.
func (v Value) Int() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Float returns the number as a float64.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// List returns a copy of the sequence.
func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Object returns the wrapped Generic Object.
func (v Value) Object() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Len is the number of list items or object fields, zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Field steps into an object field. It returns null when v is not an object
// or the field is absent, so lookups can be chained.
func (v Value) Field(name string) Value {
	if v.kind != KindObject {
		return Null()
	}
	return v.obj.Field(name)
}

// Index steps into a list item, returning null when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Null()
	}
	return v.list[i]
}

// Equal reports structural equality. Field order is significant.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber, KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(other.obj)
	}
	return false
}
