package cbwobject

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Parse maps a JSON document onto a Value. An empty or blank document maps to
// null, which is how acknowledgement endpoints answer.
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// Decode maps the single JSON document read from r onto a Value. Arrays become
// lists, objects become Generic Objects in source field order, and scalars pass
// through unchanged.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return Null(), nil
	}
	if err != nil {
		return Value{}, fmt.Errorf("decode json: %w", err)
	}

	v, err := decodeToken(dec, tok)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, fmt.Errorf("decode json: %w", err)
		}
		return Value{}, errors.New("decode json: unexpected data after top-level value")
	}
	return v, nil
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return NewNumber(t), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeList(dec)
		}
		return Value{}, fmt.Errorf("decode json: unexpected delimiter %q", t)
	}
	return Value{}, fmt.Errorf("decode json: unexpected token %T", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("decode json object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("decode json: object key is %T", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("decode json field %q: %w", key, err)
		}
		v, err := decodeToken(dec, valTok)
		if err != nil {
			return Value{}, err
		}
		obj.set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("decode json object end: %w", err)
	}
	return NewObjectValue(obj), nil
}

func decodeList(dec *json.Decoder) (Value, error) {
	items := make([]Value, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("decode json list item %d: %w", len(items), err)
		}
		v, err := decodeToken(dec, tok)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("decode json list end: %w", err)
	}
	return Value{kind: KindList, list: items}, nil
}

// FromAny lifts an already-decoded Go value. Map keys are sorted because Go
// maps carry no order; anything other than the json.Unmarshal shapes goes
// through a JSON round trip.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Object:
		return NewObjectValue(t), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		return NewNumber(t), nil
	case []any:
		items := make([]Value, 0, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, v)
		}
		return Value{kind: KindList, list: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			obj.set(k, v)
		}
		return NewObjectValue(obj), nil
	}

	raw, err := json.Marshal(x)
	if err != nil {
		return Value{}, fmt.Errorf("marshal %T: %w", x, err)
	}
	return Parse(raw)
}
