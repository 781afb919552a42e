package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidDocument reports input that is not JSON-shaped data.
var ErrInvalidDocument = errors.New("invalid document")

// Kind identifies the JSON shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// Member is one object entry. Members keep the order of the source document.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON tree. encoding/json maps drop object key order,
// so objects are held as an ordered Member slice instead.
type Value struct {
	Kind    Kind
	Str     string // string payload; raw literal for numbers
	Num     float64
	Bool    bool
	Members []Member
	Elems   []Value
}

// Decode parses a single JSON document off the token stream, preserving
// object key order. Duplicate keys within one object keep the first
// occurrence. Malformed or trailing input yields ErrInvalidDocument.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("%w: trailing data after document", ErrInvalidDocument)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Value{Kind: KindNull}, nil
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case json.Number:
		n, _ := t.Float64()
		return Value{Kind: KindNumber, Num: n, Str: t.String()}, nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	v := Value{Kind: KindObject}
	seen := make(map[string]struct{})
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key %v is not a string", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		v.Members = append(v.Members, Member{Key: key, Value: val})
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return v, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	v := Value{Kind: KindArray, Elems: []Value{}}
	for dec.More() {
		elem, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		v.Elems = append(v.Elems, elem)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// FromAny classifies an in-memory value the same way Decode classifies
// decoded JSON. Map keys are sorted for determinism; callers that need a
// specific member order should build Members directly. Unsupported runtime
// types fall back to KindNull so conversion stays total.
func FromAny(in any) Value {
	switch t := in.(type) {
	case nil:
		return Value{Kind: KindNull}
	case Value:
		return t
	case string:
		return Value{Kind: KindString, Str: t}
	case bool:
		return Value{Kind: KindBool, Bool: t}
	case int:
		return numberValue(float64(t), fmt.Sprintf("%d", t))
	case int32:
		return numberValue(float64(t), fmt.Sprintf("%d", t))
	case int64:
		return numberValue(float64(t), fmt.Sprintf("%d", t))
	case float32:
		return numberValue(float64(t), "")
	case float64:
		return numberValue(t, "")
	case json.Number:
		n, _ := t.Float64()
		return Value{Kind: KindNumber, Num: n, Str: t.String()}
	case []any:
		v := Value{Kind: KindArray, Elems: make([]Value, 0, len(t))}
		for _, e := range t {
			v.Elems = append(v.Elems, FromAny(e))
		}
		return v
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		v := Value{Kind: KindObject}
		for _, k := range keys {
			v.Members = append(v.Members, Member{Key: k, Value: FromAny(t[k])})
		}
		return v
	default:
		return Value{Kind: KindNull}
	}
}

func numberValue(n float64, raw string) Value {
	if raw == "" {
		raw = trimFloat(n)
	}
	return Value{Kind: KindNumber, Num: n, Str: raw}
}

func trimFloat(n float64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// MarshalJSON renders the tree back to JSON with object members in their
// original order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		if v.Str != "" {
			return []byte(v.Str), nil
		}
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindArray:
		buf := &bytes.Buffer{}
		buf.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		buf := &bytes.Buffer{}
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			b, err := m.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return []byte("null"), nil
}

// IsEmpty reports whether the value carries no data worth documenting:
// null, an object without members, or an array without elements.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindObject:
		return len(v.Members) == 0
	case KindArray:
		return len(v.Elems) == 0
	}
	return false
}
