package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a tagged-variant model of an untyped JSON document. Maps remember
// their key order so sections render in the order the model produced them.
type Value struct {
	Kind Kind

	Str  string
	Num  decimal.Decimal
	Bool bool
	List []Value

	Keys []string
	Map  map[string]Value
}

// ParseValue decodes a JSON document into the variant model.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	// Trailing garbage after the document is a malformed response.
	if dec.More() {
		return Value{}, fmt.Errorf("unexpected trailing content after JSON document")
	}
	return value, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("decode value: %w", err)
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
		num, err := decimal.NewFromString(t.String())
		if err != nil {
			return Value{}, fmt.Errorf("decode number %q: %w", t.String(), err)
		}
		return Value{Kind: KindNumber, Num: num}, nil
	case json.Delim:
		switch t {
		case '{':
			return decodeMap(dec)
		case '[':
			return decodeList(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeMap(dec *json.Decoder) (Value, error) {
	value := Value{Kind: KindMap, Map: map[string]Value{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("decode object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		child, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		value.Keys = append(value.Keys, key)
		value.Map[key] = child
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("decode object end: %w", err)
	}
	return value, nil
}

func decodeList(dec *json.Decoder) (Value, error) {
	value := Value{Kind: KindList}
	for dec.More() {
		child, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		value.List = append(value.List, child)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("decode array end: %w", err)
	}
	return value, nil
}

// Get returns the child under key for a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	child, ok := v.Map[key]
	return child, ok
}

// IsPrimitive reports whether the value renders as plain text.
func (v Value) IsPrimitive() bool {
	switch v.Kind {
	case KindString, KindNumber, KindBool, KindNull:
		return true
	default:
		return false
	}
}

// Text renders a primitive value as a string.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num.String()
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindNull:
		return ""
	default:
		return ""
	}
}
