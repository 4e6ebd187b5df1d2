/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeJSON reads a JSON document and lifts it into a Tree. The document
// root must be an object. Key order is preserved, which is why this walks
// the token stream instead of unmarshaling into a map. Integral numbers
// decode to int64, fractional numbers to float64.
func DecodeJSON(r io.Reader) (*Tree, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decoding document: root is %v, want object", tok)
	}

	t, err := decodeObject(dec)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func decodeObject(dec *json.Decoder) (*Tree, error) {
	t := New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decoding object key: unexpected token %v", keyTok)
		}
		value, err := decodeNext(dec)
		if err != nil {
			return nil, fmt.Errorf("decoding value of %q: %w", key, err)
		}
		t.Set(key, value)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding object end: %w", err)
	}
	return t, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	list := []any{}
	for dec.More() {
		value, err := decodeNext(dec)
		if err != nil {
			return nil, err
		}
		list = append(list, value)
	}
	// closing bracket
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding array end: %w", err)
	}
	return list, nil
}

func decodeNext(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", v)
		}
	case json.Number:
		return normalizeNumber(v), nil
	default:
		// string, bool or nil
		return v, nil
	}
}

// normalizeNumber maps integral numbers to int64 and everything else to
// float64, so trees compare consistently regardless of which backend
// produced them.
func normalizeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// MarshalJSON encodes the Tree as a JSON object with keys in insertion
// order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding value of %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
