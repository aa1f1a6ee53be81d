// Package patch decodes JSON merge bodies into typed field updates checked
// against a fixed per-resource schema. Unknown fields and values of the wrong
// type are rejected instead of being silently ignored.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmpty        = errors.New("patch body has no fields")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
	ErrReadOnly     = errors.New("field is read-only")
)

// Update is one field assignment on a T.
type Update[T any] interface {
	Field() string
	Apply(*T)
}

// Decoder builds the Update for one field from its raw JSON value.
type Decoder[T any] func(raw json.RawMessage) (Update[T], error)

// Schema maps a JSON field name to its decoder. A nil decoder marks the
// field as known but read-only.
type Schema[T any] map[string]Decoder[T]

// Decode parses body against schema. Updates are returned in field-name
// order so applying them is deterministic.
func Decode[T any](body []byte, schema Schema[T]) ([]Update[T], error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	fields := make([]string, 0, len(raw))
	for f := range raw {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]Update[T], 0, len(fields))
	for _, f := range fields {
		dec, ok := schema[f]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
		if dec == nil {
			return nil, fmt.Errorf("%w: %s", ErrReadOnly, f)
		}
		u, err := dec(raw[f])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, f, err)
		}
		out = append(out, u)
	}
	return out, nil
}

func Apply[T any](v *T, updates []Update[T]) {
	for _, u := range updates {
		u.Apply(v)
	}
}

// Int decodes a JSON number without a fractional part.
func Int(raw json.RawMessage) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0, err
	}
	return n.Int64()
}

func String(raw json.RawMessage) (string, error) {
	var s string
	err := json.Unmarshal(raw, &s)
	return s, err
}
