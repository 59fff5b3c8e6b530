// Package jsonutil holds the JSON decoding helpers shared by the gh and
// Linear collaborators.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals data into v and wraps any error with what,
// so callers see which command or endpoint produced the bad payload.
func UnmarshalWithContext(data []byte, v any, what string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// DecodeSlice decodes a JSON array. Blank input decodes to an empty,
// non-nil slice: CLI tools print nothing when there is nothing to list.
func DecodeSlice[T any](data []byte, what string) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	entries := []T{}
	if err := UnmarshalWithContext(data, &entries, what); err != nil {
		return nil, err
	}
	return entries, nil
}

// Encode marshals v for a request body, wrapping the error with what.
func Encode(v any, what string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return data, nil
}
