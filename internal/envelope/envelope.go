// Package envelope unwraps the server's list envelope shapes. The API is not
// consistent: some list endpoints return a bare array, some wrap it under the
// plural entity name and some under a generic "data" key. Callers pick a
// strategy per endpoint instead of duck-typing at every call site.
package envelope

import (
	"bytes"
	"encoding/json"
)

type Shape int

const (
	ShapeNone Shape = iota
	ShapeArray
	ShapeKeyed
	ShapeData
)

// Detect classifies a raw body with fixed precedence: bare array, then the
// entity-keyed wrapper, then the generic data wrapper.
func Detect(raw json.RawMessage, key string) Shape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ShapeNone
	}
	if trimmed[0] == '[' {
		return ShapeArray
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return ShapeNone
	}
	if present(obj[key]) {
		return ShapeKeyed
	}
	if present(obj["data"]) {
		return ShapeData
	}
	return ShapeNone
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// List unwraps a list body through the full fallback chain. An unknown or
// malformed shape yields an empty slice, never nil and never an error: a
// missing collection is a valid state for a list endpoint.
func List[T any](raw json.RawMessage, key string) []T {
	switch Detect(raw, key) {
	case ShapeArray:
		return decodeSlice[T](raw)
	case ShapeKeyed:
		return decodeSlice[T](field(raw, key))
	case ShapeData:
		return decodeSlice[T](field(raw, "data"))
	default:
		return []T{}
	}
}

// DataList unwraps endpoints with a single fixed {data: [...]} shape,
// skipping the fallback chain.
func DataList[T any](raw json.RawMessage) []T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// Defensive: a fixed-shape endpoint should never do this, but an
		// unwrapped array is unambiguous.
		return decodeSlice[T](raw)
	}
	return decodeSlice[T](field(raw, "data"))
}

// Item unwraps a single-entity body, either {data: {...}} or the bare object.
func Item[T any](raw json.RawMessage) (T, error) {
	var out T
	if inner := field(raw, "data"); present(inner) {
		err := json.Unmarshal(inner, &out)
		return out, err
	}
	err := json.Unmarshal(raw, &out)
	return out, err
}

func field(raw json.RawMessage, key string) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj[key]
}

func decodeSlice[T any](raw json.RawMessage) []T {
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}
