package overrides

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/asteria/pagereview/pkg/geometry"
)

type fieldState uint8

const (
	stateUnset fieldState = iota
	stateClear
	stateValue
)

// Field is a tri-state override leaf. The zero value is unset (no override).
// A cleared field explicitly reverts to the auto-detected value. A set field
// carries an override value.
//
// In JSON an unset field is omitted (use the omitzero tag option), a cleared
// field is null and a set field is its value.
type Field[T comparable] struct {
	state fieldState
	value T
}

// Number is a numeric override field in pixels or degrees.
type Number = Field[float64]

// Flag is a boolean override field.
type Flag = Field[bool]

// Set returns a field overriding the auto value with v.
func Set[T comparable](v T) Field[T] { return Field[T]{state: stateValue, value: v} }

// Clear returns a field that explicitly reverts to the auto value.
func Clear[T comparable]() Field[T] { return Field[T]{state: stateClear} }

// IsZero reports whether the field is unset.
func (f Field[T]) IsZero() bool { return f.state == stateUnset }

// IsClear reports whether the field explicitly reverts to auto.
func (f Field[T]) IsClear() bool { return f.state == stateClear }

// HasValue reports whether the field carries a value, finite or not.
func (f Field[T]) HasValue() bool { return f.state == stateValue }

// Get returns the override value. It reports false for unset and cleared
// fields, and for non-finite numbers, which are ignored rather than applied.
func (f Field[T]) Get() (T, bool) {
	if f.state != stateValue {
		var zero T
		return zero, false
	}
	if n, ok := any(f.value).(float64); ok && !geometry.Finite(n) {
		return f.value, false
	}
	return f.value, true
}

// Or returns the override value, or fallback when Get reports false.
func (f Field[T]) Or(fallback T) T {
	if v, ok := f.Get(); ok {
		return v
	}
	return fallback
}

// Equal reports whether two fields have the same state and, when set, the
// same value.
func (f Field[T]) Equal(o Field[T]) bool {
	if f.state != o.state {
		return false
	}
	return f.state != stateValue || f.value == o.value
}

// Over layers f on top of base: an unset f keeps base, anything else wins.
func (f Field[T]) Over(base Field[T]) Field[T] {
	if f.state == stateUnset {
		return base
	}
	return f
}

func (f Field[T]) String() string {
	switch f.state {
	case stateClear:
		return "auto"
	case stateValue:
		return fmt.Sprint(f.value)
	}
	return "unset"
}

// MarshalJSON encodes a cleared field as null and a set field as its value.
// An unset field also encodes as null; omit it with the omitzero tag option.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != stateValue {
		return []byte("null"), nil
	}
	if n, ok := any(f.value).(float64); ok && !geometry.Finite(n) {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes null as a cleared field and anything else as a value.
// Absent keys never reach this method and stay unset.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Clear[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}
