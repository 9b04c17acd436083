// Package optional contains presence-tagged values.
//
// A [Value] distinguishes "the user supplied this" from "the user did not supply this"
// independently of the wrapped value, so an explicit zero (port 0, trace=false) survives.
package optional

import "reflect"

// Value is an optional value. The zero value is None.
type Value[T any] struct {
	indirect *T
}

// None returns an empty Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Some returns a Value wrapping value. Wrapping a nil pointer, map or slice yields None.
func Some[T any](value T) Value[T] {
	rv := reflect.ValueOf(&value).Elem()
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			return None[T]()
		}
	}
	return Value[T]{&value}
}

// IsNone reports whether the value is absent.
func (v Value[T]) IsNone() bool {
	return v.indirect == nil
}

// IsSome reports whether the value is present.
func (v Value[T]) IsSome() bool {
	return v.indirect != nil
}

// Get returns the wrapped value and whether it was present.
func (v Value[T]) Get() (T, bool) {
	if v.indirect == nil {
		var zero T
		return zero, false
	}
	return *v.indirect, true
}

// UnwrapOr returns the wrapped value or fallback when absent.
func (v Value[T]) UnwrapOr(fallback T) T {
	if v.indirect == nil {
		return fallback
	}
	return *v.indirect
}

// Ptr returns a pointer to a copy of the wrapped value, or nil when absent.
func (v Value[T]) Ptr() *T {
	if v.indirect == nil {
		return nil
	}
	value := *v.indirect
	return &value
}
