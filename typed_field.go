// typed_field.go — type-safe access to the context fields of diagnostics.
//
// The constructors in construct.go attach their details under fixed keys.
// The TypedField values below name those keys together with the Go type
// stored under them, so readers do not repeat string keys and type
// assertions:
//
//	if depth, ok := xgxtrap.FieldDepth.Get(err); ok { ... }
//
// The stored dynamic type must match T exactly; no conversions are made.
package xgxtrap

import (
	"errors"
	"fmt"
)

// TypedField names a context key and the type of its value.
type TypedField[T any] struct {
	key string
}

// NewField returns the typed field for key. Keys are snake_case.
func NewField[T any](key string) TypedField[T] {
	return TypedField[T]{key: key}
}

// Fields attached by this package.
var (
	FieldTarget   = NewField[string]("target")
	FieldTraceID  = NewField[string]("trace_id")
	FieldDepth    = NewField[int]("depth")
	FieldMaxDepth = NewField[int]("max_depth")
	FieldPanic    = NewField[string]("panic")
	FieldConfig   = NewField[string]("field")
)

// Key returns the underlying key.
func (f TypedField[T]) Key() string { return f.key }

// Set attaches (key = val) to e and returns a NEW Error.
func (f TypedField[T]) Set(e Error, val T) Error {
	return e.With(f.key, val)
}

// Get returns the value stored under the key by the first diagnostic error
// found in err's chain. It reports false when there is none, the key is
// absent, or the value has another dynamic type.
func (f TypedField[T]) Get(err error) (T, bool) {
	var zero T
	var e Error
	if !errors.As(err, &e) {
		return zero, false
	}
	v, ok := e.Context()[f.key]
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	return tv, ok
}

// MustGet is Get that panics when the field is missing. For tests.
func (f TypedField[T]) MustGet(err error) T {
	v, ok := f.Get(err)
	if !ok {
		var zero T
		panic(fmt.Errorf("xgxtrap.TypedField[%T](%q): missing or wrong type", zero, f.key))
	}
	return v
}
