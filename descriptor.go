package xgxtrap

import (
	"reflect"
	"runtime"
	"sync"
)

// TypeToken is an opaque, equality-comparable stand-in for a Go type.
// Two tokens are equal exactly when they denote the identical reflect.Type.
type TypeToken struct {
	t reflect.Type
}

// TypeOf returns the token for T. Interface types are registered as catchable
// on first use, so any value implementing T becomes matchable as T.
func TypeOf[T any]() TypeToken {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		catchable.add(t)
	}
	return TypeToken{t: t}
}

// Type returns the underlying reflect.Type (nil for the zero token).
func (k TypeToken) Type() reflect.Type { return k.t }

// IsZero reports whether k denotes no type.
func (k TypeToken) IsZero() bool { return k.t == nil }

func (k TypeToken) String() string {
	if k.t == nil {
		return "<nil>"
	}
	return k.t.String()
}

// CopyFunc duplicates a payload node into storage owned by the caller.
type CopyFunc func(v any) any

// Descriptor is one type a raised value can be caught as.
type Descriptor struct {
	// Token identifies the type.
	Token TypeToken
	// Displacement indexes the payload node this type applies to: 0 is the
	// raised value itself, k the k-th distinct node of its unwrap graph.
	Displacement int
	// Size is the in-memory size of a value of the node's concrete type.
	Size uintptr
	// Module is the package path that owns the node's concrete type.
	Module string
	// Copy duplicates the node.
	Copy CopyFunc
}

// registry holds the interface types a value may be caught as, in
// registration order. error and runtime.Error are always present.
type registry struct {
	mu    sync.RWMutex
	order []reflect.Type
	index map[reflect.Type]struct{}
}

var catchable = newRegistry(
	reflect.TypeFor[error](),
	reflect.TypeFor[runtime.Error](),
)

func newRegistry(seed ...reflect.Type) *registry {
	r := &registry{index: make(map[reflect.Type]struct{}, len(seed))}
	for _, t := range seed {
		r.add(t)
	}
	return r
}

func (r *registry) add(t reflect.Type) {
	r.mu.RLock()
	_, ok := r.index[t]
	r.mu.RUnlock()
	if ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[t]; ok {
		return
	}
	r.index[t] = struct{}{}
	r.order = append(r.order, t)
}

// implementedBy returns the registered interfaces that t implements, in
// registration order.
func (r *registry) implementedBy(t reflect.Type) []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []reflect.Type
	for _, it := range r.order {
		if t.Implements(it) {
			out = append(out, it)
		}
	}
	return out
}

// Duplicator is implemented by payloads that know how to copy themselves.
// Duplicate must return a value of a type that is still catchable as the
// requested type (usually the receiver's own type).
type Duplicator interface {
	Duplicate() any
}

// duplicate is the default copy routine: Duplicator when implemented, a
// shallow copy of the pointee for non-nil pointers, the value itself
// otherwise (interfaces already hold non-pointer values by copy).
func duplicate(v any) any {
	if d, ok := v.(Duplicator); ok {
		return d.Duplicate()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return v
	}
	cp := reflect.New(rv.Elem().Type())
	cp.Elem().Set(rv.Elem())
	return cp.Interface()
}
