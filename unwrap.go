// unwrap.go — cycle-safe traversal of payload and error graphs.
//
// A raised value may wrap other errors through Unwrap() error or, since Go
// 1.20, Unwrap() []error. Every distinct node of that graph is something the
// raise can be caught as, so decoding walks it in PRE-ORDER (visit before
// children, children left to right), the same order errors.Is/As use.
//
// Identity:
//   - Pointer-typed nodes are deduplicated by address.
//   - Other comparable nodes are compared with ==.
//   - Nodes whose dynamic type is not comparable are the same only when both
//     interfaces box the very same value (same data word). panic and recover
//     hand the interface through unchanged, so a raised value still matches
//     itself; values produced anew by Unwrap are distinct and the walk stays
//     bounded by maxPayloadNodes.
package xgxtrap

import (
	"reflect"
	"unsafe"
)

type singleUnwrapper interface{ Unwrap() error }
type multiUnwrapper interface{ Unwrap() []error }

// wrappedErrors is the go-multierror accessor; its Unwrap only exposes a
// chain view of the same errors.
type wrappedErrors interface{ WrappedErrors() []error }

// maxPayloadNodes bounds the graph walk against runaway or hostile Unwrap
// implementations.
const maxPayloadNodes = 64

// samePayload reports whether a and b are the same raised value.
func samePayload(a, b any) (same bool) {
	if a == nil || b == nil {
		return false
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Func, reflect.Slice:
		// not comparable; pointer identity is the best available notion
		return ra.Pointer() == rb.Pointer() && (ra.Kind() != reflect.Slice || ra.Len() == rb.Len())
	}
	if !ra.Type().Comparable() {
		return dataWord(a) == dataWord(b)
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// dataWord is the value pointer of an interface.
func dataWord(v any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&v))[1]
}

// walkPayload visits root and then every distinct error reachable through its
// unwrap graph, in pre-order. visit returning false stops the walk.
func walkPayload(root any, visit func(any) bool) {
	if root == nil || visit == nil {
		return
	}
	var seen []any
	mark := func(v any) bool {
		for _, s := range seen {
			if samePayload(s, v) {
				return false
			}
		}
		seen = append(seen, v)
		return true
	}

	stack := []any{root}
	mark(root)
	for len(stack) > 0 && len(seen) <= maxPayloadNodes {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(cur) {
			return
		}
		var kids []error
		switch u := cur.(type) {
		case wrappedErrors:
			kids = u.WrappedErrors()
		case multiUnwrapper:
			kids = u.Unwrap()
		case singleUnwrapper:
			if k := u.Unwrap(); k != nil {
				kids = []error{k}
			}
		}
		for i := len(kids) - 1; i >= 0; i-- {
			if kids[i] != nil && mark(kids[i]) {
				stack = append(stack, kids[i])
			}
		}
	}
}

// walkErrors is walkPayload restricted to error graphs.
func walkErrors(err error, visit func(error) bool) {
	walkPayload(err, func(v any) bool {
		e, ok := v.(error)
		if !ok {
			return true
		}
		return visit(e)
	})
}
