// run.go — the orchestrator: protected calls and the probe-aware raise.
//
// Run installs a session for the duration of op and removes it on every exit
// path (normal return, panic, runtime.Goexit). A raise whose payload is
// catchable as T stops at Run and is handed to onCaught together with the
// stack captured at the raise site; anything else propagates untouched.
//
//	n := xgxtrap.Run(ctx,
//	    func(ctx context.Context) int { return parse(ctx, input) },
//	    func(err *SyntaxError, tr *xgxtrap.StackTrace) int {
//	        log.Printf("%v\n%+v", err, tr)
//	        return -1
//	    })
package xgxtrap

import (
	"context"

	"github.com/hashicorp/go-multierror"
)

// Run calls op and returns its result. If op raises a value catchable as T,
// the raise is stopped here and the result of onCaught is returned instead.
func Run[T, R any](ctx context.Context, op func(context.Context) R, onCaught func(T, *StackTrace) R, opts ...Option) R {
	s := newSession(ctx, TypeOf[T](), intentIntercept, newConfig(opts...))
	var out R
	c := s.invoke(ctx, func(ctx context.Context) { out = op(ctx) })
	if c == nil {
		return out
	}
	p, _ := c.result.Payload.(T)
	return onCaught(p, c.trace)
}

// Caught is a raise stopped by Try.
type Caught[T any] struct {
	Err   T
	Trace *StackTrace
}

// Try calls op and returns the raise it stopped, or nil when op returned.
func Try[T any](ctx context.Context, op func(context.Context), opts ...Option) *Caught[T] {
	return Run(ctx,
		func(ctx context.Context) *Caught[T] {
			op(ctx)
			return nil
		},
		func(p T, tr *StackTrace) *Caught[T] {
			return &Caught[T]{Err: p, Trace: tr}
		},
		opts...)
}

// Observe calls op. Every raise catchable as T that crosses it is reported to
// observe with its stack and then keeps propagating unchanged.
func Observe[T any](ctx context.Context, op func(context.Context), observe func(T, *StackTrace), opts ...Option) {
	s := newSession(ctx, TypeOf[T](), intentObserve, newConfig(opts...))
	s.observe = func(c *capture) {
		p, _ := c.result.Payload.(T)
		observe(p, c.trace)
	}
	s.invoke(ctx, op)
}

// Raise panics with v. Sessions in ctx that use the Probe strategy capture the
// stack before the panic starts, so no deferred call has run yet when the
// payload is duplicated. Raise with a context holding no session is panic(v).
//
//go:noinline
func Raise(ctx context.Context, v any) {
	if s := sessionFrom(ctx); s != nil {
		s.probe(v)
	}
	panic(v)
}

// Releaser is implemented by payloads holding resources beyond memory.
type Releaser interface {
	Release() error
}

// Release releases every value implementing Releaser and returns all failures
// at once. Other values are ignored.
func Release(vs ...any) error {
	var errs *multierror.Error
	for _, v := range vs {
		r, ok := v.(Releaser)
		if !ok {
			continue
		}
		if err := r.Release(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
