// doc.go — package documentation for xgx-trap
//
// Package xgxtrap captures the call stack present at the instant a value is
// raised (panicked), before unwinding discards it, and hands it to the handler
// that stops the raise. Ordinary propagation is left alone: a value no handler
// asks for keeps propagating as if the package were not there.
//
// # Protected Calls
//
// A protected call names the type it handles:
//
//	n := xgxtrap.Run(ctx, parse, func(err *SyntaxError, tr *xgxtrap.StackTrace) int {
//	    return -1
//	})
//
//   - Run:     handler returns a value of the protected call's result type.
//   - Try:     returns *Caught[T] (payload + trace) or nil.
//   - Observe: reports the raise and lets it propagate.
//   - Raise:   panics with v after letting probing sessions capture first.
//
// A raised value is catchable as its concrete type, as every registered
// interface it implements (error and runtime.Error always; any interface
// passed to TypeOf, Run, Try or Observe from then on), and the same for every
// error in its Unwrap graph. The first catchable type identical to the
// requested one wins.
//
// # Interception Strategies
//
//	+----------+-----------------------------+------------------------------------+
//	| Strategy | Interception point          | Payload seen by the handler        |
//	+----------+-----------------------------+------------------------------------+
//	| Probe    | Raise, before panic starts  | duplicated before any defer ran    |
//	|          | (falls back to Filter)      |                                    |
//	| Filter   | the session's deferred call | duplicated after inner defers ran  |
//	+----------+-----------------------------+------------------------------------+
//
// Both capture the same frames: Go runs deferred calls before it pops the
// panicking frames, so the raise site is still on the stack when the deferred
// call of a session looks at it. Plain panic and runtime faults (nil
// dereference, index out of range) always go through the Filter path.
//
// # Nesting
//
// Sessions chain through context.Context. Thread the ctx a protected call
// receives into nested protected calls and Raise; a nested session that does
// not handle a raise captures on behalf of the enclosing handler, so the outer
// trace never shows the inner session's machinery.
//
// # Traces
//
// A StackTrace holds raw return addresses, innermost first, starting at the
// raise site and ending at the protected call's op. It is capped at MaxDepth
// (default 128); Truncated reports a cap hit or an incomplete walk. Addresses
// become names through a Symbolizer (RuntimeSymbolizer for the running binary;
// package render prints them).
//
// # Errors & Diagnostics
//
// The package never surfaces its own errors into the protected program.
// Diagnostics use coded errors (no_match, decode_failure, capture_truncated,
// reentrant_fault, invalid_config) with copy-on-write context and are logged
// through the zerolog.Logger given to WithLogger:
//   - Debug: capture, record rejected, session not matching.
//   - Warn:  a fault contained inside the interceptor (e.g. a panicking Unwrap).
//
// # Ownership
//
// The handler owns the payload and the trace. With Duplicate retrieval (the
// default) the payload is a copy made at capture time; with Borrow it is the
// live raised value. Payloads holding resources may implement Releaser; the
// garbage collector reclaims everything else.
package xgxtrap
