// Package xgxtrap intercepts panics before the goroutine stack is unwound and
// captures the call stack that was live at the raise site, without changing
// which handler ends up running.
//
// Design tenets:
//   - Non-destructive: a value nobody asked for propagates exactly as if no
//     interception had been installed.
//   - Validated, never trusted: raw records are decoded into typed views and
//     rejected when they do not match the expected layout.
//   - By value: captured traces and duplicated payloads never reference the
//     stack they were taken from.
//
// The diagnostic errors of this package follow the xgx error model: coded,
// copy-on-write, interoperable with errors.Is/As.
package xgxtrap

// Code classifies a diagnostic error into a machine-readable category.
//
// Codes are stringly-typed for stability across log and serialization
// boundaries. The built-in set lives in codes.go.
type Code string

// Error is the contract of every diagnostic error produced by this package.
//
// Fluent methods MUST be non-mutating: they return a new Error value and leave
// the receiver untouched, so a shared error (e.g. one stored on a StackTrace)
// stays safe to read from any goroutine.
type Error interface {
	error

	// Ctx sets the message if it is still empty and appends key-value fields.
	// Returns a NEW Error.
	Ctx(msg string, kv ...any) Error

	// With adds a single key-value field. Returns a NEW Error.
	With(key string, val any) Error

	// Code overrides the classification code. Returns a NEW Error.
	Code(Code) Error

	// CodeVal returns the classification code ("" when unspecified).
	CodeVal() Code

	// Context returns a copy of the fields as a map (last write wins).
	Context() map[string]any

	// Unwrap returns the causal parent, or nil.
	Unwrap() error
}
