// construct.go — the concrete diagnostic error type and its constructors.
//
// Scope:
//   - One concrete type (faultErr) implementing Error with NON-MUTATING fluent
//     methods.
//   - One constructor per taxonomy entry: NoMatch, DecodeFailure,
//     CaptureTruncated, ReentrantFault, plus invalidConfig for Config.Validate.
//
// Message semantics follow the xgx model: Ctx sets the message only when it is
// empty and never concatenates; detail belongs in fields.
package xgxtrap

import (
	"fmt"
)

type faultErr struct {
	msg   string
	code  Code
	ctx   fields
	cause error
}

func (e *faultErr) Error() string {
	switch {
	case e.msg == "" && e.code == "":
		return "xgxtrap error"
	case e.msg == "":
		return string(e.code)
	case e.code == "":
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *faultErr) Unwrap() error           { return e.cause }
func (e *faultErr) CodeVal() Code           { return e.code }
func (e *faultErr) Context() map[string]any { return ctxToMap(e.ctx) }

func (e *faultErr) Ctx(msg string, kv ...any) Error {
	n := e.clone()
	if msg != "" && n.msg == "" {
		n.msg = msg
	}
	if len(kv) > 0 {
		n.ctx = ctxCloneAppend(n.ctx, ctxFromKV(kv...)...)
	}
	return n
}

func (e *faultErr) With(key string, val any) Error {
	n := e.clone()
	n.ctx = ctxCloneAppend(n.ctx, Field{Key: key, Val: val})
	return n
}

func (e *faultErr) Code(c Code) Error {
	n := e.clone()
	n.code = c
	return n
}

func (e *faultErr) clone() *faultErr {
	n := *e
	n.ctx = ctxCloneAppend(e.ctx)
	return &n
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// NoMatch reports that target is not among the catchable types of a raise.
func NoMatch(target TypeToken) Error {
	return &faultErr{
		msg:  "requested type not raised",
		code: CodeNoMatch,
		ctx:  ctxFromKV(FieldTarget.key, target.String()),
	}
}

// DecodeFailure reports a raw record that could not be interpreted.
func DecodeFailure(reason string, kv ...any) Error {
	return &faultErr{
		msg:  reason,
		code: CodeDecodeFailure,
		ctx:  ctxFromKV(kv...),
	}
}

// CaptureTruncated reports a stack walk that stopped before the bottom of the
// protected region. depth is the number of frames kept.
func CaptureTruncated(depth, maxDepth int) Error {
	return &faultErr{
		msg:  "stack capture truncated",
		code: CodeCaptureTruncated,
		ctx:  ctxFromKV(FieldDepth.key, depth, FieldMaxDepth.key, maxDepth),
	}
}

// ReentrantFault wraps a panic value raised by the interceptor itself.
func ReentrantFault(r any) Error {
	var cause error
	if err, ok := r.(error); ok {
		cause = err
	}
	return &faultErr{
		msg:   "fault inside interceptor",
		code:  CodeReentrantFault,
		ctx:   ctxFromKV(FieldPanic.key, fmt.Sprint(r)),
		cause: cause,
	}
}

func invalidConfig(field, reason string) Error {
	return &faultErr{
		msg:  "invalid " + field,
		code: CodeInvalidConfig,
		ctx:  ctxFromKV(FieldConfig.key, field, "reason", reason),
	}
}

var _ Error = (*faultErr)(nil)
