// codes.go — classification codes for interception diagnostics.
//
// Conventions (documented, not enforced):
//   - Codes are lowercase snake_case ASCII.
//   - None of these conditions is fatal to the protected program; they only
//     explain why a raise was left alone or why a trace is incomplete.
package xgxtrap

// Interception outcomes
const (
	// CodeNoMatch: the requested type is absent from the catchable set; the
	// original panic propagates unchanged.
	CodeNoMatch Code = "no_match"
	// CodeDecodeFailure: the raw record did not carry the expected tag or
	// layout. Treated exactly like CodeNoMatch.
	CodeDecodeFailure Code = "decode_failure"
	// CodeReentrantFault: a panic was raised by the interceptor's own decoding
	// or capture logic. Contained and converted to "continue search".
	CodeReentrantFault Code = "reentrant_fault"
)

// Capture quality
const (
	// CodeCaptureTruncated: the walk hit the depth cap or an invalid frame
	// link. The trace is usable but incomplete.
	CodeCaptureTruncated Code = "capture_truncated"
)

// Configuration
const (
	CodeInvalidConfig Code = "invalid_config"
)

// allBuiltinCodes is the ordered set of codes this package emits.
var allBuiltinCodes = []Code{
	CodeNoMatch,
	CodeDecodeFailure,
	CodeReentrantFault,
	CodeCaptureTruncated,
	CodeInvalidConfig,
}

var builtinCodeSet = map[Code]struct{}{
	CodeNoMatch:          {},
	CodeDecodeFailure:    {},
	CodeReentrantFault:   {},
	CodeCaptureTruncated: {},
	CodeInvalidConfig:    {},
}

// BuiltinCodes returns a copy of the built-in codes in a stable order.
func BuiltinCodes() []Code {
	out := make([]Code, len(allBuiltinCodes))
	copy(out, allBuiltinCodes)
	return out
}

// IsBuiltin reports whether c is one of the codes emitted by this package.
func (c Code) IsBuiltin() bool {
	_, ok := builtinCodeSet[c]
	return ok
}
