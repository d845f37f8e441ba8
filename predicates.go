// predicates.go — classification helpers over the unwrap graph.
//
// All predicates use errors.As so they work through fmt.Errorf("%w"),
// errors.Join and go-multierror wrappers alike.
package xgxtrap

import (
	"errors"
)

// HasCode reports whether any error in err's unwrap graph carries code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	found := false
	walkErrors(err, func(e error) bool {
		if cv, ok := e.(interface{ CodeVal() Code }); ok && cv.CodeVal() == code {
			found = true
			return false
		}
		return true
	})
	return found
}

// CodeOf returns the first Code found along err's chain, or "".
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var cv interface{ CodeVal() Code }
	if errors.As(err, &cv) {
		return cv.CodeVal()
	}
	return ""
}

// IsNoMatch reports whether err explains a raise that was left alone because
// the requested type was not raised.
func IsNoMatch(err error) bool { return HasCode(err, CodeNoMatch) }

// IsDecodeFailure reports whether err carries CodeDecodeFailure.
func IsDecodeFailure(err error) bool { return HasCode(err, CodeDecodeFailure) }

// IsTruncated reports whether err signals an incomplete stack capture.
func IsTruncated(err error) bool { return HasCode(err, CodeCaptureTruncated) }

// IsReentrantFault reports whether err wraps a fault contained inside the
// interceptor.
func IsReentrantFault(err error) bool { return HasCode(err, CodeReentrantFault) }
