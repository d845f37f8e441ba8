// walker.go — stack walking backends.
//
// Both backends return a flat, innermost-first list of return addresses of
// the calling goroutine, one entry per logical frame (inlined calls are
// expanded by the runtime), and report whether the walk reached the bottom of
// the stack. Skip model: skip=0 makes the caller of Walk the first entry.
package xgxtrap

import (
	"runtime"
)

// Walker produces the return addresses of the calling goroutine.
type Walker interface {
	// Walk records at most limit addresses after skipping skip frames.
	// complete is false when limit stopped the walk before the bottom.
	Walk(skip, limit int) (pcs []uintptr, complete bool)
}

// CallersWalker captures with the runtime's built-in backtrace into a buffer
// that grows up to limit.
func CallersWalker() Walker { return callersWalker{} }

// FramesWalker takes one backtrace and then follows the recorded frame chain
// link by link, stopping at the first link with no function behind it.
func FramesWalker() Walker { return framesWalker{} }

type callersWalker struct{}

const initialWalkBuffer = 64

//go:noinline
func (callersWalker) Walk(skip, limit int) ([]uintptr, bool) {
	if limit <= 0 {
		return nil, false
	}
	size := min(limit+1, initialWalkBuffer)
	for {
		buf := make([]uintptr, size)
		// +2: runtime.Callers and this method
		n := runtime.Callers(skip+2, buf)
		if n < size {
			return buf[:n:n], true
		}
		if size > limit {
			return buf[:limit:limit], false
		}
		size = min(size*2, limit+1)
	}
}

type framesWalker struct{}

//go:noinline
func (framesWalker) Walk(skip, limit int) ([]uintptr, bool) {
	if limit <= 0 {
		return nil, false
	}
	// +1: this method
	raw, complete := callersWalker{}.Walk(skip+1, limit)
	for i, pc := range raw {
		if pc == 0 || runtime.FuncForPC(pc-1) == nil {
			return raw[:i:i], true
		}
	}
	return raw, complete
}

// walkerByName resolves configuration names.
func walkerByName(name string) (Walker, bool) {
	switch name {
	case "", "callers":
		return CallersWalker(), true
	case "frames":
		return FramesWalker(), true
	}
	return nil, false
}
