// stack.go — captured stack traces and the window rules that shape them.
//
// A trace is built from a full walk taken inside the interception window:
//
//	[walker frames][capture helpers][runtime panic frames][raise site ... protected op][interceptor ... bottom]
//	 \___ skipped by count ________/ \__ dropped by name _/ \________ kept _________/ \__ cut by depth ___/
//
//   - The walker and capture helpers are skipped by a fixed count supplied by
//     each capture site (see captureSkip in session.go).
//   - Leading runtime frames (runtime.gopanic, runtime.sigpanic, runtime.panicmem,
//     map/slice helpers that raised a runtime error, ...) and interceptor frames
//     are dropped so the first entry is the raise site.
//   - The outer edge is cut at the owning session: it records how many frames
//     lie at or below its own invoke frame when it is installed, and exactly
//     that many are removed from the bottom.
//   - Interceptor frames found in between (a nested session that re-panicked
//     without sharing its context) are filtered out.
//   - The rest is capped at MaxDepth, innermost first; overflow or an
//     incomplete walk marks the trace truncated.
package xgxtrap

import (
	"iter"
	"reflect"
	"runtime"
	"strings"

	"github.com/gofrs/uuid"
)

const (
	// DefaultMaxDepth is the number of frames a trace keeps.
	DefaultMaxDepth = 128
	// DefaultWalkLimit bounds the raw walk the window is cut from.
	DefaultWalkLimit = 1 << 14
)

// StackTrace is an immutable, innermost-first sequence of return addresses
// captured at a raise site. It owns its storage; it never refers to the stack
// it was taken from.
type StackTrace struct {
	id        uuid.UUID
	pcs       []uintptr
	truncated bool
	maxDepth  int
}

// ID identifies the capture in logs.
func (t *StackTrace) ID() uuid.UUID {
	if t == nil {
		return uuid.Nil
	}
	return t.id
}

// Len returns the number of captured frames.
func (t *StackTrace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.pcs)
}

// Truncated reports whether frames beyond the cap (or beyond an invalid
// frame link) were dropped.
func (t *StackTrace) Truncated() bool { return t != nil && t.truncated }

// At returns the i-th address, innermost first, or 0 when i is out of range
// or t is nil.
func (t *StackTrace) At(i int) uintptr {
	if t == nil || i < 0 || i >= len(t.pcs) {
		return 0
	}
	return t.pcs[i]
}

// All iterates the addresses innermost first. Each call starts over.
func (t *StackTrace) All() iter.Seq2[int, uintptr] {
	return func(yield func(int, uintptr) bool) {
		if t == nil {
			return
		}
		for i, pc := range t.pcs {
			if !yield(i, pc) {
				return
			}
		}
	}
}

// PCs returns a copy of the addresses.
func (t *StackTrace) PCs() []uintptr {
	if t == nil {
		return nil
	}
	out := make([]uintptr, len(t.pcs))
	copy(out, t.pcs)
	return out
}

// Err returns a CaptureTruncated error when the trace is incomplete.
func (t *StackTrace) Err() error {
	if !t.Truncated() {
		return nil
	}
	return FieldTraceID.Set(CaptureTruncated(len(t.pcs), t.maxDepth), t.id.String())
}

// Resolve maps every address through sym.
func (t *StackTrace) Resolve(sym Symbolizer) []Location {
	if t == nil || sym == nil {
		return nil
	}
	out := make([]Location, len(t.pcs))
	for i, pc := range t.pcs {
		out[i] = sym.Resolve(pc)
	}
	return out
}

// buildTrace applies the window rules to a raw walk. base is the number of
// frames owned by the session boundary and below (0 = keep everything).
func buildTrace(raw []uintptr, complete bool, base, maxDepth int) *StackTrace {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	end := len(raw)
	if complete && base > 0 {
		end = max(len(raw)-base, 0)
	}
	window := raw[:end]

	i := 0
	for i < len(window) {
		name := frameName(window[i])
		if !isInterceptorFrame(name) && !strings.HasPrefix(name, "runtime.") {
			break
		}
		i++
	}

	out := make([]uintptr, 0, min(len(window)-i, maxDepth))
	truncated := !complete
	for _, pc := range window[i:] {
		name := frameName(pc)
		if isInterceptorFrame(name) || isPanicFrame(name) {
			continue
		}
		if len(out) == maxDepth {
			truncated = true
			break
		}
		out = append(out, pc)
	}
	id, _ := uuid.NewV4()
	return &StackTrace{id: id, pcs: out, truncated: truncated, maxDepth: maxDepth}
}

// callerDepth returns how many frames lie at or below the caller of
// callerDepth (skip=0) on the current goroutine.
//
//go:noinline
func callerDepth(skip int) int {
	pcs, _ := callersWalker{}.Walk(skip+1, DefaultWalkLimit)
	return len(pcs)
}

// pkgPrefix is this package's symbol prefix, e.g. "github.com/xgx-io/xgx-trap.".
var pkgPrefix = strings.TrimSuffix(
	runtime.FuncForPC(reflect.ValueOf(callerDepth).Pointer()).Name(), "callerDepth")

// interceptorSymbols lists the symbols (relative to pkgPrefix) that can sit
// on the stack between a raise site and its handler.
var interceptorSymbols = []string{
	"(*session).",
	"Run[",
	"Try[",
	"Observe[",
	"Raise",
	"callersWalker.",
	"framesWalker.",
	"callerDepth",
	"passThrough.",
	"(*sideChannelProbe).",
	"filterStrategy.",
	"probeStrategy.",
}

func frameName(pc uintptr) string {
	if fn := runtime.FuncForPC(pc - 1); fn != nil {
		return fn.Name()
	}
	return ""
}

func isInterceptorFrame(name string) bool {
	rest, ok := strings.CutPrefix(name, pkgPrefix)
	if !ok {
		return false
	}
	for _, s := range interceptorSymbols {
		if strings.HasPrefix(rest, s) {
			return true
		}
	}
	return false
}

// isPanicFrame matches the runtime functions that deliver a panic.
func isPanicFrame(name string) bool {
	switch {
	case strings.HasPrefix(name, "runtime.gopanic"),
		strings.HasPrefix(name, "runtime.panic"),
		strings.HasPrefix(name, "runtime.goPanic"),
		strings.HasPrefix(name, "runtime.sigpanic"),
		strings.HasPrefix(name, "runtime.deferCall"):
		return true
	}
	return false
}
