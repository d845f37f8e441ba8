// symbolize.go — address-to-symbol resolution.
//
// The engine itself only produces raw addresses. Turning them into names is
// the job of a Symbolizer; every field it returns is best-effort and may be
// empty when the information is not available.
package xgxtrap

import (
	"runtime"
	"strings"
)

// Location is the symbolic information known about one address.
type Location struct {
	PC       uintptr
	Module   string // package path owning the function
	Function string // fully-qualified function name
	File     string // absolute file path as recorded by the compiler
	Line     int    // 0 when unknown
}

// Known reports whether anything beyond the address was resolved.
func (l Location) Known() bool {
	return l.Function != "" || l.File != ""
}

// Symbolizer resolves a return address captured in a StackTrace.
type Symbolizer interface {
	Resolve(pc uintptr) Location
}

// SymbolizerFunc adapts a function to Symbolizer.
type SymbolizerFunc func(pc uintptr) Location

func (f SymbolizerFunc) Resolve(pc uintptr) Location { return f(pc) }

// RuntimeSymbolizer resolves addresses of the running binary through
// runtime.CallersFrames, which accounts for inlined calls.
type RuntimeSymbolizer struct{}

func (RuntimeSymbolizer) Resolve(pc uintptr) Location {
	loc := Location{PC: pc}
	if pc == 0 {
		return loc
	}
	fr, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	loc.Function = fr.Function
	loc.File = fr.File
	loc.Line = fr.Line
	loc.Module = packageOf(fr.Function)
	return loc
}

// packageOf extracts the package path from a fully-qualified function name:
// "github.com/a/b.(*T).M" → "github.com/a/b".
func packageOf(fn string) string {
	if fn == "" {
		return ""
	}
	slash := strings.LastIndexByte(fn, '/')
	if dot := strings.IndexByte(fn[slash+1:], '.'); dot >= 0 {
		return fn[:slash+1+dot]
	}
	return fn
}
