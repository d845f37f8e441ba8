// format.go — fmt.Formatter implementations.
//
// Behavior:
//
//   faultErr
//     %s, %v   → Error()
//     %+v      → code=<code> msg="<message>"
//                ctx: key1=val1 key2=val2
//                cause: <cause formatted with %+v>
//     %q       → quoted Error()
//
//   StackTrace (raw addresses only; symbolization lives in render)
//     %s, %v   → [0x4a1b2c 0x4a1d00 ...]
//     %+v      → one address per line, followed by "(truncated)" if flagged
package xgxtrap

import (
	"fmt"
	"io"
)

func formatVerbose(w io.Writer, code Code, msg string, ctx fields, cause error) {
	if code != "" {
		_, _ = fmt.Fprintf(w, "code=%s ", code)
	}
	_, _ = fmt.Fprintf(w, "msg=%q", msg)

	if len(ctx) > 0 {
		_, _ = io.WriteString(w, "\nctx:")
		for _, f := range ctx {
			if f.Key != "" {
				_, _ = fmt.Fprintf(w, " %s=%v", f.Key, f.Val)
			}
		}
	}
	if cause != nil {
		_, _ = io.WriteString(w, "\ncause: ")
		_, _ = fmt.Fprintf(w, "%+v", cause)
	}
}

func (e *faultErr) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			formatVerbose(s, e.code, e.msg, e.ctx, e.cause)
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = io.WriteString(s, e.Error())
	}
}

func (t *StackTrace) Format(s fmt.State, verb rune) {
	if t == nil {
		_, _ = io.WriteString(s, "[]")
		return
	}
	if verb == 'v' && s.Flag('+') {
		for i, pc := range t.pcs {
			if i > 0 {
				_, _ = io.WriteString(s, "\n")
			}
			_, _ = fmt.Fprintf(s, "%#x", pc)
		}
		if t.truncated {
			_, _ = io.WriteString(s, "\n(truncated)")
		}
		return
	}
	_, _ = io.WriteString(s, "[")
	for i, pc := range t.pcs {
		if i > 0 {
			_, _ = io.WriteString(s, " ")
		}
		_, _ = fmt.Fprintf(s, "%#x", pc)
	}
	_, _ = io.WriteString(s, "]")
}
