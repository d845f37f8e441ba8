// Package render prints captured stack traces as text.
//
// One line per frame, innermost first:
//
//	0x4a1b2c|github.com/acme/app|github.com/acme/app.parse|/src/app/parse.go:42
//
// Fields that could not be resolved are left empty; the address is always
// present.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	xgxtrap "github.com/xgx-io/xgx-trap"
)

// Sep separates the fields of a frame line.
const Sep = "|"

type options struct {
	color  bool
	indent string
	limit  int
}

// Option configures Write.
type Option func(*options)

// WithColor highlights addresses and function names. It still honors
// color.NoColor (set by NO_COLOR or a non-terminal output).
func WithColor(on bool) Option {
	return func(o *options) { o.color = on }
}

// WithIndent prefixes every line.
func WithIndent(s string) Option {
	return func(o *options) { o.indent = s }
}

// WithLimit prints at most n frames followed by an elision line. n <= 0
// prints all of them.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

var (
	addrColor = color.New(color.FgHiBlack)
	funcColor = color.New(color.FgCyan, color.Bold)
	fileColor = color.New(color.FgYellow)
)

// Write resolves every address of tr through sym and writes one line per
// frame. A nil sym selects xgxtrap.RuntimeSymbolizer.
func Write(w io.Writer, tr *xgxtrap.StackTrace, sym xgxtrap.Symbolizer, opts ...Option) error {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if sym == nil {
		sym = xgxtrap.RuntimeSymbolizer{}
	}
	paint := func(c *color.Color, s string) string {
		if !o.color || s == "" {
			return s
		}
		return c.Sprint(s)
	}

	locs := tr.Resolve(sym)
	for i, loc := range locs {
		if o.limit > 0 && i == o.limit {
			if _, err := fmt.Fprintf(w, "%s... %d more\n", o.indent, len(locs)-i); err != nil {
				return err
			}
			break
		}
		if _, err := fmt.Fprintf(w, "%s%s%s%s%s%s%s%s\n",
			o.indent,
			paint(addrColor, fmt.Sprintf("%#x", loc.PC)), Sep,
			loc.Module, Sep,
			paint(funcColor, loc.Function), Sep,
			paint(fileColor, position(loc)),
		); err != nil {
			return err
		}
	}
	if tr.Truncated() {
		if _, err := fmt.Fprintf(w, "%s(truncated)\n", o.indent); err != nil {
			return err
		}
	}
	return nil
}

// Line formats a single resolved frame without color.
func Line(loc xgxtrap.Location) string {
	return fmt.Sprintf("%#x%s%s%s%s%s%s", loc.PC, Sep, loc.Module, Sep, loc.Function, Sep, position(loc))
}

func position(loc xgxtrap.Location) string {
	if loc.File == "" {
		return ""
	}
	if loc.Line <= 0 {
		return loc.File
	}
	return loc.File + ":" + strconv.Itoa(loc.Line)
}
