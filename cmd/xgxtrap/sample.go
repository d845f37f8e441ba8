package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	xgxtrap "github.com/xgx-io/xgx-trap"
	"github.com/xgx-io/xgx-trap/render"
)

const (
	faultRaise = "raise"
	faultNil   = "nil"
	faultIndex = "index"
	faultValue = "value"

	defaultMessage = "I'm an exception!"
)

type sampleParams struct {
	fault    string
	message  string
	crashLog string
	stderr   io.Writer
	color    bool
}

// sampleError is the error the default fault raises.
type sampleError struct{ msg string }

func (e *sampleError) Error() string { return e.msg }

// runSample runs the selected fault under a protected call catching any
// error. A caught raise prints the message, a blank line, "Stack:" and the
// trace, and yields exit code 2. A fault that is not an error (value)
// propagates and crashes the process.
func runSample(ctx context.Context, p sampleParams, opts ...xgxtrap.Option) (int, error) {
	fault, ok := faults[p.fault]
	if !ok {
		return 0, fmt.Errorf("unknown fault %q", p.fault)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		caught error
		trace  *xgxtrap.StackTrace
	)
	code := xgxtrap.Run(ctx,
		func(ctx context.Context) int {
			fault(ctx, p.message)
			return 0
		},
		func(err error, tr *xgxtrap.StackTrace) int {
			caught, trace = err, tr
			return exitCaught
		},
		opts...)
	if trace == nil {
		return code, nil
	}

	if err := writeReport(p.stderr, caught, trace, render.WithColor(p.color)); err != nil {
		return code, err
	}
	if p.crashLog != "" {
		var buf bytes.Buffer
		if err := writeReport(&buf, caught, trace); err != nil {
			return code, err
		}
		if err := os.WriteFile(p.crashLog, buf.Bytes(), 0o644); err != nil {
			return code, fmt.Errorf("writing crash log: %w", err)
		}
	}
	return code, nil
}

func writeReport(w io.Writer, err error, tr *xgxtrap.StackTrace, opts ...render.Option) error {
	if _, werr := fmt.Fprintf(w, "%v\n\nStack:\n", err); werr != nil {
		return werr
	}
	return render.Write(w, tr, xgxtrap.RuntimeSymbolizer{}, opts...)
}

var faults = map[string]func(ctx context.Context, msg string){
	faultRaise: raiseSample,
	faultNil:   derefNil,
	faultIndex: indexPastEnd,
	faultValue: raiseValue,
}

func raiseSample(ctx context.Context, msg string) {
	xgxtrap.Raise(ctx, &sampleError{msg: msg})
}

func derefNil(context.Context, string) {
	var p *sampleError
	_ = p.msg
}

func indexPastEnd(_ context.Context, msg string) {
	b := []byte(msg)
	_ = b[len(b)]
}

func raiseValue(ctx context.Context, _ string) {
	xgxtrap.Raise(ctx, 5)
}
