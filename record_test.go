// record_test.go — raw record tagging and validated decoding.
package xgxtrap

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// temporary is registered by the tests that need it; nothing outside this
// file implements it.
type temporary interface{ Temporary() bool }

type tempErr struct{}

func (tempErr) Error() string   { return "temp" }
func (tempErr) Temporary() bool { return true }

func TestNewRecord_Tags(t *testing.T) {
	t.Parallel()

	var rtErr runtime.Error
	func() {
		defer func() { rtErr = recover().(runtime.Error) }()
		var m map[string]int
		m["x"] = 1
	}()

	assert.Equal(t, MagicPanic, NewRecord("x", false).Magic)
	assert.Equal(t, MagicRuntime, NewRecord(rtErr, false).Magic)
	assert.Equal(t, MagicRaised, NewRecord(rtErr, true).Magic)
	assert.Equal(t, RecordVersion, NewRecord("x", false).Version)
}

func TestDecode_RejectsUnknownRecords(t *testing.T) {
	t.Parallel()

	cases := map[string]RawRecord{
		"unknown_magic": {Magic: 0xE06D7363, Version: RecordVersion, Payload: "x"},
		"zero_magic":    {Version: RecordVersion, Payload: "x"},
		"bad_version":   {Magic: MagicPanic, Version: RecordVersion + 1, Payload: "x"},
		"nil_payload":   {Magic: MagicPanic, Version: RecordVersion},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := Decode(rec)
			assert.Nil(t, v)
			require.Error(t, err)
			assert.True(t, IsDecodeFailure(err), "%+v", err)
		})
	}
}

func TestDecode_DescriptorOrder(t *testing.T) {
	t.Parallel()

	inner := &testErr{msg: "inner"}
	wrapped := fmt.Errorf("outer: %w", inner)
	v, err := Decode(NewRecord(wrapped, false))
	require.NoError(t, err)

	ds := v.Descriptors()
	require.Len(t, ds, 4)
	assert.Equal(t, TypeToken{t: reflect.TypeOf(wrapped)}, ds[0].Token)
	assert.Equal(t, TypeOf[error](), ds[1].Token)
	assert.Equal(t, TypeOf[*testErr](), ds[2].Token)
	assert.Equal(t, TypeOf[error](), ds[3].Token)

	assert.Equal(t, 0, ds[0].Displacement)
	assert.Equal(t, 0, ds[1].Displacement)
	assert.Equal(t, 1, ds[2].Displacement)
	assert.Equal(t, 1, ds[3].Displacement)

	assert.Equal(t, "github.com/xgx-io/xgx-trap", ds[2].Module)
	assert.Equal(t, "fmt", ds[0].Module)
	assert.Equal(t, ds[0].Token, v.Thrown().Token)
	assert.NotNil(t, v.Thrown().Copy)
	assert.Same(t, inner, v.node(1))
}

func TestDecode_RegisteredInterfacesFollowRegistrationOrder(t *testing.T) {
	t.Parallel()

	tok := TypeOf[temporary]()
	v, err := Decode(NewRecord(tempErr{}, true))
	require.NoError(t, err)

	ds := v.Descriptors()
	require.Len(t, ds, 3)
	assert.Equal(t, TypeOf[tempErr](), ds[0].Token)
	assert.Equal(t, TypeOf[error](), ds[1].Token)
	assert.Equal(t, tok, ds[2].Token)
	assert.Equal(t, MagicRaised, v.Record().Magic)
}

func TestDecode_JoinedErrorsArePreOrder(t *testing.T) {
	t.Parallel()

	a, b := &testErr{msg: "a"}, &otherErr{msg: "b"}
	v, err := Decode(NewRecord(errors.Join(a, b), false))
	require.NoError(t, err)

	var concrete []TypeToken
	for _, d := range v.Descriptors() {
		if d.Token.Type().Kind() != reflect.Interface {
			concrete = append(concrete, d.Token)
		}
	}
	require.Len(t, concrete, 3)
	assert.Equal(t, TypeOf[*testErr](), concrete[1])
	assert.Equal(t, TypeOf[*otherErr](), concrete[2])
}

func TestDecode_NonErrorPayload(t *testing.T) {
	t.Parallel()

	v, err := Decode(NewRecord(42, false))
	require.NoError(t, err)
	require.Len(t, v.Descriptors(), 1)
	assert.Equal(t, TypeOf[int](), v.Thrown().Token)
}

func TestDecode_CyclicUnwrapTerminates(t *testing.T) {
	t.Parallel()

	c := &cyclicErr{}
	c.next = c
	v, err := Decode(NewRecord(c, false))
	require.NoError(t, err)
	assert.Len(t, v.Descriptors(), 2)
}

type cyclicErr struct{ next error }

func (e *cyclicErr) Error() string { return "cycle" }
func (e *cyclicErr) Unwrap() error { return e.next }

func TestMagic_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "panic", MagicPanic.String())
	assert.Equal(t, "runtime", MagicRuntime.String())
	assert.Equal(t, "raised", MagicRaised.String())
	assert.Equal(t, "Magic(0x1)", Magic(1).String())
}
