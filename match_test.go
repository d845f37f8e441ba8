// match_test.go — type matching and payload retrieval.
package xgxtrap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDup struct {
	msg    string
	copies int
}

func (e *countingDup) Error() string { return e.msg }
func (e *countingDup) Duplicate() any {
	return &countingDup{msg: e.msg + " (copy)", copies: e.copies + 1}
}

// wrongDup returns a copy that is no longer catchable as its own type.
type wrongDup struct{}

func (*wrongDup) Error() string  { return "wrong" }
func (*wrongDup) Duplicate() any { return "not an error" }

func decodeT(t *testing.T, v any) *View {
	t.Helper()
	view, err := Decode(NewRecord(v, false))
	require.NoError(t, err)
	return view
}

func TestMatch_FirstIdenticalTokenWins(t *testing.T) {
	t.Parallel()

	inner := &testErr{msg: "inner"}
	v := decodeT(t, fmt.Errorf("outer: %w", inner))

	res := Match(v, TypeOf[error](), Borrow)
	require.True(t, res.Matched)
	assert.Equal(t, 0, res.Displacement)

	res = Match(v, TypeOf[*testErr](), Borrow)
	require.True(t, res.Matched)
	assert.Equal(t, 1, res.Displacement)
	assert.Same(t, inner, res.Payload)
	assert.False(t, res.Owned)
	assert.NoError(t, res.Err())
}

func TestMatch_NoMatch(t *testing.T) {
	t.Parallel()

	v := decodeT(t, &testErr{msg: "x"})
	res := Match(v, TypeOf[*otherErr](), Duplicate)
	assert.False(t, res.Matched)
	assert.Nil(t, res.Payload)

	err := res.Err()
	require.Error(t, err)
	assert.True(t, IsNoMatch(err))
	assert.Equal(t, "*xgxtrap.otherErr", FieldTarget.MustGet(err))

	assert.False(t, Match(nil, TypeOf[error](), Borrow).Matched)
	assert.False(t, Match(v, TypeToken{}, Borrow).Matched)
}

func TestMatch_DuplicateCopiesPointee(t *testing.T) {
	t.Parallel()

	e := &testErr{msg: "x"}
	res := Match(decodeT(t, e), TypeOf[*testErr](), Duplicate)
	require.True(t, res.Matched)
	assert.True(t, res.Owned)

	dup, ok := res.Payload.(*testErr)
	require.True(t, ok)
	assert.NotSame(t, e, dup)
	assert.Equal(t, *e, *dup)
}

func TestMatch_DuplicateThroughInterfaceKeepsConcreteType(t *testing.T) {
	t.Parallel()

	e := &testErr{msg: "x"}
	res := Match(decodeT(t, e), TypeOf[error](), Duplicate)
	require.True(t, res.Matched)
	dup, ok := res.Payload.(*testErr)
	require.True(t, ok)
	assert.NotSame(t, e, dup)
}

func TestMatch_DuplicatorIsPreferred(t *testing.T) {
	t.Parallel()

	res := Match(decodeT(t, &countingDup{msg: "x"}), TypeOf[*countingDup](), Duplicate)
	require.True(t, res.Matched)
	got := res.Payload.(*countingDup)
	assert.Equal(t, "x (copy)", got.msg)
	assert.Equal(t, 1, got.copies)
}

func TestMatch_UnusableDuplicateFallsBackToBorrow(t *testing.T) {
	t.Parallel()

	e := &wrongDup{}
	res := Match(decodeT(t, e), TypeOf[*wrongDup](), Duplicate)
	require.True(t, res.Matched)
	assert.False(t, res.Owned)
	assert.Same(t, e, res.Payload)
}

func TestMatch_ValuePayload(t *testing.T) {
	t.Parallel()

	res := Match(decodeT(t, 42), TypeOf[int](), Duplicate)
	require.True(t, res.Matched)
	assert.Equal(t, 42, res.Payload)
}

func TestRetrieval_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "duplicate", Duplicate.String())
	assert.Equal(t, "borrow", Borrow.String())
	assert.Equal(t, "unknown", Retrieval(9).String())
}

func TestEligibility_ProbeSeesEveryDecision(t *testing.T) {
	t.Parallel()

	type call struct {
		thrown  TypeToken
		target  TypeToken
		matched bool
	}
	var calls []call
	elig := NewProbe(func(thrown Descriptor, target TypeToken, verdict MatchResult) {
		calls = append(calls, call{thrown.Token, target, verdict.Matched})
	})

	v := decodeT(t, &testErr{msg: "x"})
	hit := elig.Eligible(v, TypeOf[error](), Borrow)
	miss := elig.Eligible(v, TypeOf[*otherErr](), Borrow)

	assert.True(t, hit.Matched)
	assert.Equal(t, TypeOf[error](), hit.Descriptor.Token)
	assert.False(t, miss.Matched)
	assert.Equal(t, []call{
		{TypeOf[*testErr](), TypeOf[error](), true},
		{TypeOf[*testErr](), TypeOf[*otherErr](), false},
	}, calls)
}

func TestTypeToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TypeOf[*testErr](), TypeOf[*testErr]())
	assert.NotEqual(t, TypeOf[*testErr](), TypeOf[testErr]())
	assert.True(t, TypeToken{}.IsZero())
	assert.Equal(t, "<nil>", TypeToken{}.String())
	assert.Equal(t, "error", TypeOf[error]().String())
}
