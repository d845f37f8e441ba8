package xgxtrap

import (
	"context"
	"testing"
)

func BenchmarkRun_NoRaise(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Run(ctx,
			func(context.Context) int { return i },
			func(*testErr, *StackTrace) int { return -1 })
	}
}

func BenchmarkRun_Caught(b *testing.B) {
	for _, s := range []Strategy{Filter(), Probe()} {
		b.Run(s.Name(), func(b *testing.B) {
			ctx := context.Background()
			e := &testErr{msg: "bench"}
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = Try[*testErr](ctx, func(ctx context.Context) { raiseAt1(ctx, e) }, WithStrategy(s))
			}
		})
	}
}

func BenchmarkRun_Propagated(b *testing.B) {
	ctx := context.Background()
	e := &testErr{msg: "bench"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		func() {
			defer func() { _ = recover() }()
			Try[*otherErr](ctx, func(ctx context.Context) { raiseAt1(ctx, e) })
		}()
	}
}

func BenchmarkDecode(b *testing.B) {
	rec := NewRecord(&testErr{msg: "bench"}, false)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(rec)
	}
}

func BenchmarkWalk(b *testing.B) {
	for _, tc := range walkers {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = tc.w.Walk(0, DefaultWalkLimit)
			}
		})
	}
}

func BenchmarkCtxAppend(b *testing.B) {
	base := DecodeFailure("bench")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = base.Ctx("step", "idx", i)
	}
}
