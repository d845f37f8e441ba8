// session.go — one installation of the interceptor around a protected call.
//
// Sessions form a chain through context.Context: a protected call receives a
// context holding its session, whose parent is the session found in the
// caller's context. The chain is the saved-and-restored registration of
// nested protected regions; because contexts are immutable, leaving a region
// restores the previous registration on every exit path. The context is only
// read by Raise (the re-entry point of the probe) and by the Orchestrator.
package xgxtrap

import (
	"context"
	"sync/atomic"
)

type intent int

const (
	// intentIntercept sessions are handlers: a match stops the panic.
	intentIntercept intent = iota
	// intentObserve sessions capture as a side effect and never stop it.
	intentObserve
)

// capture is what the side channel of a session holds.
type capture struct {
	payload any // the raised value, for identity checks
	result  MatchResult
	trace   *StackTrace
}

type session struct {
	parent  *session
	target  TypeToken
	intent  intent
	cfg     *config
	observe func(*capture)

	// base is the number of frames at or below invoke.
	base    int
	closed  atomic.Bool
	pending atomic.Pointer[capture]
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) *session {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(sessionKey{}).(*session)
	return s
}

func newSession(ctx context.Context, target TypeToken, in intent, cfg *config) *session {
	return &session{
		parent: sessionFrom(ctx),
		target: target,
		intent: in,
		cfg:    cfg,
	}
}

// invoke runs op inside the session and returns the capture when the session
// handled a raise. Raises it does not handle propagate unchanged.
//
//go:noinline
func (s *session) invoke(ctx context.Context, op func(context.Context)) (c *capture) {
	s.base = callerDepth(0)
	defer s.close()

	returned := false
	defer func() {
		if returned {
			return
		}
		r := recover()
		if r == nil {
			// runtime.Goexit: nothing is in flight and recover did not stop it
			return
		}
		if v, got := s.decide(r); v == HandleHere {
			c = got
			return
		}
		panic(r)
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	op(context.WithValue(ctx, sessionKey{}, s))
	returned = true
	return nil
}

func (s *session) close() {
	s.closed.Store(true)
	s.pending.Store(nil)
}

// decide is the filter verdict for a value recovered by this session. It runs
// inside the deferred call, with the panicking frames still live.
func (s *session) decide(r any) (Verdict, *capture) {
	handler := s.contain(func() *session { return s.search(NewRecord(r, false), false) })
	if handler != s {
		return ContinueSearch, nil
	}
	c := s.pending.Swap(nil)
	if c == nil || !samePayload(c.payload, r) {
		return ContinueSearch, nil
	}
	if s.intent == intentObserve {
		s.deliver(c)
		return ContinueSearch, nil
	}
	return HandleHere, c
}

// probe is the raise-time search started by Raise.
func (s *session) probe(v any) {
	for cand := s; cand != nil; cand = cand.parent {
		if _, ok := cand.cfg.strategy.(probeStrategy); ok {
			s.contain(func() *session { return s.search(NewRecord(v, true), true) })
			return
		}
	}
}

// search walks the chain outward from s like the runtime walks handlers:
// innermost first, skipping closed sessions. Observing sessions that accept
// the value get a capture parked and the walk goes on; the first intercepting
// session that accepts it gets a capture parked and ends the walk. It returns
// s itself when s has a capture to consume (s may be an observer), the chosen
// handler otherwise, or nil.
//
// At raise time (raising=true) each session is asked through its strategy's
// raise eligibility; at recovery every session captures on match.
func (s *session) search(rec RawRecord, raising bool) *session {
	v, err := Decode(rec)
	if err != nil {
		s.logDecodeFailure(err)
		return nil
	}

	var (
		raw      []uintptr
		complete bool
		taken    bool
	)
	snapshot := func(cand *session) *StackTrace {
		if !taken {
			raw, complete = cand.cfg.walker.Walk(captureSkip, cand.cfg.walkLimit)
			taken = true
		}
		return buildTrace(raw, complete, cand.base, cand.cfg.maxDepth)
	}

	var self bool
	for cand := s; cand != nil; cand = cand.parent {
		if cand.closed.Load() {
			continue
		}
		// At raise time a capture already parked for the same value is left
		// over from a raise recovered inside the protected call; it is
		// replaced below instead of reused.
		if p := cand.pending.Load(); !raising && p != nil && samePayload(p.payload, rec.Payload) {
			self = self || cand == s
			if cand.intent == intentIntercept {
				return pick(s, cand, self)
			}
			continue
		}

		park := func(thrown Descriptor, target TypeToken, verdict MatchResult) {
			if !verdict.Matched {
				return
			}
			tr := snapshot(cand)
			cand.pending.Store(&capture{payload: rec.Payload, result: verdict, trace: tr})
			cand.logCapture(thrown, tr, rec.Magic)
		}
		var elig Eligibility
		if raising {
			elig = cand.cfg.strategy.raiseEligibility(cand, park)
		} else {
			elig = NewProbe(park)
		}

		res := elig.Eligible(v, cand.target, cand.cfg.retrieval)
		if !res.Matched {
			cand.logNoMatch(res)
			continue
		}
		self = self || cand == s
		if cand.intent == intentIntercept {
			return pick(s, cand, self)
		}
	}
	if self {
		return s
	}
	return nil
}

// pick reports s when s itself holds a capture for the value (an observer
// passed on the way), the handler otherwise.
func pick(s, handler *session, self bool) *session {
	if self && s.intent == intentObserve {
		return s
	}
	return handler
}

// contain runs fn and converts a panic raised inside it into a logged
// ReentrantFault and a nil result.
func (s *session) contain(fn func() *session) (h *session) {
	defer func() {
		if r := recover(); r != nil {
			h = nil
			s.logFault(ReentrantFault(r))
		}
	}()
	return fn()
}

// deliver hands a capture to an observing session's callback; a panic in the
// callback is contained so the original panic keeps propagating.
func (s *session) deliver(c *capture) {
	s.contain(func() *session {
		s.observe(c)
		return nil
	})
}

// captureSkip is the number of frames a capture site skips before the window
// rules of buildTrace apply: the snapshot closure itself.
const captureSkip = 1
