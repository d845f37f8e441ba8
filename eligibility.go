package xgxtrap

// Eligibility is the handler-side test the interceptor asks while searching
// for a handler: can the raise described by v be caught as target?
type Eligibility interface {
	Eligible(v *View, target TypeToken, mode Retrieval) MatchResult
}

// passThrough answers with the plain type match.
type passThrough struct{}

func (passThrough) Eligible(v *View, target TypeToken, mode Retrieval) MatchResult {
	return Match(v, target, mode)
}

// ProbeFunc is the side channel of a probing eligibility test. It runs while
// the raise site is still live, receives the raised value's own descriptor,
// the handler's target and the genuine verdict, and must not alter the
// verdict.
type ProbeFunc func(thrown Descriptor, target TypeToken, verdict MatchResult)

// sideChannelProbe wraps an eligibility test so that every question asked of
// it is also reported to a side channel. The answer is always the wrapped
// test's.
type sideChannelProbe struct {
	next  Eligibility
	probe ProbeFunc
}

// NewProbe returns an Eligibility that reports every decision to fn before
// returning the verdict of the plain type match.
func NewProbe(fn ProbeFunc) Eligibility {
	return &sideChannelProbe{next: passThrough{}, probe: fn}
}

func (p *sideChannelProbe) Eligible(v *View, target TypeToken, mode Retrieval) MatchResult {
	verdict := p.next.Eligible(v, target, mode)
	if p.probe != nil {
		p.probe(v.Thrown(), target, verdict)
	}
	return verdict
}
