// strategy.go — the two interception variants.
//
//   Filter  The session's deferred call is the only interception point. It
//           runs while every panicking frame is still on the stack (Go pops
//           frames only once a deferred call recovers), decodes the value,
//           searches the session chain for a handler and captures on its
//           behalf. Works for every panic, including runtime faults.
//
//   Probe   Raise consults the session chain found in its context BEFORE
//           calling panic: each probing session answers through a side
//           channel that captures the stack and parks it, then returns the
//           genuine verdict. The deferred call acts as the decoy catch-all:
//           it recovers, consumes the parked capture if it belongs to the
//           same value, and otherwise falls back to Filter. Deferred calls
//           between the raise site and the session therefore cannot mutate
//           the payload before it is duplicated.
//
// Both variants leave the outcome of the search untouched: a value no session
// accepts is re-panicked as is.
package xgxtrap

// Verdict is the decision an interception point takes about a raise.
type Verdict int

const (
	// ContinueSearch lets the panic keep propagating unchanged.
	ContinueSearch Verdict = iota
	// HandleHere stops the panic at this session.
	HandleHere
)

func (v Verdict) String() string {
	if v == HandleHere {
		return "handle_here"
	}
	return "continue_search"
}

// Strategy selects how a session takes part in the handler search.
// Implementations are provided by Filter and Probe.
type Strategy interface {
	Name() string
	// raiseEligibility is the test Raise asks of session s before the panic
	// starts. park stores a capture in s.
	raiseEligibility(s *session, park ProbeFunc) Eligibility
}

type filterStrategy struct{}

// Filter returns the deferred-filter variant.
func Filter() Strategy { return filterStrategy{} }

func (filterStrategy) Name() string { return "filter" }

// Filter sessions do not capture at raise time; they still answer so the
// search stops at them when they will handle the value.
func (filterStrategy) raiseEligibility(*session, ProbeFunc) Eligibility {
	return passThrough{}
}

type probeStrategy struct{}

// Probe returns the catch-probe variant. Default.
func Probe() Strategy { return probeStrategy{} }

func (probeStrategy) Name() string { return "probe" }

func (probeStrategy) raiseEligibility(_ *session, park ProbeFunc) Eligibility {
	return NewProbe(park)
}

// StrategyByName resolves "filter" or "probe" ("" selects the default).
func StrategyByName(name string) (Strategy, bool) {
	switch name {
	case "", "probe":
		return Probe(), true
	case "filter":
		return Filter(), true
	}
	return nil, false
}
