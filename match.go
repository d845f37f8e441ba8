package xgxtrap

import (
	"reflect"
)

// Retrieval selects how a matched payload is handed out.
type Retrieval int

const (
	// Duplicate copies the matched payload node through its descriptor's
	// copy routine so it outlives the interception window. Default.
	Duplicate Retrieval = iota
	// Borrow hands out the live node. Cheaper, but state mutated by deferred
	// calls that run after the capture is visible to the handler.
	Borrow
)

func (r Retrieval) String() string {
	switch r {
	case Duplicate:
		return "duplicate"
	case Borrow:
		return "borrow"
	}
	return "unknown"
}

// MatchResult is the outcome of testing a requested type against a View.
type MatchResult struct {
	Matched      bool
	Descriptor   Descriptor
	Displacement int
	// Payload is the node the descriptor points at: borrowed or duplicated
	// depending on Owned.
	Payload any
	// Owned is true when Payload is a duplicate owned by the caller.
	Owned bool

	target TypeToken
}

// Err returns a NoMatch error for an unmatched result, nil otherwise.
func (m MatchResult) Err() error {
	if m.Matched {
		return nil
	}
	return NoMatch(m.target)
}

// Match scans v's descriptors in declared order and returns the first whose
// token is identical to target.
func Match(v *View, target TypeToken, mode Retrieval) MatchResult {
	res := MatchResult{target: target}
	if v == nil || target.IsZero() {
		return res
	}
	for _, d := range v.descriptors {
		if d.Token != target {
			continue
		}
		res.Matched = true
		res.Descriptor = d
		res.Displacement = d.Displacement
		res.Payload = v.node(d.Displacement)
		if mode == Duplicate && d.Copy != nil {
			if dup := d.Copy(res.Payload); catchableAs(dup, target) {
				res.Payload = dup
				res.Owned = true
			}
		}
		return res
	}
	return res
}

// catchableAs reports whether v can still be handed out as target.
func catchableAs(v any, target TypeToken) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if target.t.Kind() == reflect.Interface {
		return t.Implements(target.t)
	}
	return t == target.t
}
