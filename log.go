// log.go — interception diagnostics.
//
// Nothing here changes behavior: every event is informational and the default
// logger discards it. Captures, decode failures and misses log at debug
// level; contained faults at warn level since they point at a broken payload
// (e.g. an Unwrap method that panics).
package xgxtrap

import (
	"github.com/rs/zerolog"
)

func (s *session) log(level zerolog.Level) *zerolog.Event {
	return s.cfg.logger.WithLevel(level).
		Str("component", "xgxtrap").
		Str("strategy", s.cfg.strategy.Name()).
		Str("target", s.target.String())
}

func (s *session) logCapture(thrown Descriptor, tr *StackTrace, magic Magic) {
	s.log(zerolog.DebugLevel).
		Str("trace_id", tr.ID().String()).
		Str("thrown", thrown.Token.String()).
		Str("origin", magic.String()).
		Int("depth", tr.Len()).
		Bool("truncated", tr.Truncated()).
		Msg("raise captured")
}

func (s *session) logNoMatch(res MatchResult) {
	err := res.Err()
	s.log(zerolog.DebugLevel).
		Str("code", string(CodeOf(err))).
		Msg("raise not handled by session")
}

func (s *session) logDecodeFailure(err error) {
	s.log(zerolog.DebugLevel).
		Str("code", string(CodeOf(err))).
		Err(err).
		Msg("raw record rejected")
}

func (s *session) logFault(err error) {
	r, _ := FieldPanic.Get(err)
	s.log(zerolog.WarnLevel).
		Str("code", string(CodeOf(err))).
		Str("panic", r).
		Err(err).
		Msg("fault contained inside interceptor")
}
