// Package session holds the single mutable record threaded through a
// generation run: the conversation history, the current candidate, the last
// verdict, and the attempt accounting. A State is created once per run, is
// mutated only by the loop controller between stages, and is discarded once
// the terminal outcome has been reported.
package session

import (
	"github.com/google/uuid"
	"github.com/tabular-agents/forge/core/protocol"
	"github.com/tabular-agents/forge/validate"
)

// Status is the tri-state terminal outcome of a session.
type Status int

const (
	Running Status = iota
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the per-run session record. The target ID and attempt budget are
// fixed at creation; the conversation history is append-only; the candidate is
// replaced wholesale on each generation, never edited in place.
type State struct {
	id          string
	targetID    string
	history     []protocol.Message
	candidate   string
	verdict     *validate.Verdict
	attempts    int
	maxAttempts int
	status      Status
}

// NewState creates a session for one target with a fixed attempt budget.
// The session is assigned a unique UUIDv7 identifier.
func NewState(targetID string, maxAttempts int) *State {
	return &State{
		id:          uuid.Must(uuid.NewV7()).String(),
		targetID:    targetID,
		maxAttempts: maxAttempts,
	}
}

// ID returns the unique session identifier.
func (s *State) ID() string { return s.id }

// TargetID returns the identifier of the fixture this session generates for.
func (s *State) TargetID() string { return s.targetID }

// Append adds a message to the conversation history. History only ever grows;
// corrections are appended, never rewritten over earlier context.
func (s *State) Append(msg protocol.Message) {
	s.history = append(s.history, msg)
}

// History returns a defensive copy of the conversation history.
func (s *State) History() []protocol.Message {
	copied := make([]protocol.Message, len(s.history))
	copy(copied, s.history)
	return copied
}

// HistoryLen returns the number of messages accumulated so far.
func (s *State) HistoryLen() int { return len(s.history) }

// SetCandidate replaces the current candidate program text.
func (s *State) SetCandidate(code string) { s.candidate = code }

// Candidate returns the most recently generated program text, or "" when no
// candidate has been produced yet.
func (s *State) Candidate() string { return s.candidate }

// SetVerdict records the result of the most recent validation.
func (s *State) SetVerdict(v *validate.Verdict) { s.verdict = v }

// Verdict returns the most recent validation result, or nil before the first
// candidate has been validated.
func (s *State) Verdict() *validate.Verdict { return s.verdict }

// NextAttempt increments the attempt counter and returns the new count.
// The counter never exceeds the budget: once exhausted, further calls are
// no-ops, so attempts <= maxAttempts holds at all times.
func (s *State) NextAttempt() int {
	if s.attempts < s.maxAttempts {
		s.attempts++
	}
	return s.attempts
}

// Attempts returns the number of generation attempts consumed.
func (s *State) Attempts() int { return s.attempts }

// MaxAttempts returns the fixed attempt budget.
func (s *State) MaxAttempts() int { return s.maxAttempts }

// Exhausted reports whether the attempt budget has been fully consumed.
func (s *State) Exhausted() bool { return s.attempts >= s.maxAttempts }

// Close marks the session terminal. Closing is one-way: the first terminal
// status sticks and later calls are ignored.
func (s *State) Close(status Status) {
	if s.status != Running {
		return
	}
	s.status = status
}

// Status returns the session's terminal state.
func (s *State) Status() Status { return s.status }
