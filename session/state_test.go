package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabular-agents/forge/core/protocol"
	"github.com/tabular-agents/forge/validate"
)

func TestNewState(t *testing.T) {
	t.Parallel()

	st := NewState("icici", 3)

	_, err := uuid.Parse(st.ID())
	require.NoError(t, err)
	assert.Equal(t, "icici", st.TargetID())
	assert.Equal(t, 0, st.Attempts())
	assert.Equal(t, 3, st.MaxAttempts())
	assert.Equal(t, Running, st.Status())
	assert.False(t, st.Exhausted())
	assert.Empty(t, st.Candidate())
	assert.Nil(t, st.Verdict())
}

func TestStateIDsUnique(t *testing.T) {
	t.Parallel()

	a := NewState("icici", 3)
	b := NewState("icici", 3)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestAppendAndHistory(t *testing.T) {
	t.Parallel()

	st := NewState("icici", 3)
	st.Append(protocol.NewMessage(protocol.RoleUser, "write a parser"))
	st.Append(protocol.NewMessage(protocol.RoleAssistant, "def parse(p): ..."))

	assert.Equal(t, 2, st.HistoryLen())

	history := st.History()
	require.Len(t, history, 2)
	assert.Equal(t, protocol.RoleUser, history[0].Role)
	assert.Equal(t, protocol.RoleAssistant, history[1].Role)

	// Mutating the returned slice must not leak into the session.
	history[0].Content = "tampered"
	assert.Equal(t, "write a parser", st.History()[0].Content)
}

func TestNextAttemptCapsAtBudget(t *testing.T) {
	t.Parallel()

	st := NewState("icici", 2)
	assert.Equal(t, 1, st.NextAttempt())
	assert.False(t, st.Exhausted())
	assert.Equal(t, 2, st.NextAttempt())
	assert.True(t, st.Exhausted())
	assert.Equal(t, 2, st.NextAttempt())
	assert.Equal(t, 2, st.Attempts())
}

func TestSetCandidateReplaces(t *testing.T) {
	t.Parallel()

	st := NewState("icici", 3)
	st.SetCandidate("v1")
	st.SetCandidate("v2")
	assert.Equal(t, "v2", st.Candidate())
}

func TestSetVerdict(t *testing.T) {
	t.Parallel()

	st := NewState("icici", 3)
	st.SetVerdict(&validate.Verdict{Pass: true})
	require.NotNil(t, st.Verdict())
	assert.True(t, st.Verdict().Pass)
}

func TestCloseIsOneWay(t *testing.T) {
	t.Parallel()

	st := NewState("icici", 3)
	st.Close(Succeeded)
	assert.Equal(t, Succeeded, st.Status())

	st.Close(Failed)
	assert.Equal(t, Succeeded, st.Status())
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", Status(42).String())
}
