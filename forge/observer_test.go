package forge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabular-agents/forge/executor"
	"github.com/tabular-agents/forge/observability"
)

type recordingObserver struct {
	events []observability.Event
}

func (r *recordingObserver) OnEvent(_ context.Context, event observability.Event) {
	r.events = append(r.events, event)
}

func (r *recordingObserver) types() []observability.EventType {
	types := make([]observability.EventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func TestRun_EmitsLifecycleEvents(t *testing.T) {
	t.Parallel()

	rec := &recordingObserver{}
	cfg := DefaultConfig()

	f, err := New(&cfg,
		WithOracle(&scriptedOracle{responses: []string{candidateResponse, candidateResponse}}),
		WithExecutor(&stubExecutor{steps: []execStep{
			{failure: &executor.Failure{Kind: executor.RuntimeError, Message: "boom"}},
			{table: expectedTable(t)},
		}}),
		WithFixtures(&stubProvider{fx: testFixture(t)}),
		WithObserver(rec),
	)
	require.NoError(t, err)

	_, err = f.Run(context.Background(), "icici")
	require.NoError(t, err)

	assert.Equal(t, []observability.EventType{
		EventRunStart,
		EventPlanComplete,
		EventAttemptStart,
		EventCandidate,
		EventExecutionFailure,
		EventCorrection,
		EventAttemptStart,
		EventCandidate,
		EventVerdict,
		EventRunSuccess,
	}, rec.types())

	start := rec.events[0]
	assert.Equal(t, observability.LevelInfo, start.Level)
	assert.Equal(t, "forge.Run", start.Source)
	assert.Equal(t, "icici", start.Data["target"])
	assert.Equal(t, 3, start.Data["max_attempts"])
	assert.False(t, start.Timestamp.IsZero())
}

func TestRun_EmitsFatalEvent(t *testing.T) {
	t.Parallel()

	rec := &recordingObserver{}
	cfg := DefaultConfig()

	f, err := New(&cfg,
		WithOracle(&scriptedOracle{}),
		WithExecutor(&stubExecutor{}),
		WithFixtures(&stubProvider{err: context.DeadlineExceeded}),
		WithObserver(rec),
	)
	require.NoError(t, err)

	_, err = f.Run(context.Background(), "icici")
	require.Error(t, err)

	types := rec.types()
	require.NotEmpty(t, types)
	assert.Equal(t, EventRunFatal, types[len(types)-1])
	assert.Equal(t, observability.LevelError, rec.events[len(rec.events)-1].Level)
}
