package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSink struct {
	nights, triggers, submissions int
	err                           error
}

func (s *countingSink) RecordNightPlan(NightPlanEvent) error {
	s.nights++
	return s.err
}

func (s *countingSink) RecordTrigger(TriggerEvent) error {
	s.triggers++
	return s.err
}

func (s *countingSink) RecordSubmission(SubmissionEvent) error {
	s.submissions++
	return s.err
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := NewMultiSink(a, b)

	require.NoError(t, m.RecordNightPlan(NightPlanEvent{}))
	require.NoError(t, m.RecordTrigger(TriggerEvent{}))
	require.NoError(t, m.RecordTrigger(TriggerEvent{}))
	require.NoError(t, m.RecordSubmission(SubmissionEvent{}))

	for _, s := range []*countingSink{a, b} {
		assert.Equal(t, 1, s.nights)
		assert.Equal(t, 2, s.triggers)
		assert.Equal(t, 1, s.submissions)
	}
}

func TestMultiSinkStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	failing := &countingSink{err: boom}
	after := &countingSink{}
	m := NewMultiSink(failing, after)

	require.ErrorIs(t, m.RecordTrigger(TriggerEvent{}), boom)
	assert.Equal(t, 1, failing.triggers)
	assert.Equal(t, 0, after.triggers)
}

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}
	require.NoError(t, s.RecordNightPlan(NightPlanEvent{}))
	require.NoError(t, s.RecordTrigger(TriggerEvent{}))
	require.NoError(t, s.RecordSubmission(SubmissionEvent{}))
}
