package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simeonreusch/planobs/core/astro"
	"github.com/simeonreusch/planobs/core/metrics"
)

// captureSink records every event it receives.
type captureSink struct {
	nights      []metrics.NightPlanEvent
	triggers    []metrics.TriggerEvent
	submissions []metrics.SubmissionEvent
}

func (c *captureSink) RecordNightPlan(e metrics.NightPlanEvent) error {
	c.nights = append(c.nights, e)
	return nil
}

func (c *captureSink) RecordTrigger(e metrics.TriggerEvent) error {
	c.triggers = append(c.triggers, e)
	return nil
}

func (c *captureSink) RecordSubmission(e metrics.SubmissionEvent) error {
	c.submissions = append(c.submissions, e)
	return nil
}

func TestComputeMultiDayCadence(t *testing.T) {
	sink := &captureSink{}
	target := zenithTarget("IC220501A")
	target.AlertSource = "icecube"

	p, err := ComputeMultiDay(target, MultiDayOptions{
		StartDate: "2022-05-03",
		FieldID:   593,
		Metrics:   sink,
	})
	require.NoError(t, err)
	require.Len(t, p.Nights, 6)

	for _, night := range p.Nights {
		require.True(t, night.Observable(), "reason: %s", night.RejectionReason())
	}

	// One g trigger per night, r triggers only on the first and last night.
	require.Len(t, p.Triggers, 8)
	for i := 0; i < 6; i++ {
		assert.Equal(t, 1, p.Triggers[i].FilterID)
	}
	assert.Equal(t, 2, p.Triggers[6].FilterID)
	assert.Equal(t, 2, p.Triggers[7].FilterID)

	for _, trig := range p.Triggers {
		assert.Equal(t, 593, trig.FieldID)
		assert.Less(t, trig.MJDStart, trig.MJDEnd)
	}

	// Nightly cadence within each band is strictly increasing.
	for i := 1; i < 6; i++ {
		assert.Greater(t, p.Triggers[i].MJDStart, p.Triggers[i-1].MJDStart)
	}
	assert.Greater(t, p.Triggers[7].MJDStart, p.Triggers[6].MJDStart)

	// Night 1 uses the full exposure, every later night the short one.
	assert.Equal(t, 300, p.Triggers[0].ExposureSec)
	for i := 1; i < 6; i++ {
		assert.Equal(t, 30, p.Triggers[i].ExposureSec)
	}
	assert.Equal(t, 300, p.Triggers[6].ExposureSec)
	assert.Equal(t, 30, p.Triggers[7].ExposureSec)

	assert.Len(t, sink.nights, 6)
	assert.Len(t, sink.triggers, 8)
}

func TestComputeMultiDaySummaryLayout(t *testing.T) {
	p, err := ComputeMultiDay(zenithTarget("IC220501A"), MultiDayOptions{
		StartDate: "2022-05-03",
		FieldID:   593,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.Summary, "\nYour multi-day observation plan for IC220501A\n"))
	assert.Equal(t, 4, strings.Count(p.Summary, summarySeparator))
	assert.Contains(t, p.Summary, "g-band observation windows\n")
	assert.Contains(t, p.Summary, "r-band observation windows\n")

	// The inner cadence nights drop the r band entirely.
	for _, offset := range []string{"Night 2", "Night 3", "Night 5", "Night 7"} {
		assert.Contains(t, p.Summary, offset+" NO OBS SCHEDULED\n")
	}
	assert.NotContains(t, p.Summary, "Night 1 NO OBS SCHEDULED")
	assert.NotContains(t, p.Summary, "Night 9 NO OBS SCHEDULED")

	assert.Contains(t, p.Summary, "(300s)\n")
	assert.Contains(t, p.Summary, "(30s)\n")
	assert.True(t, strings.HasSuffix(p.Summary, summarySeparator+"\n"))
}

func TestComputeMultiDayNotObservable(t *testing.T) {
	target := Target{Name: "southern", RADeg: 50, DecDeg: -60}
	p, err := ComputeMultiDay(target, MultiDayOptions{
		StartDate: "2022-05-03",
		FieldID:   100,
	})
	require.NoError(t, err)

	assert.Empty(t, p.Triggers)
	assert.Contains(t, p.Summary, "Night 1 NOT OBSERVABLE\n")
	assert.Contains(t, p.Summary, "Night 9 NOT OBSERVABLE\n")
	// r band reports NO OBS SCHEDULED on one-filter nights even when the
	// night itself failed.
	assert.Contains(t, p.Summary, "Night 2 NO OBS SCHEDULED\n")
}

func TestComputeMultiDayDerivesStartDate(t *testing.T) {
	// Without a start date the plan anchors on the g window of an undated
	// initial run, pinned by the injected clock.
	now := time.Date(2022, 5, 2, 20, 0, 0, 0, time.UTC)
	target := zenithTarget("derived")

	p, err := ComputeMultiDay(target, MultiDayOptions{
		FieldID: 593,
		Now:     now,
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.Triggers)

	initial, err := Compute(target, Options{Now: now, Quiet: true})
	require.NoError(t, err)
	want := astro.DateString(initial.Windows[BandG].Start)
	got := astro.DateString(astro.MJDToTime(p.Triggers[0].MJDStart))
	assert.Equal(t, want, got)
}

func TestComputeMultiDayNoStartDateUnobservable(t *testing.T) {
	target := Target{Name: "southern", RADeg: 50, DecDeg: -60}
	_, err := ComputeMultiDay(target, MultiDayOptions{
		FieldID: 100,
		Now:     time.Date(2022, 5, 2, 20, 0, 0, 0, time.UTC),
	})
	var cerr *ComputationError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "cannot derive a start date")
}

func TestTriggerDigest(t *testing.T) {
	p := &MultiDayPlan{
		Name:    "IC220501A",
		FieldID: 593,
		Triggers: []Trigger{
			{FieldID: 593, FilterID: 1, MJDStart: 59702.25, MJDEnd: 59702.30, ExposureSec: 300},
			{FieldID: 593, FilterID: 2, MJDStart: 59702.35, MJDEnd: 59702.40, ExposureSec: 30},
		},
	}

	digest := p.TriggerDigest()
	lines := strings.Split(digest, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2022-05-03 06:00:00 // 300 s exposure // filter=g // field=593", lines[0])
	assert.Equal(t, "2022-05-03 08:24:00 // 30 s exposure // filter=r // field=593", lines[1])
}
