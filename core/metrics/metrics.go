package metrics

import "time"

// NightPlanEvent records the outcome of one window-engine run.
type NightPlanEvent struct {
	Name       string
	Date       string
	Offset     int
	Observable bool
	Reason     string
	MinAirmass float64
	Time       time.Time
}

// TriggerEvent records one trigger added to a multi-day plan.
type TriggerEvent struct {
	Name        string
	FieldID     int
	FilterID    int
	MJDStart    float64
	MJDEnd      float64
	ExposureSec int
	Time        time.Time
}

// SubmissionEvent records the outcome of one queue submission.
type SubmissionEvent struct {
	QueueName string
	Accepted  bool
	Error     string
	Time      time.Time
}

// Sink records planning events for observability purposes.
type Sink interface {
	RecordNightPlan(ev NightPlanEvent) error
	RecordTrigger(ev TriggerEvent) error
	RecordSubmission(ev SubmissionEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordNightPlan(NightPlanEvent) error   { return nil }
func (NopSink) RecordTrigger(TriggerEvent) error       { return nil }
func (NopSink) RecordSubmission(SubmissionEvent) error { return nil }

// MultiSink fans events out to several sinks, returning the first error.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines multiple sinks into one.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordNightPlan(ev NightPlanEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordNightPlan(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordTrigger(ev TriggerEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordTrigger(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordSubmission(ev SubmissionEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordSubmission(ev); err != nil {
			return err
		}
	}
	return nil
}
