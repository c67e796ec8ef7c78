package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/simeonreusch/planobs/core/metrics"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	nightPlans  *prometheus.CounterVec
	triggers    *prometheus.CounterVec
	submissions *prometheus.CounterVec
	minAirmass  prometheus.Gauge
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer. The Prometheus server should be started separately with
// StartPromServer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	nightPlans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planobs_night_plans_total",
		Help: "Total number of per-night observability computations",
	}, []string{"observable", "reason"})
	triggers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planobs_triggers_total",
		Help: "Total number of triggers assembled into multi-day plans",
	}, []string{"filter_id"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planobs_queue_submissions_total",
		Help: "Total number of ToO queue submissions",
	}, []string{"accepted"})
	minAirmass := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planobs_last_min_airmass",
		Help: "Minimal airmass of the most recent observable night plan",
	})

	for _, c := range []prometheus.Collector{nightPlans, triggers, submissions, minAirmass} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}

	return &PromSink{
		nightPlans:  nightPlans,
		triggers:    triggers,
		submissions: submissions,
		minAirmass:  minAirmass,
	}, nil
}

// RecordNightPlan increments the night-plan counter.
func (s *PromSink) RecordNightPlan(ev coremetrics.NightPlanEvent) error {
	reason := ev.Reason
	if ev.Observable {
		reason = "none"
		s.minAirmass.Set(ev.MinAirmass)
	}
	s.nightPlans.WithLabelValues(strconv.FormatBool(ev.Observable), reason).Inc()
	return nil
}

// RecordTrigger increments the trigger counter.
func (s *PromSink) RecordTrigger(ev coremetrics.TriggerEvent) error {
	s.triggers.WithLabelValues(strconv.Itoa(ev.FilterID)).Inc()
	return nil
}

// RecordSubmission increments the submission counter.
func (s *PromSink) RecordSubmission(ev coremetrics.SubmissionEvent) error {
	s.submissions.WithLabelValues(strconv.FormatBool(ev.Accepted)).Inc()
	return nil
}

// StartPromServer serves the Prometheus metrics endpoint on the given port.
// It blocks until the server exits.
func StartPromServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
