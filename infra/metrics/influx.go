package metrics

import (
	"context"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/simeonreusch/planobs/core/metrics"
	"github.com/simeonreusch/planobs/infra/logger"
)

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes planning events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordNightPlan writes the night-plan outcome as a point.
func (s *InfluxSink) RecordNightPlan(ev coremetrics.NightPlanEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("night_plan").
		AddTag("name", ev.Name).
		AddTag("observable", strconv.FormatBool(ev.Observable)).
		AddTag("reason", ev.Reason).
		AddField("offset", ev.Offset).
		AddField("min_airmass", ev.MinAirmass).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTrigger writes the trigger as a point.
func (s *InfluxSink) RecordTrigger(ev coremetrics.TriggerEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("trigger").
		AddTag("name", ev.Name).
		AddTag("filter_id", strconv.Itoa(ev.FilterID)).
		AddField("field_id", ev.FieldID).
		AddField("mjd_start", ev.MJDStart).
		AddField("mjd_end", ev.MJDEnd).
		AddField("exposure_time", ev.ExposureSec).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSubmission writes the submission outcome as a point.
func (s *InfluxSink) RecordSubmission(ev coremetrics.SubmissionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("queue_submission").
		AddTag("queue_name", ev.QueueName).
		AddTag("accepted", strconv.FormatBool(ev.Accepted)).
		AddField("error", ev.Error).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}
