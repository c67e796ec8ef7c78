package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/simeonreusch/planobs/core/logger"
	coremetrics "github.com/simeonreusch/planobs/core/metrics"
	"github.com/simeonreusch/planobs/core/model"
)

// Config holds the connection settings of the Kowalski ToO queue API.
type Config struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`
	User    string `json:"user"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://kowalski.caltech.edu"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.User == "" {
		return fmt.Errorf("queue user is required")
	}
	return nil
}

// APIError reports a queue API call rejected by the server.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("queue API returned status %d: %s", e.Status, e.Body)
}

// Client performs HTTP calls against the ToO queue endpoint. Calls are
// blocking and never retried; transient failures propagate to the caller.
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
	sink coremetrics.Sink
}

// NewClient creates a queue API client. A nil sink disables metrics.
func NewClient(cfg Config, log logger.Logger, sink coremetrics.Sink) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log,
		sink: sink,
	}, nil
}

func (c *Client) endpoint() string {
	return c.cfg.BaseURL + "/api/triggers/ztf"
}

func (c *Client) do(ctx context.Context, method string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// QueueSummary is one entry of the server-side ToO queue listing.
type QueueSummary struct {
	QueueName string  `json:"queue_name"`
	User      string  `json:"user,omitempty"`
	StartMJD  float64 `json:"start_mjd,omitempty"`
	EndMJD    float64 `json:"end_mjd,omitempty"`
}

type listResponse struct {
	Data []QueueSummary `json:"data"`
}

// ListAllQueues fetches every queue entry currently on the server.
func (c *Client) ListAllQueues(ctx context.Context) ([]QueueSummary, error) {
	data, err := c.do(ctx, http.MethodGet, map[string]string{"user": c.cfg.User})
	if err != nil {
		return nil, err
	}
	var res listResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return res.Data, nil
}

// ListTooQueues fetches the ToO queue entries currently on the server.
func (c *Client) ListTooQueues(ctx context.Context) ([]QueueSummary, error) {
	all, err := c.ListAllQueues(ctx)
	if err != nil {
		return nil, err
	}
	var too []QueueSummary
	for _, q := range all {
		if strings.HasPrefix(q.QueueName, "ToO_") {
			too = append(too, q)
		}
	}
	return too, nil
}

// Queue accumulates validated ToO requests locally and submits them in one
// pass. Validation happens when triggers are added, before any network
// call, so a malformed record never causes a partial submission.
type Queue struct {
	client   *Client
	user     string
	requests []model.TooRequest
}

// NewQueue creates an empty local queue for the given user.
func (c *Client) NewQueue() *Queue {
	return &Queue{client: c, user: c.cfg.User}
}

// AddTrigger validates and appends one trigger. The queue name is the
// trigger name suffixed with the current queue position.
func (q *Queue) AddTrigger(triggerName string, windowStartMJD, windowEndMJD float64, targets []model.TooTarget) error {
	queueName := fmt.Sprintf("%s_%d", triggerName, len(q.requests))
	req, err := model.NewTooRequest(q.user, queueName,
		model.ValidityWindow{StartMJD: windowStartMJD, EndMJD: windowEndMJD}, targets)
	if err != nil {
		return err
	}
	q.requests = append(q.requests, req)
	return nil
}

// Requests returns the accumulated requests in submission order.
func (q *Queue) Requests() []model.TooRequest {
	return q.requests
}

// Submit sends every accumulated request to the queue API, stopping at the
// first failure.
func (q *Queue) Submit(ctx context.Context) error {
	submission := uuid.NewString()
	for _, req := range q.requests {
		_, err := q.client.do(ctx, http.MethodPut, req)
		ev := coremetrics.SubmissionEvent{
			QueueName: req.QueueName,
			Accepted:  err == nil,
			Time:      time.Now().UTC(),
		}
		if err != nil {
			ev.Error = err.Error()
			_ = q.client.sink.RecordSubmission(ev)
			return fmt.Errorf("submit %s: %w", req.QueueName, err)
		}
		_ = q.client.sink.RecordSubmission(ev)
		if q.client.log != nil {
			q.client.log.Debugw("trigger submitted", map[string]any{
				"queue_name": req.QueueName,
				"submission": submission,
			})
		}
	}
	return nil
}

// Delete removes every accumulated request from the server-side queue.
func (q *Queue) Delete(ctx context.Context) error {
	for _, req := range q.requests {
		payload := map[string]string{"user": q.user, "queue_name": req.QueueName}
		if _, err := q.client.do(ctx, http.MethodDelete, payload); err != nil {
			return fmt.Errorf("delete %s: %w", req.QueueName, err)
		}
	}
	return nil
}

// String renders the accumulated requests for operator review.
func (q *Queue) String() string {
	var buf bytes.Buffer
	for i, req := range q.requests {
		fmt.Fprintf(&buf, "%d: %s [%.6f, %.6f] (%d targets)\n",
			i, req.QueueName, req.ValidityWindowMJD[0], req.ValidityWindowMJD[1], len(req.Targets))
	}
	return buf.String()
}
