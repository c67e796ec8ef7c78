package model

import (
	"fmt"
	"strings"
)

// Valid ZTF filter and program identifiers.
var (
	ztfFilterIDs  = map[int]bool{1: true, 2: true, 3: true}
	ztfProgramIDs = map[int]bool{1: true, 2: true, 3: true}
)

// Exposure time bounds in seconds.
const (
	minExposureSec = 0.0
	maxExposureSec = 600.0
)

// ValidationError signals a malformed trigger record. Validation runs at
// construction time, before any submission.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// TooTarget is one target entry of a ToO request in the shape expected by
// the Kowalski queue API.
type TooTarget struct {
	RequestID      int     `json:"request_id"`
	FieldID        int     `json:"field_id"`
	FilterID       int     `json:"filter_id"`
	SubprogramName string  `json:"subprogram_name"`
	ProgramPI      string  `json:"program_pi"`
	ProgramID      int     `json:"program_id"`
	ExposureTime   float64 `json:"exposure_time"`
}

// NewTooTarget builds a validated TooTarget with the standard neutrino
// follow-up defaults.
func NewTooTarget(fieldID, filterID int, exposureTime float64) (TooTarget, error) {
	t := TooTarget{
		RequestID:      1,
		FieldID:        fieldID,
		FilterID:       filterID,
		SubprogramName: "ToO_Neutrino",
		ProgramPI:      "Kulkarni",
		ProgramID:      2,
		ExposureTime:   exposureTime,
	}
	if err := t.Validate(); err != nil {
		return TooTarget{}, err
	}
	return t, nil
}

// Validate checks the target fields against the queue API constraints.
func (t TooTarget) Validate() error {
	if !ztfFilterIDs[t.FilterID] {
		return &ValidationError{Field: "filter_id", Msg: fmt.Sprintf("%d is not a valid ZTF filter", t.FilterID)}
	}
	if !ztfProgramIDs[t.ProgramID] {
		return &ValidationError{Field: "program_id", Msg: fmt.Sprintf("%d is not a valid ZTF program", t.ProgramID)}
	}
	if t.ExposureTime < minExposureSec || t.ExposureTime > maxExposureSec {
		return &ValidationError{Field: "exposure_time", Msg: fmt.Sprintf("%.1f s outside [%.0f, %.0f]", t.ExposureTime, minExposureSec, maxExposureSec)}
	}
	if t.RequestID < 0 {
		return &ValidationError{Field: "request_id", Msg: "must be non-negative"}
	}
	return nil
}

// ValidityWindow is the MJD interval during which a queued trigger may
// execute.
type ValidityWindow struct {
	StartMJD float64
	EndMJD   float64
}

// Validate requires a strictly positive window length.
func (w ValidityWindow) Validate() error {
	if w.EndMJD <= w.StartMJD {
		return &ValidationError{Field: "validity_window_mjd", Msg: fmt.Sprintf("end %.6f not after start %.6f", w.EndMJD, w.StartMJD)}
	}
	return nil
}

// Export returns the window as the two-element list the queue API expects.
func (w ValidityWindow) Export() []float64 {
	return []float64{w.StartMJD, w.EndMJD}
}

// TooRequest is one queue entry: a named validity window over one or more
// targets.
type TooRequest struct {
	User              string      `json:"user"`
	QueueName         string      `json:"queue_name"`
	QueueType         string      `json:"queue_type"`
	ValidityWindowMJD []float64   `json:"validity_window_mjd"`
	Targets           []TooTarget `json:"targets"`
}

// NewTooRequest builds a validated TooRequest of queue type "list".
func NewTooRequest(user, queueName string, window ValidityWindow, targets []TooTarget) (TooRequest, error) {
	r := TooRequest{
		User:              user,
		QueueName:         queueName,
		QueueType:         "list",
		ValidityWindowMJD: window.Export(),
		Targets:           targets,
	}
	if err := window.Validate(); err != nil {
		return TooRequest{}, err
	}
	if err := r.Validate(); err != nil {
		return TooRequest{}, err
	}
	return r, nil
}

// Validate checks the request envelope and every target.
func (r TooRequest) Validate() error {
	if !strings.HasPrefix(r.QueueName, "ToO_") && !strings.HasPrefix(r.QueueName, "TEST_") {
		return &ValidationError{Field: "queue_name", Msg: fmt.Sprintf("%q must start with ToO_ or TEST_", r.QueueName)}
	}
	if len(r.ValidityWindowMJD) != 2 {
		return &ValidationError{Field: "validity_window_mjd", Msg: "must hold exactly two values"}
	}
	if len(r.Targets) == 0 {
		return &ValidationError{Field: "targets", Msg: "at least one target is required"}
	}
	for _, t := range r.Targets {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
