package plan

import (
	"math"
	"time"

	"github.com/simeonreusch/planobs/core/astro"
)

// Target is the immutable per-plan description of the object to follow up.
// The error pairs, when present, are stored as provided by the alert source:
// index 0 holds the (positive) upper bound, index 1 the (negative) lower
// bound, both in degrees.
type Target struct {
	Name        string
	RADeg       float64
	DecDeg      float64
	RAErr       *[2]float64
	DecErr      *[2]float64
	ArrivalTime time.Time // zero if unknown
	DataSource  string    // e.g. "GCN Circular 31975\n", "Fritz\n"
	AlertSource string    // e.g. "icecube", "ztf"
	Signalness  float64   // only meaningful for alerts carrying an error box
	EnergyTeV   float64
}

// HasErrorBox reports whether the target carries a usable positional
// error box.
func (t Target) HasErrorBox() bool {
	return t.RAErr != nil && t.DecErr != nil
}

// ErrorBoxArea returns the on-sky area of the positional error box in
// square degrees, using a flat-sky approximation. The result does not
// depend on the ordering of the error bounds.
func (t Target) ErrorBoxArea() float64 {
	if !t.HasErrorBox() {
		return 0
	}
	ra1 := (t.RADeg + t.RAErr[0]) * deg2rad
	ra2 := (t.RADeg + t.RAErr[1]) * deg2rad
	dec1 := (t.DecDeg + t.DecErr[0]) * deg2rad
	dec2 := (t.DecDeg + t.DecErr[1]) * deg2rad

	return math.Abs((180 / math.Pi) * (180 / math.Pi) *
		(ra2 - ra1) * (math.Sin(dec2) - math.Sin(dec1)))
}

// GalacticLatDeg returns the galactic latitude of the target position.
func (t Target) GalacticLatDeg() float64 {
	return astro.GalacticLatitude(t.RADeg, t.DecDeg)
}

const deg2rad = math.Pi / 180.0
