package plan

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/simeonreusch/planobs/core/astro"
	"github.com/simeonreusch/planobs/core/logger"
)

// Band is a photometric band of the ZTF camera.
type Band string

const (
	BandG Band = "g"
	BandR Band = "r"
)

// Thresholds for rejecting alerts with poorly constrained positions.
const (
	signalnessThreshold = 0.5
	areaThreshold       = 10.0
	areaHardThreshold   = 40.0
)

// galacticPlaneCutDeg rejects targets too close to the galactic plane.
const galacticPlaneCutDeg = 10.0

// airmassSentinel replaces unphysical airmass values (below 1) on the grid.
const airmassSentinel = 99.0

// Twilight-edge buffers applied when filtering the time grid, in days.
// The asymmetry is intentional: a wider buffer is used when the window
// starts during the night.
const (
	nightBufferDays = 0.03
	dayBufferDays   = 0.01
)

// bandSplitGapSamples is the half-gap, in grid samples, left between the
// two band blocks of a two-band night.
const bandSplitGapSamples = 8

// Options configures one run of the observability window engine.
// Zero values select the defaults documented on each field.
type Options struct {
	// Site of the observation. Zero value selects Palomar.
	Site astro.Site
	// Date is the calendar date ("2006-01-02") whose UTC midnight starts
	// the observation window. Empty means the window starts now.
	Date string
	// Now injects the current time; zero means time.Now().
	Now time.Time
	// MaxAirmass is the maximum acceptable airmass (default 1.9).
	MaxAirmass float64
	// WindowHours is the length of the observation window (default 24).
	WindowHours float64
	// Bands are the requested photometric bands (default g and r).
	Bands []Band
	// ExposureSec is the exposure time in seconds (default 300). It is
	// carried through to triggers and summaries, not used geometrically.
	ExposureSec int
	// SwitchFilters swaps the g/r block assignment.
	SwitchFilters bool
	// Multiday suppresses the recommended-window block of the summary.
	Multiday bool
	// Quiet suppresses the summary log line.
	Quiet bool
	// Log receives progress output; nil disables logging.
	Log logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Site.Name == "" {
		o.Site = astro.Palomar()
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	if o.MaxAirmass == 0 {
		o.MaxAirmass = 1.9
	}
	if o.WindowHours == 0 {
		o.WindowHours = 24
	}
	if len(o.Bands) == 0 {
		o.Bands = []Band{BandG, BandR}
	}
	if o.ExposureSec == 0 {
		o.ExposureSec = 300
	}
	return o
}

// Window is a recommended observation interval for one band, rounded to
// whole minutes.
type Window struct {
	Start time.Time
	End   time.Time
}

// Rejection explains why a night is not observable. The reason strings are
// part of the public contract; callers pattern-match on them.
type Rejection struct {
	Reason string
}

// NightPlan is the result of one engine run. It is constructed once and
// never mutated afterwards. Windows is populated only when the night is
// observable.
type NightPlan struct {
	Target Target
	Site   astro.Site

	Start time.Time
	End   time.Time
	Bands []Band

	InNight         bool
	TwilightEvening time.Time
	TwilightMorning time.Time

	MinAirmass     float64
	MinAirmassTime time.Time
	GalacticLatDeg float64
	AreaSqDeg      float64

	Windows   map[Band]Window
	Rejection *Rejection

	Summary string
}

// Observable reports whether the night passed all rejection checks.
func (p *NightPlan) Observable() bool { return p.Rejection == nil }

// RejectionReason returns the rejection reason, or "" when observable.
func (p *NightPlan) RejectionReason() string {
	if p.Rejection == nil {
		return ""
	}
	return p.Rejection.Reason
}

// ComputationError signals degenerate geometry or unusable engine inputs.
type ComputationError struct {
	Msg string
}

func (e *ComputationError) Error() string { return e.Msg }

// Compute runs the observability window engine for one night.
//
// It builds a 1-minute time grid over the window, computes the target
// airmass at every sample, restricts the grid to the astronomically dark
// interval, applies the galactic-plane and error-box quality cuts, and, if
// the night survives, derives per-band recommended windows anchored at the
// minimum-airmass sample.
func Compute(target Target, opts Options) (*NightPlan, error) {
	opts = opts.withDefaults()
	site := opts.Site

	var start time.Time
	if opts.Date != "" {
		day, err := astro.ParseIso(opts.Date)
		if err != nil {
			return nil, &ComputationError{Msg: fmt.Sprintf("bad date %q: %v", opts.Date, err)}
		}
		start = day
	} else {
		start = opts.Now.UTC()
	}
	end := start.Add(time.Duration(opts.WindowHours * float64(time.Hour)))

	n := int(opts.WindowHours * 60)
	if n < 2 {
		return nil, &ComputationError{Msg: fmt.Sprintf("observation window of %.2f hours is too short", opts.WindowHours)}
	}

	// Time grid spanning the full window, endpoints included.
	times := make([]time.Time, n)
	step := opts.WindowHours / float64(n-1) * float64(time.Hour)
	for i := range times {
		times[i] = start.Add(time.Duration(float64(i) * step))
	}

	airmass := make([]float64, n)
	for i, t := range times {
		a := astro.Airmass(t, site, target.RADeg, target.DecDeg)
		if a < 1 {
			a = airmassSentinel
		}
		airmass[i] = a
	}

	evening := astro.NextEveningTwilight(start, site)
	morning := astro.NextMorningTwilight(start, site)

	// The window starts during the night iff the next morning twilight
	// comes before the next evening twilight.
	inNight := evening.After(morning)

	nightBuffer := time.Duration(nightBufferDays * 24 * float64(time.Hour))
	dayBuffer := time.Duration(dayBufferDays * 24 * float64(time.Hour))

	var timesIncluded []time.Time
	var airmassesIncluded []float64
	for i, t := range times {
		if airmass[i] >= opts.MaxAirmass {
			continue
		}
		var dark bool
		if inNight {
			dark = t.Before(morning.Add(-nightBuffer)) || t.After(evening.Add(nightBuffer))
		} else {
			dark = t.After(evening.Add(dayBuffer)) && t.Before(morning.Add(-dayBuffer))
		}
		if dark {
			timesIncluded = append(timesIncluded, t)
			airmassesIncluded = append(airmassesIncluded, airmass[i])
		}
	}

	// Rejection checks run unconditionally; a later check overrides the
	// reason of an earlier one.
	var rejection *Rejection
	if len(airmassesIncluded) == 0 {
		rejection = &Rejection{Reason: "airmass"}
	}

	galLat := target.GalacticLatDeg()
	if galLat < galacticPlaneCutDeg && galLat > -galacticPlaneCutDeg {
		rejection = &Rejection{Reason: "proximity to gal. plane"}
	}

	var area float64
	if target.HasErrorBox() {
		area = target.ErrorBoxArea()
		if (target.Signalness < signalnessThreshold && area > areaThreshold) ||
			area >= areaHardThreshold {
			rejection = &Rejection{
				Reason: fmt.Sprintf("(area: %.1f sq. deg, sness=%.2f)", area, target.Signalness),
			}
		}
	}

	p := &NightPlan{
		Target:          target,
		Site:            site,
		Start:           start,
		End:             end,
		Bands:           opts.Bands,
		InNight:         inNight,
		TwilightEvening: evening,
		TwilightMorning: morning,
		GalacticLatDeg:  galLat,
		AreaSqDeg:       area,
		Rejection:       rejection,
	}

	if rejection == nil {
		p.MinAirmass = floats.Min(airmassesIncluded)
		p.MinAirmassTime = timesIncluded[floats.MinIdx(airmassesIncluded)]
		p.Windows = bandWindows(timesIncluded, p.MinAirmassTime, evening, morning, opts)
	}

	p.Summary = summaryText(p, opts)
	if opts.Log != nil && !opts.Quiet {
		opts.Log.Infof("%s", p.Summary)
	}
	return p, nil
}

// bandWindows assigns recommended observation windows to the requested
// bands. For two bands the passing samples are split into two contiguous
// blocks around the midpoint, separated by a gap of 2*8 samples, and the
// blocks are assigned by chronological proximity of the minimum-airmass
// sample to the morning vs evening twilight. A tie assigns g to the later
// block, matching the closer-to-evening branch.
func bandWindows(included []time.Time, minAirmassTime, evening, morning time.Time, opts Options) map[Band]Window {
	windows := make(map[Band]Window, len(opts.Bands))

	if len(opts.Bands) == 2 {
		divider := len(included) / 2
		block1, block2 := included, included
		if divider-bandSplitGapSamples >= 1 && divider+bandSplitGapSamples < len(included) {
			block1 = included[:divider-bandSplitGapSamples]
			block2 = included[divider+bandSplitGapSamples:]
		}

		distToEvening := minAirmassTime.Sub(evening)
		distToMorning := morning.Sub(minAirmassTime)

		gBlock, rBlock := block2, block1
		if distToMorning < distToEvening {
			gBlock, rBlock = block1, block2
		}

		windows[BandG] = roundedWindow(gBlock)
		windows[BandR] = roundedWindow(rBlock)
	} else {
		windows[opts.Bands[0]] = roundedWindow(included)
	}

	if opts.SwitchFilters {
		g, hasG := windows[BandG]
		r, hasR := windows[BandR]
		if hasG && hasR {
			windows[BandG], windows[BandR] = r, g
		}
	}
	return windows
}

func roundedWindow(block []time.Time) Window {
	return Window{
		Start: astro.RoundToMinute(block[0]),
		End:   astro.RoundToMinute(block[len(block)-1]),
	}
}

// summaryText renders the single-night summary. The exact spacing and field
// order are a contractual output surface.
func summaryText(p *NightPlan, opts Options) string {
	var b strings.Builder
	t := p.Target

	if isIceCubeSource(t.AlertSource) {
		fmt.Fprintf(&b, "Name = IceCube-%s\n", strings.TrimPrefix(t.Name, "IC"))
	} else {
		fmt.Fprintf(&b, "Name = %s\n", t.Name)
	}

	if t.HasErrorBox() &&
		t.RAErr[0] != 0 && t.RAErr[1] != 0 && t.DecErr[0] != 0 && t.DecErr[1] != 0 {
		fmt.Fprintf(&b, "RA = %v + %v - %v\nDec = %v + %v - %v\n",
			t.RADeg, t.RAErr[0], -t.RAErr[1],
			t.DecDeg, t.DecErr[0], -t.DecErr[1])
	} else {
		fmt.Fprintf(&b, "RADEC = %.8f %.8f\n", t.RADeg, t.DecDeg)
	}

	if t.DataSource != "" {
		fmt.Fprintf(&b, "Data source: %s", t.DataSource)
	}

	if p.Observable() {
		fmt.Fprintf(&b, "Minimal airmass (%.2f) at %s\n", p.MinAirmass, astro.IsoTime(p.MinAirmassTime))
	}
	fmt.Fprintf(&b, "Separation from galactic plane: %.2f deg\n", p.GalacticLatDeg)

	if p.Site.Name != "Palomar" {
		fmt.Fprintf(&b, "Site: %s", p.Site.Name)
		return b.String()
	}

	if p.Observable() && !opts.Multiday {
		b.WriteString("Recommended observation windows:\n")
		g, hasG := p.Windows[BandG]
		r, hasR := p.Windows[BandR]

		gText := fmt.Sprintf("g-band: %s - %s [UTC]", astro.ShortTime(g.Start), astro.ShortTime(g.End))
		rText := fmt.Sprintf("r-band: %s - %s [UTC]", astro.ShortTime(r.Start), astro.ShortTime(r.End))

		switch {
		case hasG && hasR && g.Start.Before(r.Start):
			b.WriteString(gText + "\n" + rText)
		case hasG && hasR:
			b.WriteString(rText + "\n" + gText)
		case hasG:
			b.WriteString(gText)
		case hasR:
			b.WriteString(rText)
		}
	}
	return b.String()
}

func isIceCubeSource(s string) bool {
	switch strings.ToLower(s) {
	case "icecube", "ic":
		return true
	}
	return false
}
