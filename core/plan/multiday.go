package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/simeonreusch/planobs/core/astro"
	"github.com/simeonreusch/planobs/core/logger"
	"github.com/simeonreusch/planobs/core/metrics"
)

// nightOffsets is the fixed follow-up cadence, in days after the start
// date. All offsets beyond the first are short nights (reduced exposure);
// the inner ones additionally drop the r band.
var nightOffsets = []int{1, 2, 3, 5, 7, 9}

func isShortNight(offset int) bool { return offset != nightOffsets[0] }

func isOneFilterNight(offset int) bool {
	return isShortNight(offset) && offset != nightOffsets[len(nightOffsets)-1]
}

// Exposure times in seconds for regular and short nights.
const (
	defaultExposureSec = 300
	shortExposureSec   = 30
)

// Filter identifiers of the ZTF camera.
var filterIDs = map[Band]int{BandG: 1, BandR: 2}

// summarySeparator is the literal block separator of the multi-day summary.
const summarySeparator = "--------------------------------------------------------\n"

// Trigger is one normalized observation request, ready for submission to
// the ToO queue.
type Trigger struct {
	FieldID     int
	FilterID    int
	MJDStart    float64
	MJDEnd      float64
	ExposureSec int
}

// MultiDayOptions configures a multi-night plan.
type MultiDayOptions struct {
	// StartDate ("2006-01-02") anchors night 1. Empty derives the start
	// date from the first g-band window of an undated initial run.
	StartDate string
	// FieldID is the ZTF field containing the target.
	FieldID int
	// Site, Now, MaxAirmass and SwitchFilters are passed through to the
	// window engine.
	Site          astro.Site
	Now           time.Time
	MaxAirmass    float64
	SwitchFilters bool
	// Metrics receives per-night and per-trigger events; nil disables.
	Metrics metrics.Sink
	// Log receives progress output; nil disables logging.
	Log logger.Logger
}

// MultiDayPlan is the aggregated result of one window-engine run per night
// offset. It is immutable after construction.
type MultiDayPlan struct {
	Name     string
	FieldID  int
	Nights   []*NightPlan
	Triggers []Trigger
	Summary  string
}

// ComputeMultiDay assembles the multi-night trigger sequence for a resolved
// target. The target position must already be resolved; resolution failures
// are the caller's to surface before calling this.
func ComputeMultiDay(target Target, opts MultiDayOptions) (*MultiDayPlan, error) {
	sink := opts.Metrics
	if sink == nil {
		sink = metrics.NopSink{}
	}

	startDate := opts.StartDate
	if startDate == "" {
		initial, err := Compute(target, Options{
			Site:          opts.Site,
			Now:           opts.Now,
			MaxAirmass:    opts.MaxAirmass,
			SwitchFilters: opts.SwitchFilters,
			Log:           opts.Log,
			Quiet:         true,
		})
		if err != nil {
			return nil, err
		}
		w, ok := initial.Windows[BandG]
		if !ok {
			return nil, &ComputationError{
				Msg: fmt.Sprintf("%s: no achievable g-band window, cannot derive a start date (%s)",
					target.Name, initial.RejectionReason()),
			}
		}
		startDate = astro.DateString(w.Start)
	}

	startDay, err := astro.ParseIso(startDate)
	if err != nil {
		return nil, &ComputationError{Msg: fmt.Sprintf("bad start date %q: %v", startDate, err)}
	}

	nights := make([]*NightPlan, 0, len(nightOffsets))
	for _, offset := range nightOffsets {
		day := astro.DateString(startDay.AddDate(0, 0, offset-1))

		nightOpts := Options{
			Site:          opts.Site,
			Date:          day,
			Now:           opts.Now,
			MaxAirmass:    opts.MaxAirmass,
			SwitchFilters: opts.SwitchFilters,
			Multiday:      true,
			Quiet:         true,
			Log:           opts.Log,
		}
		if isShortNight(offset) {
			nightOpts.ExposureSec = shortExposureSec
			if isOneFilterNight(offset) {
				nightOpts.Bands = []Band{BandG}
			}
		}

		night, err := Compute(target, nightOpts)
		if err != nil {
			return nil, err
		}
		nights = append(nights, night)

		if err := sink.RecordNightPlan(metrics.NightPlanEvent{
			Name:       target.Name,
			Date:       day,
			Offset:     offset,
			Observable: night.Observable(),
			Reason:     night.RejectionReason(),
			MinAirmass: night.MinAirmass,
			Time:       time.Now().UTC(),
		}); err != nil && opts.Log != nil {
			opts.Log.Warnf("record night plan: %v", err)
		}
	}

	p := &MultiDayPlan{Name: target.Name, FieldID: opts.FieldID, Nights: nights}
	p.buildTriggersAndSummary(sink, opts.Log)
	return p, nil
}

// buildTriggersAndSummary walks the nights twice, g band first, then r
// band, appending one trigger per achievable band window and rendering the
// two summary blocks. The summary layout is compared verbatim by callers.
func (p *MultiDayPlan) buildTriggersAndSummary(sink metrics.Sink, log logger.Logger) {
	var b strings.Builder
	fmt.Fprintf(&b, "\nYour multi-day observation plan for %s\n", p.Name)

	b.WriteString(summarySeparator)
	b.WriteString("g-band observation windows\n")
	for i, night := range p.Nights {
		offset := nightOffsets[i]
		w, ok := night.Windows[BandG]
		if !ok {
			fmt.Fprintf(&b, "Night %d NOT OBSERVABLE\n", offset)
			continue
		}
		p.appendTrigger(&b, sink, log, offset, BandG, w)
	}
	b.WriteString(summarySeparator)

	b.WriteString("\n")
	b.WriteString(summarySeparator)
	b.WriteString("r-band observation windows\n")
	for i, night := range p.Nights {
		offset := nightOffsets[i]
		w, ok := night.Windows[BandR]
		if ok && !isOneFilterNight(offset) {
			p.appendTrigger(&b, sink, log, offset, BandR, w)
			continue
		}
		if isOneFilterNight(offset) {
			fmt.Fprintf(&b, "Night %d NO OBS SCHEDULED\n", offset)
		} else {
			fmt.Fprintf(&b, "Night %d NOT OBSERVABLE\n", offset)
		}
	}
	b.WriteString(summarySeparator)
	b.WriteString("\n")

	p.Summary = b.String()
}

func (p *MultiDayPlan) appendTrigger(b *strings.Builder, sink metrics.Sink, log logger.Logger, offset int, band Band, w Window) {
	exposure := defaultExposureSec
	if isShortNight(offset) {
		exposure = shortExposureSec
	}

	fmt.Fprintf(b, "Night %d %s - %s (%ds)\n",
		offset, astro.ShortTime(w.Start), astro.ShortTime(w.End), exposure)

	trigger := Trigger{
		FieldID:     p.FieldID,
		FilterID:    filterIDs[band],
		MJDStart:    astro.TimeToMJD(w.Start),
		MJDEnd:      astro.TimeToMJD(w.End),
		ExposureSec: exposure,
	}
	p.Triggers = append(p.Triggers, trigger)

	if err := sink.RecordTrigger(metrics.TriggerEvent{
		Name:        p.Name,
		FieldID:     trigger.FieldID,
		FilterID:    trigger.FilterID,
		MJDStart:    trigger.MJDStart,
		MJDEnd:      trigger.MJDEnd,
		ExposureSec: trigger.ExposureSec,
		Time:        time.Now().UTC(),
	}); err != nil && log != nil {
		log.Warnf("record trigger: %v", err)
	}
}

// TriggerDigest renders one line per trigger for operator review.
func (p *MultiDayPlan) TriggerDigest() string {
	bands := map[int]string{1: "g", 2: "r", 3: "i"}
	lines := make([]string, len(p.Triggers))
	for i, t := range p.Triggers {
		start := astro.ShortTime(astro.MJDToTime(t.MJDStart))
		lines[i] = fmt.Sprintf("%s // %d s exposure // filter=%s // field=%d",
			start, t.ExposureSec, bands[t.FilterID], t.FieldID)
	}
	return strings.Join(lines, "\n")
}
