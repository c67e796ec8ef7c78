package plan

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simeonreusch/planobs/core/astro"
)

// transitRA returns the right ascension (degrees) that transits the local
// meridian at the given time, so test targets can be placed near zenith.
func transitRA(ts time.Time, site astro.Site) float64 {
	return astro.LocalSiderealTime(ts, site) * 180 / math.Pi
}

// zenithTarget is observable near local midnight on 2022-05-03 at Palomar
// and sits far away from the galactic plane.
func zenithTarget(name string) Target {
	site := astro.Palomar()
	ra := transitRA(time.Date(2022, 5, 3, 7, 0, 0, 0, time.UTC), site)
	return Target{Name: name, RADeg: ra, DecDeg: 33.0}
}

func TestComputeAirmassRejection(t *testing.T) {
	// A far-southern target never rises above the horizon at Palomar, so
	// every grid sample carries the masked sentinel airmass.
	target := Target{Name: "southern", RADeg: 50, DecDeg: -60}
	p, err := Compute(target, Options{Date: "2022-05-03"})
	require.NoError(t, err)

	assert.False(t, p.Observable())
	assert.Equal(t, "airmass", p.RejectionReason())
	assert.Empty(t, p.Windows)
}

func TestComputeGalacticPlaneRejection(t *testing.T) {
	// Sgr A* lies on the galactic plane; the proximity cut overrides any
	// airmass result.
	target := Target{Name: "sgrastar", RADeg: 266.417, DecDeg: -29.008}
	p, err := Compute(target, Options{Date: "2022-05-03"})
	require.NoError(t, err)

	assert.False(t, p.Observable())
	assert.Equal(t, "proximity to gal. plane", p.RejectionReason())
	assert.InDelta(t, 0, p.GalacticLatDeg, 0.2)
}

func TestErrorBoxAreaSignInvariant(t *testing.T) {
	base := zenithTarget("boxed")
	base.RAErr = &[2]float64{2, -2}
	base.DecErr = &[2]float64{1.75, -1.75}

	swapped := base
	swapped.RAErr = &[2]float64{-2, 2}
	swapped.DecErr = &[2]float64{-1.75, 1.75}

	assert.InDelta(t, base.ErrorBoxArea(), swapped.ErrorBoxArea(), 1e-12)
	assert.Greater(t, base.ErrorBoxArea(), 10.0)
}

func TestComputeAreaRejection(t *testing.T) {
	target := zenithTarget("lowsness")
	target.RAErr = &[2]float64{2, -2}
	target.DecErr = &[2]float64{1.75, -1.75}
	target.Signalness = 0.3

	p, err := Compute(target, Options{Date: "2022-05-03"})
	require.NoError(t, err)
	assert.False(t, p.Observable())
	assert.Contains(t, p.RejectionReason(), "area: ")
	assert.Contains(t, p.RejectionReason(), "sness=0.30")

	// The same box with high signalness stays below the hard cutoff.
	target.Signalness = 0.9
	p, err = Compute(target, Options{Date: "2022-05-03"})
	require.NoError(t, err)
	assert.True(t, p.Observable())

	// A box beyond the hard cutoff is rejected regardless of signalness.
	target.RAErr = &[2]float64{6, -6}
	target.DecErr = &[2]float64{4, -4}
	p, err = Compute(target, Options{Date: "2022-05-03"})
	require.NoError(t, err)
	assert.False(t, p.Observable())
	assert.GreaterOrEqual(t, p.AreaSqDeg, 40.0)
}

func TestComputeTwoBandWindows(t *testing.T) {
	p, err := Compute(zenithTarget("twoband"), Options{Date: "2022-05-03"})
	require.NoError(t, err)
	require.True(t, p.Observable(), "reason: %s", p.RejectionReason())

	g, ok := p.Windows[BandG]
	require.True(t, ok)
	r, ok := p.Windows[BandR]
	require.True(t, ok)

	for _, w := range []Window{g, r} {
		assert.True(t, w.Start.Before(w.End))
		assert.Zero(t, w.Start.Second())
		assert.Zero(t, w.Start.Nanosecond())
		assert.Zero(t, w.End.Second())
	}
	// The two blocks are disjoint.
	if g.Start.Before(r.Start) {
		assert.True(t, g.End.Before(r.Start))
	} else {
		assert.True(t, r.End.Before(g.Start))
	}
	assert.GreaterOrEqual(t, p.MinAirmass, 1.0)
	assert.Less(t, p.MinAirmass, 1.9)
}

func TestComputeSwitchFilters(t *testing.T) {
	target := zenithTarget("switched")
	plain, err := Compute(target, Options{Date: "2022-05-03"})
	require.NoError(t, err)
	require.True(t, plain.Observable())

	switched, err := Compute(target, Options{Date: "2022-05-03", SwitchFilters: true})
	require.NoError(t, err)
	require.True(t, switched.Observable())

	// The assignment is exactly swapped; everything else is identical.
	assert.Equal(t, plain.Windows[BandG], switched.Windows[BandR])
	assert.Equal(t, plain.Windows[BandR], switched.Windows[BandG])
	assert.Equal(t, plain.MinAirmass, switched.MinAirmass)
	assert.Equal(t, plain.MinAirmassTime, switched.MinAirmassTime)
}

func TestComputeSingleBand(t *testing.T) {
	p, err := Compute(zenithTarget("gonly"), Options{Date: "2022-05-03", Bands: []Band{BandG}})
	require.NoError(t, err)
	require.True(t, p.Observable())

	g, ok := p.Windows[BandG]
	require.True(t, ok)
	_, hasR := p.Windows[BandR]
	assert.False(t, hasR)

	// A single band gets the full passing range, so it spans at least as
	// much as either block of a two-band run.
	both, err := Compute(zenithTarget("gonly"), Options{Date: "2022-05-03"})
	require.NoError(t, err)
	assert.True(t, !g.Start.After(both.Windows[BandG].Start) || !g.Start.After(both.Windows[BandR].Start))
	assert.True(t, g.End.Sub(g.Start) >= both.Windows[BandG].End.Sub(both.Windows[BandG].Start))
}

func TestSummarySingleNight(t *testing.T) {
	target := zenithTarget("IC220501A")
	target.AlertSource = "icecube"
	p, err := Compute(target, Options{Date: "2022-05-03"})
	require.NoError(t, err)
	require.True(t, p.Observable())

	assert.True(t, strings.HasPrefix(p.Summary, "Name = IceCube-220501A\n"))
	assert.Contains(t, p.Summary, "RADEC = ")
	assert.Contains(t, p.Summary, "Minimal airmass (")
	assert.Contains(t, p.Summary, "Separation from galactic plane: ")
	assert.Contains(t, p.Summary, "Recommended observation windows:\n")
	assert.Contains(t, p.Summary, "g-band: ")
	assert.Contains(t, p.Summary, "r-band: ")
	assert.Contains(t, p.Summary, " [UTC]")
}

func TestSummaryErrorBoxCoordinates(t *testing.T) {
	target := zenithTarget("boxedsummary")
	target.RAErr = &[2]float64{1.2, -0.8}
	target.DecErr = &[2]float64{0.7, -0.5}
	target.Signalness = 0.9
	target.DataSource = "GCN Circular 31975\n"

	p, err := Compute(target, Options{Date: "2022-05-03"})
	require.NoError(t, err)

	assert.Contains(t, p.Summary, "RA = ")
	assert.Contains(t, p.Summary, "+ 1.2 - 0.8\n")
	assert.Contains(t, p.Summary, "+ 0.7 - 0.5\n")
	assert.Contains(t, p.Summary, "Data source: GCN Circular 31975\n")
}

func TestSummaryMultidaySuppressesWindows(t *testing.T) {
	p, err := Compute(zenithTarget("multi"), Options{Date: "2022-05-03", Multiday: true})
	require.NoError(t, err)
	require.True(t, p.Observable())
	assert.NotContains(t, p.Summary, "Recommended observation windows:")
}

func TestComputeBadInputs(t *testing.T) {
	_, err := Compute(zenithTarget("baddate"), Options{Date: "not-a-date"})
	var cerr *ComputationError
	require.ErrorAs(t, err, &cerr)

	_, err = Compute(zenithTarget("shortwindow"), Options{WindowHours: 0.01})
	require.ErrorAs(t, err, &cerr)
}
