package astro

import (
	"math"
	"time"
)

// astronomicalTwilightDeg is the solar altitude defining astronomical
// twilight.
const astronomicalTwilightDeg = -18.0

// twilight search parameters: coarse scan step and bisection tolerance.
const (
	twilightScanStep  = time.Minute
	twilightScanSpan  = 36 * time.Hour
	twilightTolerance = 100 * time.Millisecond
)

// sunRADec returns the apparent solar right ascension and declination in
// radians, using the low-precision formulae from the Astronomical Almanac
// (accurate to ~0.01 degrees between 1950 and 2050).
func sunRADec(t time.Time) (ra, dec float64) {
	n := JulianDate(t) - j2000

	// Mean longitude and mean anomaly of the Sun, degrees.
	l := math.Mod(280.460+0.9856474*n, 360.0)
	g := math.Mod(357.528+0.9856003*n, 360.0) * deg2rad

	// Ecliptic longitude, degrees.
	lambda := (l + 1.915*math.Sin(g) + 0.020*math.Sin(2*g)) * deg2rad

	// Obliquity of the ecliptic, degrees.
	eps := (23.439 - 0.0000004*n) * deg2rad

	ra = math.Atan2(math.Cos(eps)*math.Sin(lambda), math.Cos(lambda))
	if ra < 0 {
		ra += 2 * math.Pi
	}
	dec = math.Asin(math.Sin(eps) * math.Sin(lambda))
	return ra, dec
}

// SunAltitudeDeg returns the altitude of the Sun above the horizon at the
// site, in degrees.
func SunAltitudeDeg(t time.Time, site Site) float64 {
	ra, dec := sunRADec(t)
	lat := site.LatDeg * deg2rad
	ha := LocalSiderealTime(t, site) - ra

	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)
	return math.Asin(clamp(sinAlt)) / deg2rad
}

// NextEveningTwilight returns the next time after start at which the Sun
// descends through -18 degrees altitude (astronomical evening twilight).
func NextEveningTwilight(start time.Time, site Site) time.Time {
	return nextTwilightCrossing(start, site, false)
}

// NextMorningTwilight returns the next time after start at which the Sun
// ascends through -18 degrees altitude (astronomical morning twilight).
func NextMorningTwilight(start time.Time, site Site) time.Time {
	return nextTwilightCrossing(start, site, true)
}

// nextTwilightCrossing scans forward minute by minute for a sign change of
// (sun altitude + 18°) in the requested direction, then bisects the
// bracketing interval.
func nextTwilightCrossing(start time.Time, site Site, ascending bool) time.Time {
	start = start.UTC()
	prev := SunAltitudeDeg(start, site) - astronomicalTwilightDeg

	for dt := twilightScanStep; dt <= twilightScanSpan; dt += twilightScanStep {
		t := start.Add(dt)
		cur := SunAltitudeDeg(t, site) - astronomicalTwilightDeg

		crossed := (ascending && prev < 0 && cur >= 0) ||
			(!ascending && prev > 0 && cur <= 0)
		if crossed {
			return bisectTwilight(t.Add(-twilightScanStep), t, site, ascending)
		}
		prev = cur
	}
	// No crossing within the scan span; cannot happen at mid-latitude sites.
	return start.Add(twilightScanSpan)
}

func bisectTwilight(lo, hi time.Time, site Site, ascending bool) time.Time {
	for hi.Sub(lo) > twilightTolerance {
		mid := lo.Add(hi.Sub(lo) / 2)
		v := SunAltitudeDeg(mid, site) - astronomicalTwilightDeg
		if (ascending && v < 0) || (!ascending && v > 0) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
