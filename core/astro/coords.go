package astro

import (
	"math"
	"time"
)

const deg2rad = math.Pi / 180.0

// J2000 north galactic pole and the galactic longitude of the north
// celestial pole (Reid & Brunthaler 2004).
const (
	galPoleRADeg  = 192.85948
	galPoleDecDeg = 27.12825
)

// Altitude returns the topocentric altitude in radians of a fixed J2000
// RA/Dec target as seen from the site at time t. Refraction, precession and
// nutation are neglected.
func Altitude(t time.Time, site Site, raDeg, decDeg float64) float64 {
	lat := site.LatDeg * deg2rad
	dec := decDeg * deg2rad
	ha := LocalSiderealTime(t, site) - raDeg*deg2rad

	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)
	return math.Asin(clamp(sinAlt))
}

// clamp keeps rounding noise out of the asin domain.
func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// Airmass returns the secant of the zenith distance of the target. Values
// below 1 (including negative ones for targets below the horizon) are
// unphysical and must be masked by the caller.
func Airmass(t time.Time, site Site, raDeg, decDeg float64) float64 {
	alt := Altitude(t, site, raDeg, decDeg)
	return 1.0 / math.Sin(alt)
}

// GalacticLatitude returns the galactic latitude b in degrees of J2000
// equatorial coordinates.
func GalacticLatitude(raDeg, decDeg float64) float64 {
	ra := raDeg * deg2rad
	dec := decDeg * deg2rad
	raP := galPoleRADeg * deg2rad
	decP := galPoleDecDeg * deg2rad

	sinB := math.Sin(dec)*math.Sin(decP) +
		math.Cos(dec)*math.Cos(decP)*math.Cos(ra-raP)
	return math.Asin(sinB) / deg2rad
}
