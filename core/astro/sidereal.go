package astro

import (
	"math"
	"time"
)

// GMST calculates Greenwich Mean Sidereal Time in radians for a given UTC
// time, using the IAU-82 model (Vallado Eq 3-47), with UT1 approximated
// by UTC.
func GMST(t time.Time) float64 {
	jd := JulianDate(t)
	tUT1 := (jd - j2000) / 36525.0

	// GMST in seconds of time; 876600 hours = 3155760000 seconds.
	gmstSec := 67310.54841 +
		(3155760000.0+8640184.812866)*tUT1 +
		0.093104*tUT1*tUT1 -
		6.2e-6*tUT1*tUT1*tUT1

	gmstSec = math.Mod(gmstSec, 86400.0)
	if gmstSec < 0 {
		gmstSec += 86400.0
	}
	return gmstSec / 86400.0 * 2.0 * math.Pi
}

// LocalSiderealTime returns the local mean sidereal time at the site in
// radians, in [0, 2π).
func LocalSiderealTime(t time.Time, site Site) float64 {
	lst := GMST(t) + site.LonDeg*math.Pi/180.0
	lst = math.Mod(lst, 2*math.Pi)
	if lst < 0 {
		lst += 2 * math.Pi
	}
	return lst
}
