package astro

// Site describes an observing site in geodetic coordinates.
type Site struct {
	Name       string
	LatDeg     float64 // geodetic latitude, degrees north
	LonDeg     float64 // longitude, degrees east
	ElevationM float64
	Timezone   string // IANA timezone name, informational only
}

// Palomar returns the site descriptor of Palomar Observatory, home of ZTF.
func Palomar() Site {
	return Site{
		Name:       "Palomar",
		LatDeg:     33.3563,
		LonDeg:     -116.8650,
		ElevationM: 1712,
		Timezone:   "US/Pacific",
	}
}
