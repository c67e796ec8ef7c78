package astro

import (
	"fmt"
	"math"
	"time"
)

// j2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00).
const j2000 = 2451545.0

// mjdOffset converts between Julian Date and Modified Julian Date.
const mjdOffset = 2400000.5

// isoLayout is the timestamp layout used on all textual surfaces,
// e.g. "2022-05-03 09:35:00.000".
const isoLayout = "2006-01-02 15:04:05.000"

// shortLayout is isoLayout with the subseconds stripped.
const shortLayout = "2006-01-02 15:04:05"

// dateLayout is a bare calendar date.
const dateLayout = "2006-01-02"

// JulianDate converts a time.Time (interpreted as UTC) to Julian Date.
// Uses the standard astronomical algorithm valid for dates after March 1, 4801 BC.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())
	h := float64(t.Hour())
	min := float64(t.Minute())
	s := float64(t.Second()) + float64(t.Nanosecond())/1e9

	// Jan/Feb count as months 13/14 of the previous year.
	if m <= 2 {
		y -= 1
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	jd := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + b - 1524.5
	jd += (h + min/60.0 + s/3600.0) / 24.0

	return jd
}

// TimeToMJD converts a time.Time (UTC) to Modified Julian Date.
func TimeToMJD(t time.Time) float64 {
	return JulianDate(t) - mjdOffset
}

// MJDToTime converts a Modified Julian Date to a time.Time in UTC, rounded
// to the nearest millisecond. MJD day zero is 1858-11-17 00:00:00 UTC,
// which is Unix day -40587.
func MJDToTime(mjd float64) time.Time {
	seconds := (mjd - 40587.0) * 86400.0
	ms := math.Round(seconds * 1000.0)
	return time.Unix(int64(ms)/1000, (int64(ms)%1000)*int64(time.Millisecond)).UTC()
}

// IsoToMJD converts a timestamp in iso format to Modified Julian Date.
func IsoToMJD(iso string) (float64, error) {
	t, err := ParseIso(iso)
	if err != nil {
		return 0, err
	}
	return TimeToMJD(t), nil
}

// MJDToIso converts a Modified Julian Date to a timestamp in iso format.
func MJDToIso(mjd float64) string {
	return IsoTime(MJDToTime(mjd))
}

// ParseIso parses a UTC timestamp in iso format, with or without
// subseconds, or a bare calendar date.
func ParseIso(iso string) (time.Time, error) {
	for _, layout := range []string{isoLayout, shortLayout, dateLayout} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as iso time", iso)
}

// IsoTime formats a time in iso format with millisecond subseconds.
func IsoTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ShortTime formats a time without subseconds, for human-readable output.
func ShortTime(t time.Time) string {
	return t.UTC().Format(shortLayout)
}

// DateString formats the calendar date of t.
func DateString(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// RoundToMinute rounds a time to the nearest whole minute: seconds below 30
// truncate, seconds of 30 and above round up. Minute-aligned input is
// returned unchanged.
func RoundToMinute(t time.Time) time.Time {
	t = t.UTC()
	secs := float64(t.Second()) + float64(t.Nanosecond())/1e9
	truncated := t.Truncate(time.Minute)
	if secs < 30 {
		return truncated
	}
	return truncated.Add(time.Minute)
}

// MJDDeltaToSeconds converts an MJD interval to a duration in whole seconds.
func MJDDeltaToSeconds(mjdStart, mjdEnd float64) float64 {
	return math.Round((mjdEnd - mjdStart) * 86400.0)
}
