// Package ephemeris computes the topocentric position of the sun using the
// low-precision series from NOAA's solar calculator
// (https://gml.noaa.gov/grad/solcalc/). Accuracy is a few hundredths of a
// degree over the current century, more than enough to place a marker on a
// phone screen.
package ephemeris

import (
	"math"
	"time"

	"github.com/schuyler/sun-sector-app/internal/geo"
)

const deg2rad = math.Pi / 180

// Position returns the sun's azimuth (degrees clockwise from true north,
// [0,360)) and elevation (degrees above the horizon, [-90,90]) as seen from
// coord at instant t. Pure and deterministic; all trig runs in radians,
// degrees only cross the signature.
func Position(coord geo.Coordinate, t time.Time) (azimuthDeg, elevationDeg float64) {
	utc := t.UTC()
	jc := julianCentury(julianDay(utc))

	decl := sunDeclination(jc) * deg2rad
	lat := coord.Latitude * deg2rad

	// True solar time in minutes, then hour angle: 0 at local solar noon,
	// positive in the afternoon (sun west of the meridian).
	minutes := float64(utc.Hour()*60+utc.Minute()) +
		float64(utc.Second())/60 + float64(utc.Nanosecond())/6e10
	tst := minutes + equationOfTime(jc) + 4*coord.Longitude
	tst = math.Mod(tst, 1440)
	if tst < 0 {
		tst += 1440
	}
	ha := (tst/4 - 180) * deg2rad

	sinEl := math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Cos(ha)
	if sinEl > 1 {
		sinEl = 1
	} else if sinEl < -1 {
		sinEl = -1
	}
	elevationDeg = math.Asin(sinEl) / deg2rad

	// Azimuth from the hour angle triangle, measured from south and flipped
	// to the compass convention (clockwise from north).
	az := math.Atan2(math.Sin(ha), math.Cos(ha)*math.Sin(lat)-math.Tan(decl)*math.Cos(lat))
	azimuthDeg = math.Mod(az/deg2rad+180, 360)
	if azimuthDeg < 0 {
		azimuthDeg += 360
	}

	return azimuthDeg, elevationDeg
}

// julianDay converts a UTC time to a fractional Julian day.
func julianDay(t time.Time) float64 {
	year := t.Year()
	month := int(t.Month())
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)
	day := float64(t.Day()) +
		float64(t.Hour())/24 + float64(t.Minute())/1440 +
		float64(t.Second())/86400 + float64(t.Nanosecond())/8.64e13
	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		day + b - 1524.5
}

// julianCentury is the number of centuries since J2000.0.
func julianCentury(jd float64) float64 { return (jd - 2451545.0) / 36525.0 }

func sunGeometricMeanLong(jc float64) float64 {
	return math.Mod(280.46646+jc*(36000.76983+0.0003032*jc), 360)
}

func sunGeometricMeanAnomaly(jc float64) float64 {
	return 357.52911 + jc*(35999.05029-0.0001537*jc)
}

func sunEccentricityEarthOrbit(jc float64) float64 {
	return 0.016708634 - jc*(0.000042037+0.0000001267*jc)
}

func sunEquationOfCenter(jc float64) float64 {
	m := deg2rad * sunGeometricMeanAnomaly(jc)
	return math.Sin(m)*(1.914602-jc*(0.004817+0.000014*jc)) +
		math.Sin(2*m)*(0.019993-0.000101*jc) +
		math.Sin(3*m)*0.000289
}

func sunApparentLong(jc float64) float64 {
	omega := 125.04 - 1934.136*jc
	return sunGeometricMeanLong(jc) + sunEquationOfCenter(jc) -
		0.00569 - 0.00478*math.Sin(deg2rad*omega)
}

func meanObliquityOfEcliptic(jc float64) float64 {
	seconds := 21.448 - jc*(46.8150+jc*(0.00059-jc*0.001813))
	return 23 + (26+seconds/60)/60
}

func obliquityCorrection(jc float64) float64 {
	omega := 125.04 - 1934.136*jc
	return meanObliquityOfEcliptic(jc) + 0.00256*math.Cos(deg2rad*omega)
}

// sunDeclination returns the sun's declination in degrees.
func sunDeclination(jc float64) float64 {
	e := deg2rad * obliquityCorrection(jc)
	lambda := deg2rad * sunApparentLong(jc)
	return math.Asin(math.Sin(e)*math.Sin(lambda)) / deg2rad
}

// equationOfTime returns the difference between true and mean solar time in
// minutes of time.
func equationOfTime(jc float64) float64 {
	epsilon := deg2rad * obliquityCorrection(jc)
	l0 := deg2rad * sunGeometricMeanLong(jc)
	e := sunEccentricityEarthOrbit(jc)
	m := deg2rad * sunGeometricMeanAnomaly(jc)

	y := math.Tan(epsilon / 2)
	y *= y

	etime := y*math.Sin(2*l0) -
		2*e*math.Sin(m) +
		4*e*y*math.Sin(m)*math.Cos(2*l0) -
		0.5*y*y*math.Sin(4*l0) -
		1.25*e*e*math.Sin(2*m)

	return etime / deg2rad * 4
}
