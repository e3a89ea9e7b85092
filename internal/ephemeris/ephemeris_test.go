package ephemeris

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/schuyler/sun-sector-app/internal/geo"
)

// azDiff is the smallest angular distance between two azimuths in degrees.
func azDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func TestPositionRanges(t *testing.T) {
	instants := []time.Time{
		time.Date(2025, 3, 20, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 23, 18, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC),
	}

	for lat := -80.0; lat <= 80; lat += 20 {
		for lon := -180.0; lon < 180; lon += 45 {
			for _, at := range instants {
				az, el := Position(geo.Coordinate{Latitude: lat, Longitude: lon}, at)
				if az < 0 || az >= 360 {
					t.Errorf("lat=%v lon=%v %v: azimuth %v out of [0,360)", lat, lon, at, az)
				}
				if el < -90 || el > 90 {
					t.Errorf("lat=%v lon=%v %v: elevation %v out of [-90,90]", lat, lon, at, el)
				}
			}
		}
	}
}

// At solar noon in the northern mid-latitudes the sun is due south at its
// daily maximum elevation.
func TestSolarNoonNewYork(t *testing.T) {
	coord := geo.Coordinate{Latitude: 40.7, Longitude: -74.0}
	day := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)

	var bestEl, bestAz float64
	var bestAt time.Time
	bestEl = -91
	for m := 0; m < 24*60; m++ {
		at := day.Add(time.Duration(m) * time.Minute)
		az, el := Position(coord, at)
		if el > bestEl {
			bestEl, bestAz, bestAt = el, az, at
		}
	}

	// Zenith distance at the solstice: 90 - (90 - lat + decl) ~ 72.7 up.
	if math.Abs(bestEl-72.7) > 0.7 {
		t.Errorf("max elevation = %.2f, want about 72.7", bestEl)
	}
	if azDiff(bestAz, 180) > 3 {
		t.Errorf("azimuth at max elevation = %.2f, want near 180", bestAz)
	}

	// Solar noon for 74 degrees west is around 16:56 UTC give or take the
	// equation of time.
	noonUTC := time.Date(2025, 6, 21, 16, 56, 0, 0, time.UTC)
	if d := bestAt.Sub(noonUTC); d < -15*time.Minute || d > 15*time.Minute {
		t.Errorf("solar noon at %v, want within 15min of %v", bestAt, noonUTC)
	}
}

func TestPositionDeterminism(t *testing.T) {
	coord := geo.Coordinate{Latitude: 51.5, Longitude: -0.12}
	at := time.Date(2025, 8, 1, 14, 30, 0, 0, time.UTC)

	az1, el1 := Position(coord, at)
	az2, el2 := Position(coord, at)
	if az1 != az2 || el1 != el2 {
		t.Errorf("Position not deterministic: (%v,%v) vs (%v,%v)", az1, el1, az2, el2)
	}
}

// Cross-check the low-precision series against the full Meeus apparent
// solar position. The two should agree to well under a degree everywhere
// away from the zenith.
func TestPositionAgainstMeeus(t *testing.T) {
	cases := []struct {
		name  string
		coord geo.Coordinate
		at    time.Time
	}{
		{"london equinox morning", geo.Coordinate{Latitude: 51.5, Longitude: -0.12}, time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)},
		{"new york summer evening", geo.Coordinate{Latitude: 40.7, Longitude: -74.0}, time.Date(2025, 6, 21, 21, 0, 0, 0, time.UTC)},
		{"sydney summer", geo.Coordinate{Latitude: -33.87, Longitude: 151.21}, time.Date(2025, 12, 1, 3, 0, 0, 0, time.UTC)},
		{"reykjavik solstice", geo.Coordinate{Latitude: 64.1, Longitude: -21.9}, time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC)},
		{"nairobi sunrise side", geo.Coordinate{Latitude: -1.29, Longitude: 36.82}, time.Date(2025, 2, 15, 7, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotAz, gotEl := Position(tc.coord, tc.at)
			wantAz, wantEl := meeusPosition(tc.coord, tc.at)

			if azDiff(gotAz, wantAz) > 0.8 {
				t.Errorf("azimuth = %.3f, meeus says %.3f", gotAz, wantAz)
			}
			if math.Abs(gotEl-wantEl) > 0.3 {
				t.Errorf("elevation = %.3f, meeus says %.3f", gotEl, wantEl)
			}
		})
	}
}

// meeusPosition derives topocentric azimuth/elevation from the Meeus
// apparent equatorial position and Greenwich sidereal time.
func meeusPosition(coord geo.Coordinate, at time.Time) (azDeg, elDeg float64) {
	jd := julian.TimeToJD(at.UTC())
	ra, dec := solar.ApparentEquatorial(jd)
	gmst := sidereal.Apparent0UT(jd)

	lat := coord.Latitude * deg2rad
	lst := gmst.Angle().Rad() + coord.Longitude*deg2rad
	ha := lst - ra.Rad()

	sinEl := math.Sin(lat)*dec.Sin() + math.Cos(lat)*dec.Cos()*math.Cos(ha)
	elDeg = math.Asin(sinEl) / deg2rad

	az := math.Atan2(math.Sin(ha), math.Cos(ha)*math.Sin(lat)-dec.Tan()*math.Cos(lat))
	azDeg = math.Mod(az/deg2rad+180, 360)
	if azDeg < 0 {
		azDeg += 360
	}
	return azDeg, elDeg
}

func TestEquationOfTimeBounds(t *testing.T) {
	// The equation of time never exceeds about 17 minutes.
	for day := 0; day < 365; day++ {
		at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, day)
		jc := julianCentury(julianDay(at))
		if e := equationOfTime(jc); math.Abs(e) > 17 {
			t.Errorf("equation of time on %v = %.2f minutes", at, e)
		}
	}
}
