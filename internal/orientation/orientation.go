package orientation

import (
	"math"

	"github.com/schuyler/sun-sector-app/internal/sensor"
)

// Estimate is the canonical device orientation: compass heading in [0,360)
// and pitch relative to the horizon in [-90,90], both in degrees. Pitch is 0
// at the horizon, positive looking up.
type Estimate struct {
	Heading float64 `json:"heading"`
	Pitch   float64 `json:"pitch"`
}

// MotionSource is anything that can provide motion readings over time:
// the MPU9250 source, the mock source, maybe a replay source later.
type MotionSource interface {
	Next() (sensor.MotionReading, error)
}

// CompassSource is the heading-side counterpart of MotionSource.
type CompassSource interface {
	Next() (sensor.CompassReading, error)
}

// flipPitchDeg is the pitch beyond which the magnetometer's reported heading
// flips by 180. Empirical, not a physical law; measured on the reference
// handset and kept as-is.
const flipPitchDeg = 45

// Fuse combines the most recent motion and compass readings into an
// orientation estimate.
//
// Pitch assumes the device is held close to portrait: when |gamma| puts the
// roll axis past vertical the device is facing upward and pitch is
// 90 - |beta|, otherwise |beta| - 90. The derivation degrades for arbitrary
// roll; that limitation is deliberate and covered by tests.
//
// Heading passes the raw compass value through below flipPitchDeg and adds
// 180 above it, because the magnetometer flips its reported heading once the
// device pitches past that angle.
//
// TODO: heading flaps when pitch hovers right at flipPitchDeg; a small
// hysteresis band would settle it but changes observable behavior, so it
// stays out for now.
func Fuse(m sensor.MotionReading, c sensor.CompassReading) Estimate {
	betaDeg := math.Abs(m.Beta) / deg2rad

	var pitch float64
	if math.Abs(m.Gamma) > math.Pi/2 {
		pitch = 90 - betaDeg
	} else {
		pitch = betaDeg - 90
	}

	heading := c.TrueHeading
	if pitch >= flipPitchDeg {
		heading += 180
	}
	heading = math.Mod(heading, 360)
	if heading < 0 {
		heading += 360
	}

	return Estimate{Heading: heading, Pitch: pitch}
}

const deg2rad = math.Pi / 180
