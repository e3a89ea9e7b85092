package sensor

// MotionReading is a single device-motion sample as published on the motion
// topic. Beta is front-back tilt and Gamma left-right roll, both in radians,
// matching what the handset's motion stack reports.
type MotionReading struct {
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// CompassReading is a single heading sample as published on the compass
// topic. TrueHeading is degrees clockwise from true north.
type CompassReading struct {
	TrueHeading float64 `json:"true_heading"`
}
