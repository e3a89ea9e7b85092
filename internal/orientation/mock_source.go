package orientation

import (
	"math"
	"time"

	"github.com/schuyler/sun-sector-app/internal/sensor"
)

type mockMotionSource struct {
	start time.Time
}

// NewMockMotionSource creates a mock motion source that sweeps the device
// slowly through the portrait holding range, crossing the heading-flip pitch
// on every cycle.
func NewMockMotionSource() MotionSource {
	return &mockMotionSource{start: time.Now()}
}

func (m *mockMotionSource) Next() (sensor.MotionReading, error) {
	elapsed := time.Since(m.start).Seconds()

	// Beta oscillates around upright (pi/2), gamma wobbles around 0.
	return sensor.MotionReading{
		Beta:  math.Pi/2 + 0.6*math.Sin(elapsed*0.5),
		Gamma: 0.3 * math.Cos(elapsed*0.7),
	}, nil
}

type mockCompassSource struct {
	start time.Time
}

// NewMockCompassSource creates a mock compass source that pans the device
// through a full circle roughly every 30 seconds.
func NewMockCompassSource() CompassSource {
	return &mockCompassSource{start: time.Now()}
}

func (m *mockCompassSource) Next() (sensor.CompassReading, error) {
	elapsed := time.Since(m.start).Seconds()

	return sensor.CompassReading{
		TrueHeading: math.Mod(elapsed*12, 360),
	}, nil
}
