package orientation

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/schuyler/sun-sector-app/internal/sensor"
)

type imuMotionSource struct {
	imu *mpu9250.MPU9250
}

// NewMPU9250Source initializes an MPU9250 over SPI and returns a
// MotionSource that derives beta/gamma tilt angles from the accelerometer.
func NewMPU9250Source(spiDev, csPin string) (MotionSource, error) {
	// Initialize periph host once.
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU SPI transport (%s): %w", spiDev, err)
	}

	imu, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("IMU new device: %w", err)
	}

	if err := imu.Init(); err != nil {
		return nil, fmt.Errorf("IMU init: %w", err)
	}

	if _, err := imu.SelfTest(); err != nil {
		return nil, fmt.Errorf("IMU self-test: %w", err)
	}
	if err := imu.Calibrate(); err != nil {
		return nil, fmt.Errorf("IMU calibrate: %w", err)
	}

	return &imuMotionSource{imu: imu}, nil
}

// Next reads the accelerometer and converts the gravity vector into the
// beta/gamma tilt pair the fusion step expects. Units cancel out; only the
// component ratios matter.
func (s *imuMotionSource) Next() (sensor.MotionReading, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return sensor.MotionReading{}, fmt.Errorf("IMU acc X: %w", err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return sensor.MotionReading{}, fmt.Errorf("IMU acc Y: %w", err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return sensor.MotionReading{}, fmt.Errorf("IMU acc Z: %w", err)
	}

	fx := float64(ax)
	fy := float64(ay)
	fz := float64(az)

	// Tilt from the gravity vector:
	// beta  = atan2(ay, az)                    front-back tilt
	// gamma = atan2(-ax, sqrt(ay^2 + az^2))    left-right roll
	beta := math.Atan2(fy, fz)
	gamma := math.Atan2(-fx, math.Sqrt(fy*fy+fz*fz))

	return sensor.MotionReading{Beta: beta, Gamma: gamma}, nil
}
