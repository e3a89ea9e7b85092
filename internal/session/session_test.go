package session

import (
	"math"
	"testing"
	"time"

	"github.com/schuyler/sun-sector-app/internal/geo"
	"github.com/schuyler/sun-sector-app/internal/sensor"
)

var newYork = geo.Coordinate{Latitude: 40.7, Longitude: -74.0}

// Midsummer midnight, eastern daylight time.
var ref = time.Date(2025, 6, 21, 4, 0, 0, 0, time.UTC)

func upright() sensor.MotionReading {
	return sensor.MotionReading{Beta: math.Pi / 2, Gamma: 0}
}

func TestNoOutputUntilReady(t *testing.T) {
	s := New()

	if _, _, ok := s.Current(); ok {
		t.Fatal("output before any input")
	}

	s.ObserveMotion(upright())
	if _, _, ok := s.Current(); ok {
		t.Fatal("output with only motion")
	}

	s.ObserveCompass(sensor.CompassReading{TrueHeading: 180})
	if _, _, ok := s.Current(); ok {
		t.Fatal("output with both streams but no fix")
	}

	s.SetFix(newYork, ref)
	est, entry, ok := s.Current()
	if !ok {
		t.Fatal("no output after fix and both streams")
	}
	if math.Abs(est.Heading-180) > 1e-9 || math.Abs(est.Pitch) > 1e-9 {
		t.Errorf("estimate = %+v, want heading 180 pitch 0", est)
	}
	if entry == nil {
		t.Error("due south at midsummer should hit a filled bucket")
	}
}

func TestFixBeforeSensors(t *testing.T) {
	s := New()
	s.SetFix(newYork, ref)

	if !s.Ready() {
		t.Fatal("not ready after fix")
	}
	if _, _, ok := s.Current(); ok {
		t.Fatal("output without sensor readings")
	}

	s.ObserveCompass(sensor.CompassReading{TrueHeading: 90})
	s.ObserveMotion(upright())
	if _, _, ok := s.Current(); !ok {
		t.Fatal("no output once everything arrived")
	}
}

// The first fix wins; the table is a one-day snapshot and is not rebuilt.
func TestLaterFixesIgnored(t *testing.T) {
	s := New()
	s.SetFix(newYork, ref)
	s.SetFix(geo.Coordinate{Latitude: -33.87, Longitude: 151.21}, ref)

	coord, ok := s.Coordinate()
	if !ok {
		t.Fatal("coordinate not set")
	}
	if coord != newYork {
		t.Errorf("coordinate = %+v, want the first fix", coord)
	}
}

func TestLastValueWins(t *testing.T) {
	s := New()
	s.SetFix(newYork, ref)
	s.ObserveMotion(upright())

	s.ObserveCompass(sensor.CompassReading{TrueHeading: 10})
	s.ObserveCompass(sensor.CompassReading{TrueHeading: 200})

	est, _, ok := s.Current()
	if !ok {
		t.Fatal("no output")
	}
	if math.Abs(est.Heading-200) > 1e-9 {
		t.Errorf("heading = %v, want the latest reading 200", est.Heading)
	}
}

// An empty bucket comes back as a nil entry with ok still true; the sun
// simply never crosses that heading today.
func TestTableMissIsNotAnError(t *testing.T) {
	s := New()
	s.SetFix(newYork, ref)
	s.ObserveMotion(upright())
	s.ObserveCompass(sensor.CompassReading{TrueHeading: 0})

	est, entry, ok := s.Current()
	if !ok {
		t.Fatal("no output")
	}
	if math.Abs(est.Heading) > 1e-9 {
		t.Errorf("heading = %v, want 0", est.Heading)
	}
	if entry != nil {
		t.Errorf("due north at midsummer should be empty, got %+v", *entry)
	}
}
