package overlay

import (
	"math"
	"testing"
	"time"

	"github.com/schuyler/sun-sector-app/internal/geo"
	"github.com/schuyler/sun-sector-app/internal/orientation"
	"github.com/schuyler/sun-sector-app/internal/solartable"
)

func TestCompassPoint(t *testing.T) {
	cases := []struct {
		heading float64
		want    string
	}{
		{0, "N"},
		{11.24, "N"},
		{11.25, "NNE"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{337.5, "NNW"},
		{348.75, "N"},
		{359.9, "N"},
		{-90, "W"},
		{450, "E"},
	}

	for _, tc := range cases {
		if got := CompassPoint(tc.heading); got != tc.want {
			t.Errorf("CompassPoint(%v) = %q, want %q", tc.heading, got, tc.want)
		}
	}
}

func TestBuildStateWithSun(t *testing.T) {
	est := orientation.Estimate{Heading: 180, Pitch: 10}
	entry := &solartable.Entry{
		Time:         time.Date(2025, 6, 21, 12, 58, 0, 0, time.UTC),
		AzimuthDeg:   180.4,
		ElevationDeg: 72.5,
	}
	coord := geo.Coordinate{Latitude: 40.7, Longitude: -74.0}

	st := BuildState(est, entry, coord, 8)

	if !st.HaveSun {
		t.Fatal("HaveSun = false with an entry")
	}
	if st.CompassPoint != "S" {
		t.Errorf("CompassPoint = %q, want S", st.CompassPoint)
	}
	if st.CrossingTime != "12:58" {
		t.Errorf("CrossingTime = %q, want 12:58", st.CrossingTime)
	}
	// (pitch - elevation) * px/deg = (10 - 72.5) * 8
	if math.Abs(st.MarkerOffsetPx-(-500)) > 1e-9 {
		t.Errorf("MarkerOffsetPx = %v, want -500", st.MarkerOffsetPx)
	}
	if st.Latitude != coord.Latitude || st.Longitude != coord.Longitude {
		t.Errorf("coordinate not carried through: %+v", st)
	}
}

func TestBuildStateWithoutSun(t *testing.T) {
	est := orientation.Estimate{Heading: 0, Pitch: -5}
	st := BuildState(est, nil, geo.Coordinate{}, 8)

	if st.HaveSun {
		t.Fatal("HaveSun = true without an entry")
	}
	if st.MarkerOffsetPx != 0 || st.SunElevation != 0 || st.CrossingTime != "" {
		t.Errorf("sun fields not zero: %+v", st)
	}
	if st.CompassPoint != "N" {
		t.Errorf("CompassPoint = %q, want N", st.CompassPoint)
	}
}

func TestRenderPlacesHorizonAndSun(t *testing.T) {
	st := State{
		Heading:        180,
		CompassPoint:   "S",
		Pitch:          0,
		HaveSun:        true,
		SunElevation:   20,
		CrossingTime:   "12:58",
		MarkerOffsetPx: -20, // (0 - 20) * 1 px/deg
	}

	img := Render(st, 100, 100, 1)

	if got := img.Bounds(); got.Dx() != 100 || got.Dy() != 100 {
		t.Fatalf("bounds = %v", got)
	}

	// Pitch 0 puts the horizon through the view center.
	if img.RGBAAt(10, 50) != horizonColor {
		t.Errorf("no horizon line at the center row, got %v", img.RGBAAt(10, 50))
	}

	// The sun disc sits 20px above the center.
	if img.RGBAAt(50, 30) != sunColor {
		t.Errorf("no sun marker at the offset, got %v", img.RGBAAt(50, 30))
	}

	// A spot away from the text rows, the horizon, and the disc stays sky.
	if img.RGBAAt(95, 40) != skyColor {
		t.Errorf("background not sky, got %v", img.RGBAAt(95, 40))
	}
}

func TestRenderWithoutSun(t *testing.T) {
	st := State{Heading: 10, CompassPoint: "N", Pitch: 30}
	img := Render(st, 100, 100, 1)

	// Horizon pushed 30px below center.
	if img.RGBAAt(10, 80) != horizonColor {
		t.Errorf("horizon not shifted by pitch, got %v", img.RGBAAt(10, 80))
	}
	// No marker at the center.
	if img.RGBAAt(50, 50) == sunColor {
		t.Error("sun marker drawn without sun")
	}
}
