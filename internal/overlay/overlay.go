// Package overlay turns a fused orientation plus a solar-table entry into
// the state the renderers consume: a marker offset for the horizon view and
// the text fields for the readout displays.
package overlay

import (
	"math"

	"github.com/schuyler/sun-sector-app/internal/geo"
	"github.com/schuyler/sun-sector-app/internal/orientation"
	"github.com/schuyler/sun-sector-app/internal/solartable"
)

// State is the JSON payload published on the overlay topic.
type State struct {
	Heading      float64 `json:"heading"`
	CompassPoint string  `json:"compass_point"`
	Pitch        float64 `json:"pitch"`

	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`

	// HaveSun is false when the sun never crosses the current heading on
	// the sampled day; the remaining sun fields are then zero and the
	// renderer draws no marker.
	HaveSun        bool    `json:"have_sun"`
	SunElevation   float64 `json:"sun_elevation,omitempty"`
	CrossingTime   string  `json:"crossing_time,omitempty"` // "15:04"
	MarkerOffsetPx float64 `json:"marker_offset_px,omitempty"`
}

// BuildState assembles the overlay payload for one fused estimate. The
// marker offset is (pitch - solar elevation) * pixelsPerDegree: positive
// pushes the marker below the view center (the device points above the sun).
func BuildState(est orientation.Estimate, entry *solartable.Entry, coord geo.Coordinate, pixelsPerDegree float64) State {
	st := State{
		Heading:      est.Heading,
		CompassPoint: CompassPoint(est.Heading),
		Pitch:        est.Pitch,
		Latitude:     coord.Latitude,
		Longitude:    coord.Longitude,
	}
	if entry != nil {
		st.HaveSun = true
		st.SunElevation = entry.ElevationDeg
		st.CrossingTime = entry.Time.Format("15:04")
		st.MarkerOffsetPx = (est.Pitch - entry.ElevationDeg) * pixelsPerDegree
	}
	return st
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint returns the 16-wind abbreviation for a heading in degrees.
func CompassPoint(headingDeg float64) string {
	h := math.Mod(headingDeg, 360)
	if h < 0 {
		h += 360
	}
	idx := int(math.Floor(h/22.5+0.5)) % 16
	return compassPoints[idx]
}
