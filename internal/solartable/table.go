// Package solartable precomputes, once per location fix, where and when the
// sun crosses each integer compass heading over one day.
package solartable

import (
	"math"
	"time"

	"github.com/schuyler/sun-sector-app/internal/ephemeris"
	"github.com/schuyler/sun-sector-app/internal/geo"
)

// StepMinutes is the sampling resolution of a build. Finer sampling leaves
// fewer empty heading buckets but costs proportionally more ephemeris calls;
// one minute (1440 calls per build) is cheap enough to run synchronously on
// the location-fix callback.
const StepMinutes = 1

// Slots is the number of heading buckets, one per integer compass degree.
const Slots = 360

// horizonCutoffDeg drops samples with the sun below the geometric horizon,
// so night-time crossings (the sun sweeps through north below the horizon
// at mid latitudes) never fill a bucket.
const horizonCutoffDeg = 0

// Entry is the sample stored in one heading bucket: when the sun first
// crosses that heading today, and how high it stands at that moment.
type Entry struct {
	Time         time.Time `json:"time"`
	AzimuthDeg   float64   `json:"azimuth"`
	ElevationDeg float64   `json:"elevation"`
}

// Table maps each integer compass heading to the sun's first crossing of
// that heading within the sampled day. Built once per location fix and
// read-only afterward; buckets the sun never reaches stay nil.
type Table struct {
	coord geo.Coordinate
	built time.Time
	slots [Slots]*Entry
}

// Build samples a 24-hour window starting at ref at StepMinutes resolution
// and fills one bucket per integer heading, first chronological crossing
// wins. A zero ref means "now". If the sun crosses a heading more than once
// in the window (azimuth reversals near sunrise/sunset at some latitudes),
// only the first occurrence is kept.
//
// Deterministic: equal coord and ref produce identical tables.
func Build(coord geo.Coordinate, ref time.Time) *Table {
	if ref.IsZero() {
		ref = time.Now()
	}

	t := &Table{coord: coord, built: ref}
	steps := 24 * 60 / StepMinutes
	for i := 0; i < steps; i++ {
		at := ref.Add(time.Duration(i) * StepMinutes * time.Minute)
		az, el := ephemeris.Position(coord, at)
		if el < horizonCutoffDeg {
			continue
		}
		h := bucket(az)
		if t.slots[h] == nil {
			t.slots[h] = &Entry{Time: at, AzimuthDeg: az, ElevationDeg: el}
		}
	}
	return t
}

// Lookup returns the entry for the bucket containing heading, or nil when
// the sun never crosses that heading in the sampled day. Headings outside
// [0,360) are wrapped. No interpolation between adjacent buckets.
func (t *Table) Lookup(headingDeg float64) *Entry {
	return t.slots[bucket(headingDeg)]
}

// Coordinate returns the observer position the table was built for.
func (t *Table) Coordinate() geo.Coordinate { return t.coord }

// BuiltAt returns the reference instant of the build.
func (t *Table) BuiltAt() time.Time { return t.built }

// Len reports the number of non-empty buckets.
func (t *Table) Len() int {
	n := 0
	for _, e := range t.slots {
		if e != nil {
			n++
		}
	}
	return n
}

func bucket(deg float64) int {
	h := int(math.Floor(deg)) % Slots
	if h < 0 {
		h += Slots
	}
	return h
}
