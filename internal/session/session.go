// Package session owns the per-run state of the sun tracker: the one-shot
// location fix, the solar table built from it, and the latest reading from
// each sensor stream.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/schuyler/sun-sector-app/internal/geo"
	"github.com/schuyler/sun-sector-app/internal/orientation"
	"github.com/schuyler/sun-sector-app/internal/sensor"
	"github.com/schuyler/sun-sector-app/internal/solartable"
)

// ErrPermissionDenied means access to the location source was refused.
// Terminal for the session; surfaced once, never retried.
var ErrPermissionDenied = errors.New("location permission denied")

// ErrLocationUnavailable means no usable fix could be obtained. Terminal for
// the session, same handling as ErrPermissionDenied.
var ErrLocationUnavailable = errors.New("no location fix available")

// Session goes through two states: uninitialized until SetFix succeeds, then
// ready for the rest of its life. Sensor readings are last-value-wins: each
// new reading fully replaces the previous one of its stream, no history is
// kept. The lock is only there because MQTT delivers the streams on separate
// callback goroutines.
type Session struct {
	mu sync.RWMutex

	coord geo.Coordinate
	table *solartable.Table
	ready bool

	motion      sensor.MotionReading
	haveMotion  bool
	compass     sensor.CompassReading
	haveCompass bool
}

func New() *Session {
	return &Session{}
}

// SetFix accepts the session's one-shot location fix and builds the solar
// table from it. The first call wins; the coordinate and table are immutable
// afterward, so later fixes are ignored. ref selects the table's sampled
// day, zero meaning "now".
func (s *Session) SetFix(coord geo.Coordinate, ref time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return
	}
	s.coord = coord
	s.table = solartable.Build(coord, ref)
	s.ready = true
}

// Ready reports whether the location fix has arrived and the table is built.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Coordinate returns the session's fix, false while uninitialized.
func (s *Session) Coordinate() (geo.Coordinate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coord, s.ready
}

// ObserveMotion replaces the latest motion reading.
func (s *Session) ObserveMotion(m sensor.MotionReading) {
	s.mu.Lock()
	s.motion = m
	s.haveMotion = true
	s.mu.Unlock()
}

// ObserveCompass replaces the latest compass reading.
func (s *Session) ObserveCompass(c sensor.CompassReading) {
	s.mu.Lock()
	s.compass = c
	s.haveCompass = true
	s.mu.Unlock()
}

// Current fuses the latest readings and looks the heading up in the solar
// table. ok is false until the table is built and both streams have
// delivered at least once; that absence is a normal transient, not an error.
// The entry is nil when the sun never crosses the current heading today.
func (s *Session) Current() (est orientation.Estimate, entry *solartable.Entry, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready || !s.haveMotion || !s.haveCompass {
		return orientation.Estimate{}, nil, false
	}
	est = orientation.Fuse(s.motion, s.compass)
	return est, s.table.Lookup(est.Heading), true
}
