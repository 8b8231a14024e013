// Package session holds what one viewer of the map has selected: the instant
// every tide and score is computed for, and the viewer's position.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spencer-p/beachdash/pkg/geo"
	"github.com/spencer-p/beachdash/pkg/timetricks"
)

// Session is safe for use from a clock or tracker goroutine alongside its
// owner.
type Session struct {
	mu       sync.Mutex
	loc      *time.Location
	now      func() time.Time
	pinned   *time.Time
	position *geo.Point
	tracking bool
}

// New starts a live session in loc.
func New(loc *time.Location) *Session {
	return NewWithClock(loc, time.Now)
}

// NewWithClock is like New with the wall clock factored out.
func NewWithClock(loc *time.Location, now func() time.Time) *Session {
	return &Session{loc: loc, now: now}
}

func (s *Session) Location() *time.Location {
	return s.loc
}

// Instant is the pinned instant, or the current time when live.
func (s *Session) Instant() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instant()
}

func (s *Session) instant() time.Time {
	if s.pinned != nil {
		return *s.pinned
	}
	return s.now().In(s.loc)
}

// Pinned reports whether the session is fixed to a chosen instant.
func (s *Session) Pinned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinned != nil
}

// Pin fixes the session to the given calendar day at hour:00.
func (s *Session) Pin(day time.Time, hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour %d out of range 0-23", hour)
	}
	y, m, d := day.In(s.loc).Date()
	s.PinAt(time.Date(y, m, d, hour, 0, 0, 0, s.loc))
	return nil
}

// PinAt fixes the session to t.
func (s *Session) PinAt(t time.Time) {
	t = t.In(s.loc)
	s.mu.Lock()
	s.pinned = &t
	s.mu.Unlock()
}

// Unpin returns the session to the live clock.
func (s *Session) Unpin() {
	s.mu.Lock()
	s.pinned = nil
	s.mu.Unlock()
}

// Day is the calendar day of the current instant, "YYYY-MM-DD".
func (s *Session) Day() string {
	return timetricks.DayKey(s.Instant())
}

// Position is the viewer's last known position.
func (s *Session) Position() (geo.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.position == nil {
		return geo.Point{}, false
	}
	return *s.position, true
}

func (s *Session) SetPosition(p geo.Point) {
	s.mu.Lock()
	s.position = &p
	s.mu.Unlock()
}

func (s *Session) ClearPosition() {
	s.mu.Lock()
	s.position = nil
	s.mu.Unlock()
}

// Tracking reports whether live location tracking is on.
func (s *Session) Tracking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracking
}

func (s *Session) SetTracking(on bool) {
	s.mu.Lock()
	s.tracking = on
	s.mu.Unlock()
}

// Deliver applies one location fix. A failed fix ends tracking and returns
// its error; the last good position is kept.
func (s *Session) Deliver(f Fix) error {
	if f.Err != nil {
		s.SetTracking(false)
		return f.Err
	}
	s.SetPosition(f.Point)
	return nil
}

// Run calls fn with the current instant every interval while the session is
// live, until ctx is done. Ticks are skipped while pinned.
func (s *Session) Run(ctx context.Context, interval time.Duration, fn func(time.Time)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.Pinned() {
				continue
			}
			fn(s.Instant())
		}
	}
}
