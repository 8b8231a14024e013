package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spencer-p/beachdash/pkg/geo"
)

// Cause is why a position could not be obtained.
type Cause int

const (
	PermissionDenied Cause = iota + 1
	PositionUnavailable
	Timeout
)

var causeNames = map[string]Cause{
	"permission_denied":    PermissionDenied,
	"position_unavailable": PositionUnavailable,
	"unavailable":          PositionUnavailable,
	"timeout":              Timeout,
}

// ParseCause reads a cause as reported by a client.
func ParseCause(s string) (Cause, error) {
	if c, ok := causeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown geolocation error %q", s)
}

// GeolocationError is a failed position request. Its message is meant for the
// viewer.
type GeolocationError struct {
	Cause Cause
}

func (e *GeolocationError) Error() string {
	switch e.Cause {
	case PermissionDenied:
		return "you refused access to your position"
	case PositionUnavailable:
		return "position unavailable"
	case Timeout:
		return "the location request timed out"
	default:
		return "geolocation error"
	}
}

// Fix is one delivery from a location source: a position or an error.
type Fix struct {
	Point geo.Point
	Err   error
}

// Tracker feeds a stream of fixes into a session. Each position replaces the
// last one and triggers onUpdate; there is no ordering beyond that.
type Tracker struct {
	session  *Session
	onUpdate func(geo.Point)
	stop     chan struct{}
	once     sync.Once
}

func NewTracker(s *Session, onUpdate func(geo.Point)) *Tracker {
	return &Tracker{
		session:  s,
		onUpdate: onUpdate,
		stop:     make(chan struct{}),
	}
}

// Run consumes fixes until ctx is done, Stop is called, fixes is closed or a
// fix carries an error, which Run returns. Tracking is off when Run returns.
func (t *Tracker) Run(ctx context.Context, fixes <-chan Fix) error {
	t.session.SetTracking(true)
	defer t.session.SetTracking(false)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.stop:
			return nil
		case f, ok := <-fixes:
			if !ok {
				return nil
			}
			if err := t.session.Deliver(f); err != nil {
				return err
			}
			if t.onUpdate != nil {
				t.onUpdate(f.Point)
			}
		}
	}
}

// Stop ends Run. It may be called more than once.
func (t *Tracker) Stop() {
	t.once.Do(func() { close(t.stop) })
}
