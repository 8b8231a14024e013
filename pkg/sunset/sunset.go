package sunset

import (
	"math"
	"time"

	"github.com/spencer-p/beachdash/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// GetSunEvents returns a list of ordered sun events from the starting time to
// the end time in the given place. The first result will always be a sunrise.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	s := around(start, place)

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, numDays*2)
	for i := 0; i < numDays*2; i += 2 {
		ret[i] = SunEvent{s.Sunrise(), Sunrise}
		ret[i+1] = SunEvent{s.Sunset(), Sunset}
		s.AddDays(1)
	}
	return ret
}

// Daylight returns the sunrise and sunset on the calendar day of t.
func Daylight(t time.Time, place Place) (rise, set time.Time) {
	s := around(t, place)
	return s.Sunrise(), s.Sunset()
}

// around positions s on the day of t in place's time zone. The sunrise package
// is not very clean with its dates, so it can land a day off either way.
func around(t time.Time, place Place) sunrise.Sunrise {
	t = t.In(place.Location)
	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, t)
	for i := 0; i < 3 && !timetricks.SameDay(t, s.Sunrise().In(place.Location)); i++ {
		if s.Sunrise().Before(t) {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}
	return s
}
