package meta

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/score"
	"github.com/spencer-p/beachdash/pkg/sunset"
	"github.com/spencer-p/beachdash/pkg/tide"
	"github.com/spencer-p/beachdash/pkg/timetricks"
)

const (
	timeFmt = "3:04 PM"

	defaultDays = 3
	maxDays     = 14
)

// GoodTime represents a good time to go to a beach.
type GoodTime struct {
	Beach    string        `json:"beach,omitempty"`
	Color    score.Color   `json:"color,omitempty"`
	Time     time.Time     `json:"time"`
	Reasons  []string      `json:"reasons"`
	Duration time.Duration `json:"duration,omitempty"`

	// PrettyTime is a human-readable version of the time, relative to the
	// current date. Optional.
	PrettyTime string `json:"pretty_time,omitempty"`
}

func (gt *GoodTime) String() string {
	where := ""
	if gt.Beach != "" {
		where = gt.Beach + ", "
	}
	return fmt.Sprintf("%s%s, %s",
		where,
		gt.prettyTime(),
		strings.Join(gt.Reasons, " and "))
}

func (gt *GoodTime) prettyTime() string {
	day := timetricks.Day(gt.Time)

	until := ""
	if gt.Duration != 0 {
		until = fmt.Sprintf(" until %s", gt.Time.Add(gt.Duration).Format(timeFmt))
	}

	return fmt.Sprintf("%s at %s%s",
		day,
		gt.Time.Format(timeFmt),
		until)
}

// UpdatePrettyTime makes sure that the good time's pretty time is set.
func (gt *GoodTime) UpdatePrettyTime() {
	if gt.PrettyTime == "" {
		gt.PrettyTime = gt.prettyTime()
	}
}

func (gt *GoodTime) MarshalJSON() ([]byte, error) {
	// Fill in pretty time if needed.
	gt.UpdatePrettyTime()
	// Dereference is necessary to avoid infinite loop; this method
	// only has pointer receiver.
	return json.Marshal(*gt)
}

// Options narrow a good times search.
type Options struct {
	// Beach limits the search to one beach. Empty means all.
	Beach string
	// Days to scan from the instant. Defaults to 3, at most 14.
	Days int
}

func (o Options) days() int {
	switch {
	case o.Days <= 0:
		return defaultDays
	case o.Days > maxDays:
		return maxDays
	default:
		return o.Days
	}
}

// GoodTimes scans each beach hour by hour from the start of c.Instant's hour
// and reports the daylight windows where its computed rating is green or
// blue. The recommendations sheet only describes the present, so it plays no
// part here.
func GoodTimes(c Conditions, opts Options) ([]GoodTime, error) {
	bs := c.Data.Beaches
	if opts.Beach != "" {
		b, err := Find(bs, opts.Beach)
		if err != nil {
			return nil, err
		}
		bs = []beaches.Beach{*b}
	}

	start := startOfHour(c.Instant)
	hours := opts.days() * 24
	events := sunset.GetSunEvents(timetricks.TrimClock(start),
		time.Duration(opts.days()+1)*24*time.Hour, c.Place)

	result := []GoodTime{}
	for i := range bs {
		b := &bs[i]
		var open *GoodTime
		for h := 0; h < hours; h++ {
			t := start.Add(time.Duration(h) * time.Hour)
			color := score.ForScore(computed(b, c.Data.Weather, t))
			good := daylight(t, events) && (color == score.Green || color == score.Blue)

			switch {
			case good && open == nil:
				open = &GoodTime{
					Beach:   b.Name,
					Color:   color,
					Time:    t,
					Reasons: reasons(b, c.Data.Weather, t),
				}
			case good:
				if color == score.Green {
					open.Color = score.Green
				}
			case open != nil:
				open.Duration = t.Sub(open.Time)
				result = append(result, *open)
				open = nil
			}
		}
		if open != nil {
			open.Duration = start.Add(time.Duration(hours) * time.Hour).Sub(open.Time)
			result = append(result, *open)
		}
	}
	return result, nil
}

// startOfHour truncates t to the hour on its local wall clock, which differs
// from t.Truncate in zones offset by a fraction of an hour.
func startOfHour(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
}

// daylight reports whether the sun is up at t.
func daylight(t time.Time, events sunset.SunEvents) bool {
	i, err := indexOfLastEventBefore(t, events)
	return err == nil && events[i].Event == sunset.Sunrise
}

func reasons(b *beaches.Beach, w beaches.Weather, t time.Time) []string {
	state := tide.CoarseState(t)
	var rs []string
	if b.IdealTides.Has(state) {
		rs = append(rs, fmt.Sprintf("the tide is %s", state))
	}
	switch ws := score.WindScore(b.Facing(), w.WindDirection); {
	case b.Facing() == nil || w.WindDirection == nil:
	case ws >= 7.5:
		rs = append(rs, "the wind is offshore")
	case ws >= 2.5:
		rs = append(rs, "the wind is cross-shore")
	}
	if len(rs) == 0 {
		rs = append(rs, "conditions are fair")
	}
	return rs
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
