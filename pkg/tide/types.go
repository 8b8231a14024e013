package tide

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spencer-p/beachdash/pkg/table"
	"github.com/spencer-p/beachdash/pkg/timetricks"
)

const (
	// LowWater is the reference height of every low water, in metres.
	LowWater = 0.9
	// DefaultMaxHeight is used when a day has no usable maximum height.
	DefaultMaxHeight = 5.3
)

var hourPattern = regexp.MustCompile(`(\d{1,2})\s*[hH:]\s*(\d{0,2})`)

// Day holds one calendar day of tide extrema. Any extremum may be nil when it
// does not occur that day.
type Day struct {
	Date time.Time `json:"date"`

	Low1  *float64 `json:"low1"`
	High1 *float64 `json:"high1"`
	Low2  *float64 `json:"low2"`
	High2 *float64 `json:"high2"`

	// Height of high water in metres.
	MaxHeight float64 `json:"max_height"`
}

// Trend encodes a rising or falling tide.
type Trend bool

const (
	Rising  Trend = true
	Falling Trend = false
)

func (t Trend) Arrow() string {
	if t == Rising {
		return "↗"
	}
	return "↘"
}

func (t Trend) Label() string {
	if t == Rising {
		return "rising"
	}
	return "falling"
}

func (t Trend) String() string {
	return t.Label() + " " + t.Arrow()
}

// Reading is the estimated water level at an instant.
type Reading struct {
	Height float64
	Trend  Trend
}

func (r Reading) String() string {
	return fmt.Sprintf("%s at %.1fm", r.Trend, r.Height)
}

// State is the coarse low/mid/high classification of the tide.
type State string

const (
	Low  State = "low"
	Mid  State = "mid"
	High State = "high"
)

// ParseHour extracts a time of day from text such as "6h40", "06 h 40" or
// "17:59". It returns nil when no valid time is found.
func ParseHour(s string) *float64 {
	m := hourPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	h, err := strconv.Atoi(m[1])
	if err != nil || h > 23 {
		return nil
	}
	minute := 0
	if m[2] != "" {
		if minute, err = strconv.Atoi(m[2]); err != nil || minute > 59 {
			return nil
		}
	}
	hour := float64(h) + float64(minute)/60
	return &hour
}

// DayFromRow reads a row of the tides sheet. Dates are read in loc.
func DayFromRow(row table.Row, loc *time.Location) (Day, error) {
	rawDate := row.Get("date", "Date")
	if rawDate == "" {
		return Day{}, fmt.Errorf("tide row has no date")
	}
	date, err := timetricks.ParseDay(rawDate, loc)
	if err != nil {
		return Day{}, fmt.Errorf("tide date %q not in fmt YYYY-MM-DD: %w", rawDate, err)
	}

	return Day{
		Date:      date,
		Low1:      ParseHour(row.Get("bm1_heure", "bm1", "low1")),
		High1:     ParseHour(row.Get("pm1_heure", "pm1", "high1")),
		Low2:      ParseHour(row.Get("bm2_heure", "bm2", "low2")),
		High2:     ParseHour(row.Get("pm2_heure", "pm2", "high2")),
		MaxHeight: parseMaxHeight(row.Get("hauteur_max", "max_height")),
	}, nil
}

func parseMaxHeight(s string) float64 {
	h, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return DefaultMaxHeight
	}
	return h
}

// Calendar is the ordered list of days read from the tides sheet.
type Calendar []Day

// CalendarFromRows reads every row of the tides sheet. Rows without a date
// are skipped, but a row with an unreadable date fails the whole calendar.
func CalendarFromRows(rows []table.Row, loc *time.Location) (Calendar, error) {
	cal := make(Calendar, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.Get("date", "Date")) == "" {
			continue
		}
		d, err := DayFromRow(row, loc)
		if err != nil {
			return nil, fmt.Errorf("tide row %d: %w", i+1, err)
		}
		cal = append(cal, d)
	}
	return cal, nil
}

// Lookup finds the day that t falls on.
func (c Calendar) Lookup(t time.Time) (Day, bool) {
	for _, d := range c {
		if timetricks.SameDay(d.Date, t) {
			return d, true
		}
	}
	return Day{}, false
}

// At is like Lookup, but a missing day yields a day without extrema so that
// callers always get the degenerate reading instead of nothing.
func (c Calendar) At(t time.Time) Day {
	if d, ok := c.Lookup(t); ok {
		return d
	}
	return Day{Date: timetricks.TrimClock(t), MaxHeight: DefaultMaxHeight}
}

// Reading estimates the water level at t.
func (c Calendar) Reading(t time.Time) Reading {
	return HeightAndTrend(c.At(t), timetricks.DecimalHour(t))
}
