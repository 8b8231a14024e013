// Package meta combines a loaded dataset with the instant being viewed into
// what the map and charts display.
package meta

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/metrics"
	"github.com/spencer-p/beachdash/pkg/score"
	"github.com/spencer-p/beachdash/pkg/sunset"
	"github.com/spencer-p/beachdash/pkg/tide"
	"github.com/spencer-p/beachdash/pkg/timetricks"
)

var notFound = errors.New("not found")

// ErrUnknownBeach is returned when a beach is asked for by a name the dataset
// does not have.
var ErrUnknownBeach = errors.New("unknown beach")

// Conditions is the set of data we can perform meta analysis on.
type Conditions struct {
	Data    *beaches.Dataset
	Instant time.Time
	Place   sunset.Place
}

// Popup is the tide summary shown when a marker is opened.
type Popup struct {
	IdealTide     string  `json:"ideal_tide"`
	CurrentHeight float64 `json:"current_height_m"`
	TrendArrow    string  `json:"trend_arrow"`
	TrendLabel    string  `json:"trend_label"`
	MaxHigh       float64 `json:"max_high"`
	MaxLow        float64 `json:"max_low"`
}

// Marker is one beach as placed on the map.
type Marker struct {
	Name       string       `json:"name"`
	Lat        float64      `json:"lat"`
	Lon        float64      `json:"lon"`
	Color      score.Color  `json:"color"`
	Hex        string       `json:"hex"`
	Score      float64      `json:"score"`
	Source     score.Source `json:"source"`
	DistanceKm *float64     `json:"distance_km,omitempty"`
	Popup      Popup        `json:"popup"`
}

// Rate scores b at t against the dataset's weather.
func Rate(b *beaches.Beach, w beaches.Weather, t time.Time) score.Result {
	return score.Resolve(string(b.RecommendationColor), b.RecommendationScore, computed(b, w, t))
}

func computed(b *beaches.Beach, w beaches.Weather, t time.Time) float64 {
	return score.Composite(
		score.WindScore(b.Facing(), w.WindDirection),
		score.TideScore(b.IdealTides, tide.CoarseState(t)))
}

// PopupFor summarises the tide for b at t.
func PopupFor(b *beaches.Beach, day tide.Day, t time.Time) Popup {
	r := tide.HeightAndTrend(day, timetricks.DecimalHour(t))
	return Popup{
		IdealTide:     b.IdealTideText,
		CurrentHeight: round1(r.Height),
		TrendArrow:    r.Trend.Arrow(),
		TrendLabel:    r.Trend.Label(),
		MaxHigh:       round1(day.MaxHeight),
		MaxLow:        tide.LowWater,
	}
}

// Markers builds a marker for every beach that can be placed on a map. Beaches
// with unusable coordinates are skipped and logged. bs may carry distances and
// defaults to the dataset's beaches.
func Markers(c Conditions, bs []beaches.Beach) []Marker {
	if bs == nil {
		bs = c.Data.Beaches
	}
	day := c.Data.Tides.At(c.Instant)

	result := make([]Marker, 0, len(bs))
	for i := range bs {
		b := &bs[i]
		if !b.HasCoordinates() {
			log.Warn().
				Str("beach", b.Name).
				Float64("lat", b.Latitude).
				Float64("lon", b.Longitude).
				Msg("Skipping beach with invalid coordinates")
			metrics.ObserveSkippedBeach()
			continue
		}
		r := Rate(b, c.Data.Weather, c.Instant)
		result = append(result, Marker{
			Name:       b.Name,
			Lat:        b.Latitude,
			Lon:        b.Longitude,
			Color:      r.Color,
			Hex:        r.Color.Hex(),
			Score:      r.Score,
			Source:     r.Source,
			DistanceKm: b.DistanceKm,
			Popup:      PopupFor(b, day, c.Instant),
		})
	}
	return result
}

// SortByDistance orders markers nearest first. Markers without a distance
// keep their relative order after the rest.
func SortByDistance(ms []Marker) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i].DistanceKm, ms[j].DistanceKm
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// Chart is the tide curve of one day, with its daylight band.
type Chart struct {
	Date    string        `json:"date"`
	Labels  []string      `json:"labels"`
	Heights []float64     `json:"heights"`
	Sunrise time.Time     `json:"sunrise"`
	Sunset  time.Time     `json:"sunset"`
	Samples []tide.Sample `json:"-"`
	Day     tide.Day      `json:"-"`
}

// ChartFor builds the chart of the day containing c.Instant.
func ChartFor(c Conditions) Chart {
	day := c.Data.Tides.At(c.Instant)
	samples := tide.Curve(day)
	labels, heights := tide.Series(samples)
	rise, set := sunset.Daylight(c.Instant, c.Place)
	return Chart{
		Date:    timetricks.DayKey(c.Instant),
		Labels:  labels,
		Heights: heights,
		Sunrise: rise,
		Sunset:  set,
		Samples: samples,
		Day:     day,
	}
}

// Find returns the beach named name, ignoring case.
func Find(bs []beaches.Beach, name string) (*beaches.Beach, error) {
	for i := range bs {
		if equalFold(bs[i].Name, name) {
			return &bs[i], nil
		}
	}
	return nil, ErrUnknownBeach
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// Returns last event before time t, or an error if there is none.
func indexOfLastEventBefore(t time.Time, events sunset.SunEvents) (int, error) {
	// Remember, sort.Search finds the FIRST element. We have to reverse the
	// index.
	n := len(events)
	revi := sort.Search(n, func(revtesti int) bool {
		testi := n - 1 - revtesti
		return events[testi].Time.Before(t)
	})
	result := n - 1 - revi
	if result < 0 || result >= n {
		// no element found
		return -1, notFound
	}
	return result, nil
}
