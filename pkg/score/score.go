// Package score rates how good a beach is at an instant and maps ratings to
// the four color tiers shown on the map.
package score

import (
	"math"
	"sort"
	"strings"

	"github.com/spencer-p/beachdash/pkg/tide"
)

const (
	// SunScore is the fixed sunshine factor until a sun model exists.
	SunScore = 8.0

	windWeight = 0.5
	tideWeight = 0.3
	sunWeight  = 0.2

	neutralWind = 5.0
)

// Color is a recommendation tier.
type Color string

const (
	Green  Color = "green"
	Blue   Color = "blue"
	Orange Color = "orange"
	Red    Color = "red"
)

var palette = map[Color]string{
	Green:  "#4caf50",
	Blue:   "#2196f3",
	Orange: "#ff9800",
	Red:    "#f44336",
}

// Hex is the marker fill for c.
func (c Color) Hex() string {
	return palette[c]
}

// ForScore maps a 0-100 score to a tier. Each threshold belongs to the
// higher tier.
func ForScore(score float64) Color {
	switch {
	case score >= 75:
		return Green
	case score >= 60:
		return Blue
	case score >= 40:
		return Orange
	default:
		return Red
	}
}

var colorNames = map[string]Color{
	"vert":   Green,
	"green":  Green,
	"bleu":   Blue,
	"blue":   Blue,
	"orange": Orange,
	"rouge":  Red,
	"red":    Red,
}

// ForName maps a color name from the recommendations sheet. Unknown names are
// blue.
func ForName(name string) Color {
	if c, ok := colorNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return Blue
}

// TideSet is the set of coarse tide states a beach is good at.
type TideSet map[tide.State]struct{}

var tideWords = map[string][]tide.State{
	"basse":  {tide.Low},
	"low":    {tide.Low},
	"mi":     {tide.Mid},
	"mid":    {tide.Mid},
	"haute":  {tide.High},
	"high":   {tide.High},
	"toutes": {tide.Low, tide.Mid, tide.High},
	"all":    {tide.Low, tide.Mid, tide.High},
}

// ParseTideSet reads free text such as "haute, mi" or "low|mid". Words it does
// not know are ignored.
func ParseTideSet(s string) TideSet {
	set := TideSet{}
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return strings.ContainsRune(" ,;|/+-[]\"'", r)
	})
	for _, w := range words {
		for _, st := range tideWords[w] {
			set[st] = struct{}{}
		}
	}
	return set
}

func (s TideSet) Has(st tide.State) bool {
	_, ok := s[st]
	return ok
}

func (s TideSet) String() string {
	names := make([]string, 0, len(s))
	for st := range s {
		names = append(names, string(st))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// TideScore rates the current coarse state against a beach's preferred tides.
func TideScore(ideal TideSet, state tide.State) float64 {
	switch {
	case ideal.Has(state):
		return 10
	case len(ideal) == 3:
		return 9
	default:
		return 5
	}
}

// WindScore rates how sheltered a beach facing the bearing facing is from a
// wind blowing from windFrom, both in degrees. Offshore wind (blowing from
// behind the beach) scores 10 and onshore wind scores 0, linearly in the angle
// between them. Unknown bearings score a neutral 5.
func WindScore(facing, windFrom *float64) float64 {
	if facing == nil || windFrom == nil {
		return neutralWind
	}
	return 10 * AngularDistance(*facing, *windFrom) / 180
}

// AngularDistance is the smaller angle between two bearings, in [0,180].
func AngularDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Composite blends the wind, tide and sun factors into a 0-100 score.
func Composite(wind, tide float64) float64 {
	return (wind*windWeight + tide*tideWeight + SunScore*sunWeight) * 10
}

// Source records where a beach's color came from.
type Source string

const (
	FromRecommendation   Source = "recommendation"
	FromRecommendedScore Source = "recommended_score"
	Computed             Source = "computed"
)

// Result is a resolved rating.
type Result struct {
	Color  Color   `json:"color"`
	Score  float64 `json:"score"`
	Source Source  `json:"source"`
}

// Resolve picks a beach's color. A color name from the recommendations sheet
// wins outright; a recommended score comes next; the locally computed score is
// used only when the sheet has nothing for the beach.
func Resolve(recColor string, recScore *float64, computed float64) Result {
	score := computed
	if recScore != nil {
		score = *recScore
	}
	switch {
	case strings.TrimSpace(recColor) != "":
		return Result{Color: ForName(recColor), Score: score, Source: FromRecommendation}
	case recScore != nil:
		return Result{Color: ForScore(*recScore), Score: score, Source: FromRecommendedScore}
	default:
		return Result{Color: ForScore(computed), Score: computed, Source: Computed}
	}
}
