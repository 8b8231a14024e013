// Package beaches types the rows of the beaches, recommendations and weather
// sheets and joins them into the records the map shows.
package beaches

import (
	"math"
	"strconv"
	"strings"

	"github.com/spencer-p/beachdash/pkg/geo"
	"github.com/spencer-p/beachdash/pkg/score"
	"github.com/spencer-p/beachdash/pkg/table"
)

// Beach is one row of the beaches sheet, enriched with its recommendation and
// the distance to the user once those are known.
type Beach struct {
	Name      string  `json:"name" csv:"name"`
	Latitude  float64 `json:"lat" csv:"lat"`
	Longitude float64 `json:"lon" csv:"lon"`

	IdealTides    score.TideSet `json:"-" csv:"-"`
	IdealTideText string        `json:"ideal_tide" csv:"ideal_tide"`
	// Compass text for the direction the beach faces, e.g. "SO".
	Orientation string `json:"orientation" csv:"orientation"`

	// Set by a join with the recommendations sheet. An empty color means the
	// sheet has no color for this beach.
	RecommendationColor score.Color `json:"recommendation_color,omitempty" csv:"recommendation_color,omitempty"`
	RecommendationScore *float64    `json:"recommendation_score,omitempty" csv:"recommendation_score,omitempty"`

	// Set by AnnotateDistances.
	DistanceKm *float64 `json:"distance_km,omitempty" csv:"distance_km,omitempty"`
}

// Point is the beach's coordinate.
func (b *Beach) Point() geo.Point {
	return geo.Point{Lat: b.Latitude, Lon: b.Longitude}
}

// HasCoordinates reports whether the beach can be placed on a map.
func (b *Beach) HasCoordinates() bool {
	return b.Point().Valid()
}

// Facing is the beach's orientation in degrees, or nil if unknown.
func (b *Beach) Facing() *float64 {
	return score.ParseBearing(b.Orientation)
}

// FromRows reads the beaches sheet. Rows with unusable coordinates are kept,
// with NaN coordinates if unparseable, so that row positions still line up
// with the recommendations sheet.
func FromRows(rows []table.Row) []Beach {
	result := make([]Beach, len(rows))
	for i, row := range rows {
		ideal := row.Get("Marée idéale", "maree_ideale", "ideal_tide")
		result[i] = Beach{
			Name:          row.Get("Nom", "nom", "Name", "name"),
			Latitude:      parseFloat(row.Get("Latitude", "latitude", "lat")),
			Longitude:     parseFloat(row.Get("Longitude", "longitude", "lon")),
			IdealTides:    score.ParseTideSet(ideal),
			IdealTideText: ideal,
			Orientation:   row.Get("Orientation", "orientation"),
		}
	}
	return result
}

// Clone copies the beach slice so distances can be annotated without touching
// a shared dataset.
func Clone(bs []Beach) []Beach {
	return append([]Beach(nil), bs...)
}

// AnnotateDistances sets the distance from p on every beach that has
// coordinates and returns how many were set. Each call recomputes every
// distance.
func AnnotateDistances(bs []Beach, p geo.Point) int {
	n := 0
	for i := range bs {
		if !bs[i].HasCoordinates() {
			bs[i].DistanceKm = nil
			continue
		}
		d := geo.DistanceKm(p, bs[i].Point())
		bs[i].DistanceKm = &d
		n++
	}
	return n
}

// parseFloat accepts a decimal comma. Unparseable input is NaN.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseOptional(s string) *float64 {
	f := parseFloat(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
