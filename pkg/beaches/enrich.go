package beaches

import (
	"fmt"
	"strings"
	"time"

	"github.com/spencer-p/beachdash/pkg/score"
	"github.com/spencer-p/beachdash/pkg/table"
	"github.com/spencer-p/beachdash/pkg/tide"
)

// Recommendation is one row of the recommendations sheet.
type Recommendation struct {
	Name  string
	Color score.Color
	Score *float64
}

// RecommendationsFromRows reads the recommendations sheet.
func RecommendationsFromRows(rows []table.Row) []Recommendation {
	result := make([]Recommendation, len(rows))
	for i, row := range rows {
		r := Recommendation{
			Name:  row.Get("Nom", "nom", "Plage", "plage", "Name", "name"),
			Score: parseOptional(row.Get("SCORE_FINAL", "score_final", "score")),
		}
		if c := row.Get("couleur", "Couleur", "color"); c != "" {
			r.Color = score.ForName(c)
		}
		result[i] = r
	}
	return result
}

// JoinMode selects how recommendation rows are matched to beaches.
type JoinMode string

const (
	// ByPosition gives row i of the recommendations to beach i. The sheets
	// must be kept parallel; names are not checked.
	ByPosition JoinMode = "position"
	// ByName matches on beach name and fails on any unmatched row.
	ByName JoinMode = "name"
)

func ParseJoinMode(s string) (JoinMode, error) {
	switch m := JoinMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ByPosition, ByName:
		return m, nil
	case "":
		return ByPosition, nil
	default:
		return "", fmt.Errorf("unknown join mode %q", s)
	}
}

// JoinByPosition copies recommendation i onto beach i, in place. Extra
// recommendations are ignored and beaches without one are left alone.
func JoinByPosition(bs []Beach, recs []Recommendation) {
	for i := range bs {
		if i >= len(recs) {
			return
		}
		bs[i].RecommendationColor = recs[i].Color
		bs[i].RecommendationScore = recs[i].Score
	}
}

// UnmatchedError is returned by JoinByName for a recommendation that names no
// beach.
type UnmatchedError struct {
	Row  int
	Name string
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("recommendation row %d (%q) matches no beach", e.Row, e.Name)
}

// JoinByName copies each recommendation onto the beach of the same name
// (case-insensitive), in place.
func JoinByName(bs []Beach, recs []Recommendation) error {
	byName := make(map[string]int, len(bs))
	for i := range bs {
		byName[nameKey(bs[i].Name)] = i
	}
	for i, r := range recs {
		j, ok := byName[nameKey(r.Name)]
		if !ok || r.Name == "" {
			return &UnmatchedError{Row: i + 1, Name: r.Name}
		}
		bs[j].RecommendationColor = r.Color
		bs[j].RecommendationScore = r.Score
	}
	return nil
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Weather is the single current weather snapshot. Unknown values are nil.
type Weather struct {
	// Degrees the wind blows from.
	WindDirection *float64 `json:"wind_direction"`
	WindSpeedKmh  *float64 `json:"wind_speed_kmh"`
	TemperatureC  *float64 `json:"temperature_c"`
}

// WeatherFromRows reads the first row of the weather sheet.
func WeatherFromRows(rows []table.Row) Weather {
	if len(rows) == 0 {
		return Weather{}
	}
	row := rows[0]
	return Weather{
		WindDirection: score.ParseBearing(row.Get("direction_vent", "wind_direction")),
		WindSpeedKmh:  parseOptional(row.Get("vitesse_vent", "force_vent_kmh", "wind_speed")),
		TemperatureC:  parseOptional(row.Get("temperature", "temperature_c", "température")),
	}
}

// Tables holds the parsed rows of each sheet.
type Tables struct {
	Beaches         []table.Row
	Weather         []table.Row
	Tides           []table.Row
	Recommendations []table.Row
}

// Dataset is everything the map needs, loaded at once. It is not modified
// after Build returns.
type Dataset struct {
	Beaches  []Beach
	Weather  Weather
	Tides    tide.Calendar
	LoadedAt time.Time
}

// DataError reports a sheet that could not be loaded or understood. Nothing
// is shown when one occurs.
type DataError struct {
	Sheet string
	Err   error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("cannot load %s sheet: %v", e.Sheet, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Build types and joins the sheets. Tide dates are read in loc.
func Build(t Tables, mode JoinMode, loc *time.Location) (*Dataset, error) {
	bs := FromRows(t.Beaches)
	recs := RecommendationsFromRows(t.Recommendations)
	switch mode {
	case ByName:
		if err := JoinByName(bs, recs); err != nil {
			return nil, &DataError{Sheet: "recommendations", Err: err}
		}
	default:
		JoinByPosition(bs, recs)
	}

	cal, err := tide.CalendarFromRows(t.Tides, loc)
	if err != nil {
		return nil, &DataError{Sheet: "tides", Err: err}
	}

	return &Dataset{
		Beaches:  bs,
		Weather:  WeatherFromRows(t.Weather),
		Tides:    cal,
		LoadedAt: time.Now(),
	}, nil
}
