package meta

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/geo"
	"github.com/spencer-p/beachdash/pkg/score"
	"github.com/spencer-p/beachdash/pkg/sunset"
	"github.com/spencer-p/beachdash/pkg/tide"
)

func f(x float64) *float64 { return &x }

func testBeaches() []beaches.Beach {
	return []beaches.Beach{{
		Name:          "Les Grands Sables",
		Latitude:      47.6254,
		Longitude:     -3.4236,
		IdealTides:    score.ParseTideSet("mi"),
		IdealTideText: "mi",
		Orientation:   "E",
	}, {
		Name:      "Nowhere",
		Latitude:  0,
		Longitude: 0,
	}, {
		Name:                "Locmaria",
		Latitude:            47.6231,
		Longitude:           -3.4427,
		IdealTides:          score.ParseTideSet("haute"),
		IdealTideText:       "haute",
		Orientation:         "S",
		RecommendationColor: score.Red,
	}}
}

func testConditions() Conditions {
	july14 := time.Date(2026, time.July, 14, 0, 0, 0, 0, sunset.Groix.Location)
	return Conditions{
		Data: &beaches.Dataset{
			Beaches: testBeaches(),
			Weather: beaches.Weather{WindDirection: f(270)},
			Tides: tide.Calendar{{
				Date:      july14,
				Low1:      f(6),
				High1:     f(12),
				Low2:      f(18),
				MaxHeight: 5.3,
			}},
		},
		Instant: july14.Add(9 * time.Hour),
		Place:   sunset.Groix,
	}
}

func TestMarkers(t *testing.T) {
	c := testConditions()
	bs := beaches.Clone(c.Data.Beaches)
	beaches.AnnotateDistances(bs, geo.Point{Lat: 47.6389, Lon: -3.4523})

	got := Markers(c, bs)

	popup := Popup{
		CurrentHeight: 3.1,
		TrendArrow:    "↗",
		TrendLabel:    "rising",
		MaxHigh:       5.3,
		MaxLow:        0.9,
	}
	sables, locmaria := popup, popup
	sables.IdealTide = "mi"
	locmaria.IdealTide = "haute"

	want := []Marker{{
		Name:       "Les Grands Sables",
		Lat:        47.6254,
		Lon:        -3.4236,
		Color:      score.Green,
		Hex:        score.Green.Hex(),
		Score:      96,
		Source:     score.Computed,
		DistanceKm: bs[0].DistanceKm,
		Popup:      sables,
	}, {
		// Wind from the west is cross-shore on a south facing beach and
		// the tide is not high. The sheet says red regardless.
		Name:       "Locmaria",
		Lat:        47.6231,
		Lon:        -3.4427,
		Color:      score.Red,
		Hex:        score.Red.Hex(),
		Score:      56,
		Source:     score.FromRecommendation,
		DistanceKm: bs[2].DistanceKm,
		Popup:      locmaria,
	}}

	if diff := cmp.Diff(got, want, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("markers (-got,+want):\n%s", diff)
	}
}

func TestMarkersDefaultToDataset(t *testing.T) {
	got := Markers(testConditions(), nil)
	if len(got) != 2 {
		t.Fatalf("got %d markers, want 2", len(got))
	}
	for _, m := range got {
		if m.DistanceKm != nil {
			t.Errorf("%s has a distance without a position", m.Name)
		}
	}
}

func TestMissingTideDay(t *testing.T) {
	c := testConditions()
	c.Instant = c.Instant.AddDate(0, 1, 0)
	got := Markers(c, nil)[0].Popup
	want := Popup{
		IdealTide:     "mi",
		CurrentHeight: 2.65,
		TrendArrow:    "↗",
		TrendLabel:    "rising",
		MaxHigh:       5.3,
		MaxLow:        0.9,
	}
	if diff := cmp.Diff(got, want, cmpopts.EquateApprox(0, 0.06)); diff != "" {
		t.Errorf("popup (-got,+want):\n%s", diff)
	}
}

func TestSortByDistance(t *testing.T) {
	ms := []Marker{
		{Name: "far", DistanceKm: f(5)},
		{Name: "unknown"},
		{Name: "near", DistanceKm: f(1)},
	}
	SortByDistance(ms)
	var got []string
	for _, m := range ms {
		got = append(got, m.Name)
	}
	if diff := cmp.Diff(got, []string{"near", "far", "unknown"}); diff != "" {
		t.Errorf("order (-got,+want):\n%s", diff)
	}
}

func TestChartFor(t *testing.T) {
	c := testConditions()
	got := ChartFor(c)

	if got.Date != "2026-07-14" {
		t.Errorf("date = %s", got.Date)
	}
	if len(got.Labels) != 49 || len(got.Heights) != 49 {
		t.Fatalf("got %d labels and %d heights, want 49", len(got.Labels), len(got.Heights))
	}
	if got.Labels[0] != "0h" || got.Labels[1] != "" || got.Labels[48] != "24h" {
		t.Errorf("unexpected labels %q %q %q", got.Labels[0], got.Labels[1], got.Labels[48])
	}
	if got.Heights[24] != 5.3 {
		t.Errorf("height at noon = %v, want high water", got.Heights[24])
	}
	if !got.Sunrise.Before(got.Sunset) {
		t.Errorf("sunrise %s after sunset %s", got.Sunrise, got.Sunset)
	}
}

func TestFind(t *testing.T) {
	bs := testBeaches()
	b, err := Find(bs, "  LOCMARIA ")
	if err != nil || b.Name != "Locmaria" {
		t.Errorf("got %v, %v", b, err)
	}
}
