package meta

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/score"
	"github.com/spencer-p/beachdash/pkg/sunset"
	"github.com/spencer-p/beachdash/pkg/timetricks"
)

func TestGoodTimeString(t *testing.T) {
	table := []struct {
		gt   GoodTime
		want string
	}{{
		gt: GoodTime{
			// seconds and nseconds should be unused
			Time:    time.Date(1999, time.January, 5, 5, 35, 20, 4, time.Local),
			Reasons: []string{"the tide is low"},
		},
		want: "01/05 at 5:35 AM, the tide is low",
	}, {
		gt: GoodTime{
			Time: timetricks.SetClock(time.Now(), 16, 27),
			Reasons: []string{
				"the sun is up",
				"the wind is offshore",
			},
		},
		want: "Today at 4:27 PM, the sun is up and the wind is offshore",
	}, {
		gt: GoodTime{
			Beach:    "Les Grands Sables",
			Time:     timetricks.SetClock(time.Now().Add(24*time.Hour), 12, 0),
			Duration: 3 * time.Hour,
			Reasons:  []string{"the tide is mid"},
		},
		want: "Les Grands Sables, Tomorrow at 12:00 PM until 3:00 PM, the tide is mid",
	}, {
		gt: GoodTime{
			// Set the time to three days from now so as not to trigger
			// today/tomorrow behavior.
			Time:    timetricks.SetClock(time.Now().Add(3*24*time.Hour), 13, 0),
			Reasons: []string{"conditions are fair"},
		},
		want: fmt.Sprintf("%s at 1:00 PM, conditions are fair", time.Now().Add(3*24*time.Hour).Weekday().String()),
	}}

	for _, tc := range table {
		t.Run(tc.want, func(t *testing.T) {
			got := tc.gt.String()
			if got != tc.want {
				t.Errorf("got %q, wanted %q", got, tc.want)
			}
		})
	}
}

func TestGoodTimeRoundTrip(t *testing.T) {
	gt := GoodTime{
		Beach:    "Locmaria",
		Color:    score.Blue,
		Time:     time.Date(1999, time.January, 5, 5, 35, 20, 4, time.Local),
		Duration: 2 * time.Hour,
		Reasons:  []string{"the tide is high"},
	}

	blob, err := json.Marshal(&gt)
	if err != nil {
		t.Errorf("unexpected: %v", err)
	}
	var got GoodTime
	if err := json.Unmarshal(blob, &got); err != nil {
		t.Errorf("unexpected: %v", err)
	}

	if diff := cmp.Diff(gt.String(), got.String()); diff != "" {
		t.Errorf("failed round trip (-want,+got):\n%s", diff)
	}
	if got.PrettyTime == "" {
		t.Errorf("pretty time not filled in")
	}
}

func TestGoodTimes(t *testing.T) {
	// Mid tide hours in daylight on the 1st of December: 9-11h and 14-17h.
	// With no known wind only an ideal tide reaches blue.
	day := time.Date(2026, time.December, 1, 0, 0, 0, 0, sunset.Groix.Location)
	c := Conditions{
		Data: &beaches.Dataset{
			Beaches: []beaches.Beach{{
				Name:       "Port Melite",
				Latitude:   47.65,
				Longitude:  -3.44,
				IdealTides: score.ParseTideSet("mi"),
			}},
		},
		Instant: day,
		Place:   sunset.Groix,
	}

	got, err := GoodTimes(c, Options{Days: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []GoodTime{{
		Beach:    "Port Melite",
		Color:    score.Blue,
		Time:     timetricks.SetClock(day, 9, 0),
		Duration: 2 * time.Hour,
		Reasons:  []string{"the tide is mid"},
	}, {
		Beach:    "Port Melite",
		Color:    score.Blue,
		Time:     timetricks.SetClock(day, 14, 0),
		Duration: 3 * time.Hour,
		Reasons:  []string{"the tide is mid"},
	}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("good times (-got,+want):\n%s", diff)
	}
}

func TestGoodTimesOffshoreAllDay(t *testing.T) {
	day := time.Date(2026, time.July, 14, 0, 0, 0, 0, sunset.Groix.Location)
	c := Conditions{
		Data: &beaches.Dataset{
			Beaches: testBeaches(),
			Weather: beaches.Weather{WindDirection: f(270)},
		},
		Instant: day,
		Place:   sunset.Groix,
	}

	got, err := GoodTimes(c, Options{Beach: "les grands sables", Days: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d windows, want one daylight window: %v", len(got), got)
	}
	gt := got[0]
	if h := gt.Time.Hour(); h < 6 || h > 8 {
		t.Errorf("window starts at %s, want around sunrise", gt.Time.Format("15:04"))
	}
	if gt.Duration < 14*time.Hour || gt.Duration > 17*time.Hour {
		t.Errorf("window lasts %s", gt.Duration)
	}
	if gt.Color != score.Green {
		t.Errorf("color = %s, want green", gt.Color)
	}
}

func TestGoodTimesHalfHourZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	c := Conditions{
		Data: &beaches.Dataset{
			Beaches: testBeaches(),
			Weather: beaches.Weather{WindDirection: f(270)},
		},
		Instant: time.Date(2026, time.July, 14, 10, 45, 0, 0, ist),
		Place:   sunset.Groix,
	}

	got, err := GoodTimes(c, Options{Beach: "les grands sables", Days: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("no windows found")
	}
	for _, gt := range got {
		if local := gt.Time.In(ist); local.Minute() != 0 {
			t.Errorf("window starts at %s, want a whole local hour", local.Format("15:04"))
		}
	}
}

func TestGoodTimesUnknownBeach(t *testing.T) {
	c := Conditions{
		Data:    &beaches.Dataset{Beaches: testBeaches()},
		Instant: time.Now(),
		Place:   sunset.Groix,
	}
	if _, err := GoodTimes(c, Options{Beach: "Atlantis"}); !errors.Is(err, ErrUnknownBeach) {
		t.Errorf("got %v, want ErrUnknownBeach", err)
	}
}

func TestIndexOfLastEventBefore(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, sunset.Groix.Location)
	events := sunset.GetSunEvents(start, 2*24*time.Hour, sunset.Groix)

	if _, err := indexOfLastEventBefore(start, events); err == nil {
		t.Errorf("expected no event before midnight of the first day")
	}
	i, err := indexOfLastEventBefore(timetricks.SetClock(start, 12, 0), events)
	if err != nil || i != 0 {
		t.Errorf("noon: got %d, %v; want the first sunrise", i, err)
	}
	i, err = indexOfLastEventBefore(timetricks.SetClock(start, 23, 0), events)
	if err != nil || i != 1 {
		t.Errorf("night: got %d, %v; want the first sunset", i, err)
	}
}
