package tide

import (
	"fmt"
	"math"
	"time"

	"github.com/spencer-p/beachdash/pkg/timetricks"
)

const (
	// Before the first low water the level sits a little above the floor.
	preCycleRise = 0.5
	// After the last extremum the level only falls through half the range,
	// since the next low is outside the day's data.
	tailAttenuation = 0.5

	sampleStep    = 0.5 // hours
	samplesPerDay = 48
)

// HeightAndTrend estimates the water level of day at hour. Days without a
// first low and high water get a flat reading at half the maximum, rising.
// Otherwise the result is clamped into [LowWater, MaxHeight].
func HeightAndTrend(day Day, hour float64) Reading {
	if day.Low1 == nil || day.High1 == nil {
		return Reading{Height: day.MaxHeight / 2, Trend: Rising}
	}
	h, trend := day.heightAt(hour)
	return Reading{Height: day.clamp(h), Trend: trend}
}

// heightAt walks the segments low1 < high1 < low2 < high2. Segments bounded by
// an absent extremum are skipped.
func (d Day) heightAt(hour float64) (float64, Trend) {
	span := d.MaxHeight - LowWater
	low1, high1 := *d.Low1, *d.High1

	switch {
	case hour < low1:
		return LowWater + preCycleRise, Rising
	case hour < high1:
		return LowWater + progress(hour, low1, high1)*span, Rising
	case d.Low2 != nil && hour < *d.Low2:
		return d.MaxHeight - progress(hour, high1, *d.Low2)*span, Falling
	case d.Low2 != nil && d.High2 != nil && hour < *d.High2:
		return LowWater + progress(hour, *d.Low2, *d.High2)*span, Rising
	}

	return d.MaxHeight - progress(hour, d.tailStart(), 24)*span*tailAttenuation, Falling
}

// tailStart is the last extremum the falling tail runs from.
func (d Day) tailStart() float64 {
	switch {
	case d.Low2 != nil && d.High2 != nil:
		return *d.High2
	case d.Low2 != nil:
		return *d.Low2
	default:
		return *d.High1
	}
}

func (d Day) clamp(h float64) float64 {
	return math.Max(LowWater, math.Min(d.MaxHeight, h))
}

// progress is the linear position of hour within [start, end]. An empty or
// inverted segment counts as complete.
func progress(hour, start, end float64) float64 {
	if end <= start {
		return 1
	}
	return (hour - start) / (end - start)
}

// Sample is one point of a day's tide curve.
type Sample struct {
	Label  string  `json:"label"`
	Hour   float64 `json:"hour"`
	Height float64 `json:"height"`
}

// Curve samples the day every half hour from 0h to 24h inclusive. Only
// samples falling on the hour carry a label, to keep a chart axis readable.
func Curve(day Day) []Sample {
	samples := make([]Sample, 0, samplesPerDay+1)
	for i := 0; i <= samplesPerDay; i++ {
		hour := float64(i) * sampleStep
		label := ""
		if math.Mod(hour, 1) == 0 {
			label = fmt.Sprintf("%dh", int(hour))
		}
		samples = append(samples, Sample{
			Label:  label,
			Hour:   hour,
			Height: HeightAndTrend(day, hour).Height,
		})
	}
	return samples
}

// Series splits samples into the parallel slices a chart library expects.
func Series(samples []Sample) (labels []string, heights []float64) {
	labels = make([]string, len(samples))
	heights = make([]float64, len(samples))
	for i, s := range samples {
		labels[i] = s.Label
		heights[i] = s.Height
	}
	return labels, heights
}

// CoarseState classifies t by its hour modulo 12. It assumes a six hour
// half-cycle anchored at midnight and ignores the published extrema.
func CoarseState(t time.Time) State {
	return CoarseStateAt(timetricks.DecimalHour(t))
}

// CoarseStateAt is CoarseState for a decimal hour of the day.
func CoarseStateAt(hour float64) State {
	cycle := math.Mod(hour, 12)
	switch {
	case cycle < 2 || cycle > 10:
		return High
	case cycle > 4 && cycle < 8:
		return Low
	default:
		return Mid
	}
}
