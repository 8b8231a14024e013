package visualize

import (
	"fmt"
	"io"
	"time"

	"github.com/spencer-p/beachdash/pkg/meta"
	"github.com/spencer-p/beachdash/pkg/tide"
	"github.com/spencer-p/beachdash/pkg/timetricks"
)

const (
	width  = 1200
	height = 300

	// Headroom above high water, in metres.
	headroom = 0.5
)

// Tidal draws one day's tide curve as an SVG.
type Tidal struct {
	date    time.Time
	samples []tide.Sample
	top     float64
	sunrise time.Time
	sunset  time.Time
}

func NewTidal(c meta.Chart) *Tidal {
	top := c.Day.MaxHeight
	if top <= tide.LowWater {
		top = tide.DefaultMaxHeight
	}
	return &Tidal{
		date:    timetricks.TrimClock(c.Sunrise),
		samples: c.Samples,
		top:     top + headroom,
		sunrise: c.Sunrise,
		sunset:  c.Sunset,
	}
}

func (img *Tidal) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	if len(img.samples) == 0 {
		return 0, fmt.Errorf("no tide samples to draw")
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Draw the sunshine.
	risex := img.timeToX(img.sunrise)
	setx := img.timeToX(img.sunset)
	io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
		risex, 0,
		setx-risex, height))

	// Draw a band under low water.
	lowy := img.heightToY(tide.LowWater)
	io(fmt.Fprintf(w, `<rect class="low_water" fill="#e9c46a" x="%d" y="%d" width="%d" height="%d"/>`,
		0, lowy,
		width, height-lowy))

	// The model is linear between samples, so a polygon is exact.
	io(fmt.Fprintf(w, `<path class="tide" fill="skyblue" d="M %d,%d`, 0, height))
	for _, s := range img.samples {
		io(fmt.Fprintf(w, ` L %d,%d`, hourToX(s.Hour), img.heightToY(s.Height)))
	}
	io(fmt.Fprintf(w, ` L %d,%d z"/>`, width, height))

	for _, s := range img.samples {
		if s.Label == "" {
			continue
		}
		io(fmt.Fprintf(w, `<text class="label" x="%d" y="%d" font-size="12">%s</text>`,
			hourToX(s.Hour), height-4, s.Label))
	}

	// Draw the night time shadows.
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		0, 0,
		risex, height))
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		setx, 0,
		width-setx, height))

	// Insert date of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

func (img *Tidal) heightToY(h float64) int {
	return height - int(h/img.top*height)
}

func (img *Tidal) timeToX(t time.Time) int {
	x := int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
	switch {
	case x < 0:
		return 0
	case x > width:
		return width
	default:
		return x
	}
}

func hourToX(hour float64) int {
	return int(hour / 24 * width)
}
