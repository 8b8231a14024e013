package visualize

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spencer-p/beachdash/pkg/meta"
	"github.com/spencer-p/beachdash/pkg/tide"
)

func f(x float64) *float64 { return &x }

func TestEncode(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	day := tide.Day{
		Date:      time.Date(2026, time.July, 14, 0, 0, 0, 0, loc),
		Low1:      f(6),
		High1:     f(12),
		Low2:      f(18),
		MaxHeight: 5.3,
	}
	c := meta.Chart{
		Sunrise: time.Date(2026, time.July, 14, 6, 0, 0, 0, loc),
		Sunset:  time.Date(2026, time.July, 14, 22, 0, 0, 0, loc),
		Samples: tide.Curve(day),
		Day:     day,
	}

	var b bytes.Buffer
	n, err := NewTidal(c).Encode(&b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svg := b.String()
	if n != len(svg) {
		t.Errorf("reported %d bytes, wrote %d", n, len(svg))
	}
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("not an svg document: %.40s...", svg)
	}
	// 6h and 22h of a 1200 wide day.
	if !strings.Contains(svg, `class="daytime" fill="lightyellow" x="300" y="0" width="800"`) {
		t.Errorf("daylight band misplaced:\n%s", svg)
	}
	if got := strings.Count(svg, `class="label"`); got != 25 {
		t.Errorf("got %d hour labels, want 25", got)
	}
}

func TestEncodeEmpty(t *testing.T) {
	var b bytes.Buffer
	if _, err := NewTidal(meta.Chart{}).Encode(&b); err == nil {
		t.Errorf("expected error for a chart without samples")
	}
}
