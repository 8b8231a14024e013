package score

import (
	"math"
	"strconv"
	"strings"
)

// Compass points, French spellings included (O for ouest).
var compass = map[string]float64{
	"N": 0, "NNE": 22.5, "NE": 45, "ENE": 67.5,
	"E": 90, "ESE": 112.5, "SE": 135, "SSE": 157.5,
	"S": 180, "SSW": 202.5, "SW": 225, "WSW": 247.5,
	"W": 270, "WNW": 292.5, "NW": 315, "NNW": 337.5,

	"SSO": 202.5, "SO": 225, "OSO": 247.5,
	"O": 270, "ONO": 292.5, "NO": 315, "NNO": 337.5,

	"NORD": 0, "EST": 90, "SUD": 180, "OUEST": 270,
}

// ParseBearing reads a bearing in degrees ("225", "225°") or as a compass
// point ("SW", "SO", "N-NO"). It returns nil when s is neither.
func ParseBearing(s string) *float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "°"))
	if s == "" {
		return nil
	}
	if deg, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
		if math.IsNaN(deg) || math.IsInf(deg, 0) {
			return nil
		}
		deg = math.Mod(deg, 360)
		if deg < 0 {
			deg += 360
		}
		return &deg
	}

	key := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(s))
	if deg, ok := compass[key]; ok {
		return &deg
	}
	return nil
}
