package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/meta"
	"github.com/spencer-p/beachdash/pkg/timetricks"
)

var (
	colorMuted = lipgloss.Color("#6C757D")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00BFFF"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Width(24)
)

// render writes one screen: the instant, the weather and a line per beach.
func render(w io.Writer, c meta.Conditions, bs []beaches.Beach, pinned bool) {
	var lines []string

	mode := "live"
	if pinned {
		mode = "pinned"
	}
	lines = append(lines, titleStyle.Render(fmt.Sprintf("%s at %s", timetricks.Day(c.Instant), c.Instant.Format("15:04")))+
		" "+mutedStyle.Render("("+mode+")"))
	lines = append(lines, fmt.Sprintf("Tide: %s", c.Data.Tides.Reading(c.Instant)))
	if wind := c.Data.Weather.WindDirection; wind != nil {
		lines = append(lines, fmt.Sprintf("Wind from %.0f°", *wind))
	}
	lines = append(lines, "")

	markers := meta.Markers(c, bs)
	meta.SortByDistance(markers)
	for _, m := range markers {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.Hex)).Render("●")
		line := fmt.Sprintf("%s %s %-6s %3.0f  %s", dot, nameStyle.Render(m.Name), m.Color, m.Score,
			mutedStyle.Render(fmt.Sprintf("ideal %s", orDash(m.Popup.IdealTide))))
		if m.DistanceKm != nil {
			line += mutedStyle.Render(fmt.Sprintf("  %.1f km", *m.DistanceKm))
		}
		lines = append(lines, line)
	}
	if len(markers) == 0 {
		lines = append(lines, mutedStyle.Render("No beaches to show"))
	}

	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
