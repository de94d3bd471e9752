package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/kundali/internal/domain/model"
)

// Semantic color palette for terminal chart rendering.
var (
	colorHeading = lipgloss.Color("#FFD700") // gold, section titles
	colorPlanet  = lipgloss.Color("#00BFFF") // cyan, planet names
	colorValue   = lipgloss.Color("#EEEEEE") // off-white, values
	colorMuted   = lipgloss.Color("#8C8C8C") // gray, labels
	colorRetro   = lipgloss.Color("#FF5252") // red, retrograde marker
	colorDignity = lipgloss.Color("#00E676") // green, exaltation marker
)

var (
	styleHeading = lipgloss.NewStyle().
			Foreground(colorHeading).
			Bold(true)

	stylePlanet = lipgloss.NewStyle().
			Foreground(colorPlanet).
			Bold(true)

	styleValue = lipgloss.NewStyle().
			Foreground(colorValue)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleRetro = lipgloss.NewStyle().
			Foreground(colorRetro).
			Bold(true)

	styleDignity = lipgloss.NewStyle().
			Foreground(colorDignity)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// dashaPreviewPeriods bounds how many major periods the chart view shows.
const dashaPreviewPeriods = 5

// renderChart formats a computed chart for the terminal.
func renderChart(chart model.BirthChart) string {
	var b strings.Builder

	b.WriteString(styleCard.Render(renderMoment(chart)))
	b.WriteString("\n\n")

	b.WriteString(styleHeading.Render("Planetary Positions"))
	b.WriteString("\n")
	for _, pos := range chart.Positions {
		b.WriteString(renderPosition(pos))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleHeading.Render("Houses"))
	b.WriteString("\n")
	b.WriteString(renderAscendant(chart.Houses))
	b.WriteString("\n\n")

	b.WriteString(styleHeading.Render("Panchanga"))
	b.WriteString("\n")
	b.WriteString(renderPanchanga(chart.Panchanga))

	if chart.Dashas != nil && len(chart.Dashas.Periods) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styleHeading.Render("Vimshottari Dasha"))
		b.WriteString("\n")
		b.WriteString(renderDashas(*chart.Dashas))
	}

	return b.String()
}

// renderMoment formats the birth moment header card.
func renderMoment(chart model.BirthChart) string {
	in := chart.Input
	place := in.Timezone
	if place == "" {
		place = fmt.Sprintf("UTC%+d min", in.UTCOffsetMinutes)
	}

	var b strings.Builder
	b.WriteString(styleHeading.Render("Birth Chart"))
	b.WriteString("  ")
	b.WriteString(styleMuted.Render(chart.ID))
	b.WriteString("\n")
	b.WriteString(styleValue.Render(fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d %s",
		in.Year, in.Month, in.Day, in.Hour, in.Minute, in.Second, place)))
	b.WriteString("\n")
	b.WriteString(styleValue.Render(fmt.Sprintf("%.4f, %.4f", in.Latitude, in.Longitude)))
	b.WriteString("  ")
	b.WriteString(styleMuted.Render(fmt.Sprintf("%s ayanamsa %.6f, %s houses",
		chart.Moment.System, chart.Moment.Ayanamsa, in.Houses)))
	return b.String()
}

// renderPosition formats one planetary placement line.
func renderPosition(pos model.PlanetaryPosition) string {
	var b strings.Builder
	b.WriteString(stylePlanet.Render(fmt.Sprintf("%-9s", pos.Planet)))
	b.WriteString(styleValue.Render(fmt.Sprintf("%-12s %s", pos.Sign, formatDMS(pos.Degree, pos.Minute, pos.Second))))
	b.WriteString(styleMuted.Render(fmt.Sprintf("  %s (%d)  house %d", pos.Nakshatra, pos.Pada, pos.House)))

	if pos.Retrograde {
		b.WriteString("  ")
		b.WriteString(styleRetro.Render("R"))
	}
	switch {
	case pos.Exalted:
		b.WriteString("  ")
		b.WriteString(styleDignity.Render("exalted"))
	case pos.Debilitated:
		b.WriteString("  ")
		b.WriteString(styleRetro.Render("debilitated"))
	}
	return b.String()
}

// renderAscendant formats the ascendant line with the house system.
func renderAscendant(set model.HouseSet) string {
	asc := set.Ascendant

	var b strings.Builder
	b.WriteString(stylePlanet.Render(fmt.Sprintf("%-9s", "Lagna")))
	b.WriteString(styleValue.Render(fmt.Sprintf("%-12s %s", asc.Sign, formatDMS(asc.Degree, asc.Minute, asc.Second))))
	b.WriteString(styleMuted.Render(fmt.Sprintf("  %s (%d)  %s", asc.Nakshatra, asc.Pada, set.System)))
	if set.Degraded {
		b.WriteString("  ")
		b.WriteString(styleRetro.Render("equal fallback"))
	}
	return b.String()
}

// renderPanchanga formats the lunar-day attributes.
func renderPanchanga(p model.PanchangaSnapshot) string {
	var b strings.Builder
	b.WriteString(styleValue.Render(fmt.Sprintf("%s (%d, %s)", p.TithiName, p.TithiNumber, p.Paksha)))
	b.WriteString(styleMuted.Render(fmt.Sprintf("  karana %s, yoga %s", p.Karana, p.Yoga)))
	return b.String()
}

// renderDashas formats the head of the major-period timeline.
func renderDashas(tl model.DashaTimeline) string {
	var b strings.Builder
	b.WriteString(styleMuted.Render(fmt.Sprintf("moon in %s, %.1f%% elapsed", tl.Nakshatra, tl.ElapsedFraction*100)))
	b.WriteString("\n")

	shown := len(tl.Periods)
	if shown > dashaPreviewPeriods {
		shown = dashaPreviewPeriods
	}
	for _, period := range tl.Periods[:shown] {
		b.WriteString(stylePlanet.Render(fmt.Sprintf("%-9s", period.Planet)))
		b.WriteString(styleValue.Render(fmt.Sprintf("%s to %s",
			period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))))
		b.WriteString(styleMuted.Render(fmt.Sprintf("  %.2f years", period.Years)))
		b.WriteString("\n")
	}
	if len(tl.Periods) > shown {
		b.WriteString(styleMuted.Render(fmt.Sprintf("and %d more periods to %.0f years", len(tl.Periods)-shown, tl.HorizonYears)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatDMS renders a degree breakdown as d°mm'ss".
func formatDMS(deg, minute, second int) string {
	return fmt.Sprintf("%d°%02d'%02d\"", deg, minute, second)
}
