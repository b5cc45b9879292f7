package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/vzahanych/weathernow/internal/lookup"
)

const (
	observedLayout = "Mon Jan 2 2006, 15:04"
	// MaxTiles caps the forecast row regardless of the report length.
	MaxTiles = 4
)

// Round rounds half up, matching how temperatures were always displayed.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Card renders the full report: header, current conditions and forecast tiles.
func Card(r *lookup.WeatherReport) string {
	if r == nil {
		return ""
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		cityStyle.Render(r.Place.Name),
		mutedStyle.Render(r.Place.Country),
	)

	current := lipgloss.JoinHorizontal(lipgloss.Center,
		glyphStyle.Render(Glyph(r.Current.WeatherCode)),
		temperatureStyle.Render(fmt.Sprintf("%d°C", Round(r.Current.Temperature))),
		mutedStyle.Render(Condition(r.Current.WeatherCode)),
	)

	details := lipgloss.JoinHorizontal(lipgloss.Top,
		detailStyle.Render(fmt.Sprintf("Wind: %s km/h", strconv.FormatFloat(r.Current.WindSpeed, 'f', -1, 64))),
		detailStyle.Render(fmt.Sprintf("Direction: %d°", Round(r.Current.WindDirection))),
		detailStyle.Render("Time: "+r.Current.ObservedAt.Format(observedLayout)),
	)

	sections := []string{header, "", current, details}
	if tiles := Tiles(r.Forecast); tiles != "" {
		sections = append(sections, "", tiles)
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// Tiles renders up to MaxTiles forecast days side by side.
func Tiles(days []lookup.DailyForecastDay) string {
	if len(days) == 0 {
		return ""
	}
	if len(days) > MaxTiles {
		days = days[:MaxTiles]
	}

	tiles := make([]string, 0, len(days))
	for _, d := range days {
		tiles = append(tiles, Tile(d))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func Tile(d lookup.DailyForecastDay) string {
	return tileStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		tileTitleStyle.Render(d.Date.Format("Mon")),
		fmt.Sprintf("%d° / %d°", Round(d.MinTemperature), Round(d.MaxTemperature)),
		mutedStyle.Render(fmt.Sprintf("Precip: %dmm", Round(d.PrecipitationSum))),
	))
}
