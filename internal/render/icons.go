package render

// FallbackGlyph is shown for weather codes missing from the table.
const FallbackGlyph = "❓"

// WMO weather interpretation codes as reported by Open-Meteo.
var glyphs = map[int]string{
	0:  "☀️",
	1:  "🌤️",
	2:  "⛅",
	3:  "☁️",
	45: "🌫️",
	48: "🌫️",
	51: "🌦️",
	53: "🌦️",
	55: "🌧️",
	61: "🌧️",
	63: "🌧️",
	65: "🌧️",
	71: "🌨️",
	73: "🌨️",
	75: "❄️",
	80: "🌧️",
	81: "🌧️",
	82: "🌧️",
	95: "⛈️",
	96: "⛈️",
	99: "⛈️",
}

func Glyph(code int) string {
	if g, ok := glyphs[code]; ok {
		return g
	}
	return FallbackGlyph
}

// Condition gives a coarse text label for a weather code.
func Condition(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code == 1:
		return "Mainly clear"
	case code == 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code >= 95 && code <= 99:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}
