package lookup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vzahanych/weathernow/internal/service"
)

const (
	observedAtLayout = "2006-01-02T15:04"
	dateLayout       = "2006-01-02"
)

// PlaceCandidate is one geocoding match.
type PlaceCandidate struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode,omitempty"`
	Admin1      string  `json:"admin1,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type CurrentConditions struct {
	Temperature   float64   `json:"temperature"`
	WindSpeed     float64   `json:"windSpeed"`
	WindDirection float64   `json:"windDirection"`
	WeatherCode   int       `json:"weatherCode"`
	ObservedAt    time.Time `json:"observedAt"`
}

type DailyForecastDay struct {
	Date             time.Time `json:"date"`
	MinTemperature   float64   `json:"minTemperature"`
	MaxTemperature   float64   `json:"maxTemperature"`
	PrecipitationSum float64   `json:"precipitationSum"`
}

// WeatherReport is the complete result of one lookup. Forecast is in
// chronological order and never longer than the configured day count.
type WeatherReport struct {
	Place    PlaceCandidate     `json:"place"`
	Current  CurrentConditions  `json:"current"`
	Forecast []DailyForecastDay `json:"forecast"`
	Timezone string             `json:"timezone,omitempty"`
}

func candidatesFromResults(results []service.GeocodingResult) []PlaceCandidate {
	candidates := make([]PlaceCandidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, PlaceCandidate{
			Name:        r.Name,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			Admin1:      r.Admin1,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		})
	}
	return candidates
}

// SelectCandidate returns the first candidate from the preferred country,
// matched by name or ISO code, and otherwise the first candidate. It
// reports false only for an empty list.
func SelectCandidate(candidates []PlaceCandidate, preferred string) (PlaceCandidate, bool) {
	if preferred != "" {
		for _, c := range candidates {
			if c.Country == preferred || (c.CountryCode != "" && strings.EqualFold(c.CountryCode, preferred)) {
				return c, true
			}
		}
	}
	if len(candidates) == 0 {
		return PlaceCandidate{}, false
	}
	return candidates[0], true
}

func newReport(place PlaceCandidate, resp *service.ForecastResponse, maxDays int) (*WeatherReport, error) {
	if resp == nil {
		return nil, errors.New("empty forecast response")
	}
	cw := resp.CurrentWeather
	if cw == nil {
		return nil, errors.New("forecast response missing current_weather")
	}

	loc := resolveLocation(resp.Timezone, resp.UTCOffsetSeconds)

	observedAt, err := parseObservedAt(cw.Time, loc)
	if err != nil {
		return nil, err
	}

	forecast, err := normalizeDaily(resp.Daily, loc, maxDays)
	if err != nil {
		return nil, err
	}

	return &WeatherReport{
		Place: place,
		Current: CurrentConditions{
			Temperature:   cw.Temperature,
			WindSpeed:     cw.WindSpeed,
			WindDirection: cw.WindDirection,
			WeatherCode:   cw.WeatherCode,
			ObservedAt:    observedAt,
		},
		Forecast: forecast,
		Timezone: resp.Timezone,
	}, nil
}

// normalizeDaily zips the parallel daily arrays, truncating all of them to
// the shortest one and to maxDays.
func normalizeDaily(daily *service.DailyForecast, loc *time.Location, maxDays int) ([]DailyForecastDay, error) {
	if daily == nil {
		return []DailyForecastDay{}, nil
	}

	n := min(len(daily.Time), len(daily.TemperatureMax), len(daily.TemperatureMin), len(daily.PrecipitationSum))
	if maxDays >= 0 {
		n = min(n, maxDays)
	}

	days := make([]DailyForecastDay, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.ParseInLocation(dateLayout, daily.Time[i], loc)
		if err != nil {
			return nil, fmt.Errorf("parsing forecast date %q: %w", daily.Time[i], err)
		}
		days = append(days, DailyForecastDay{
			Date:             date,
			MinTemperature:   daily.TemperatureMin[i],
			MaxTemperature:   daily.TemperatureMax[i],
			PrecipitationSum: daily.PrecipitationSum[i],
		})
	}
	return days, nil
}

func parseObservedAt(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(observedAtLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing observation time %q: %w", value, err)
	}
	return t.In(loc), nil
}

// resolveLocation prefers the IANA zone, then the fixed offset the
// provider reported alongside it, then UTC.
func resolveLocation(name string, offsetSeconds int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		return time.FixedZone(name, offsetSeconds)
	}
	if offsetSeconds != 0 {
		return time.FixedZone("", offsetSeconds)
	}
	return time.UTC
}
