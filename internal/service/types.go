package service

import "fmt"

// GeocodingResult is one candidate returned by the geocoding search.
type GeocodingResult struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
}

// GeocodingResponse mirrors the search payload. Results is nil when the
// provider omitted the field, which it does when nothing matched.
type GeocodingResponse struct {
	Results *[]GeocodingResult `json:"results"`
}

type CurrentWeather struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	Time          string  `json:"time"`
}

// DailyForecast holds the parallel daily arrays. Open-Meteo does not
// guarantee they are the same length when values are missing.
type DailyForecast struct {
	Time             []string  `json:"time"`
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	TemperatureMin   []float64 `json:"temperature_2m_min"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
}

type ForecastResponse struct {
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	Timezone         string          `json:"timezone"`
	UTCOffsetSeconds int             `json:"utc_offset_seconds"`
	CurrentWeather   *CurrentWeather `json:"current_weather"`
	Daily            *DailyForecast  `json:"daily"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// apiError is the body Open-Meteo sends alongside 4xx responses.
type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}
