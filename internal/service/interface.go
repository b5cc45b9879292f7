package service

import "context"

// Geocoder resolves a free-text place name to candidate locations.
type Geocoder interface {
	Search(ctx context.Context, name string, count int) (*GeocodingResponse, error)
}

// Forecaster fetches current conditions and a daily forecast for a coordinate.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64, days int) (*ForecastResponse, error)
}
