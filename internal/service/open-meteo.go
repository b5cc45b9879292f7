package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vzahanych/weathernow/internal/config"
	"github.com/vzahanych/weathernow/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const dailyVariables = "temperature_2m_max,temperature_2m_min,precipitation_sum"

type OpenMeteoService struct {
	geocodingURL string
	forecastURL  string
	userAgent    string
	client       *http.Client
	logger       *zap.Logger
	tele         *telemetry.Telemetry
}

func NewOpenMeteoServiceWithConfig(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenMeteoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenMeteoService{
		geocodingURL: strings.TrimRight(cfg.GeocodingURL, "/"),
		forecastURL:  strings.TrimRight(cfg.ForecastURL, "/"),
		userAgent:    cfg.UserAgent,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
		tele:   tele,
	}
}

func (s *OpenMeteoService) Name() string {
	return "open-meteo"
}

// Search queries the geocoding endpoint for up to count matches of name.
func (s *OpenMeteoService) Search(ctx context.Context, name string, count int) (*GeocodingResponse, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "open-meteo.Search")
	defer span.End()

	span.SetAttributes(
		attribute.String("query", name),
		attribute.Int("count", count),
	)

	q := url.Values{}
	q.Set("name", name)
	q.Set("count", strconv.Itoa(count))

	var result GeocodingResponse
	if err := s.get(ctx, s.geocodingURL+"/search", q, &result); err != nil {
		s.tele.RecordError(ctx, err, map[string]interface{}{"endpoint": "search"})
		return nil, err
	}

	if result.Results != nil {
		span.SetAttributes(attribute.Int("results", len(*result.Results)))
	}
	return &result, nil
}

// Forecast fetches current weather plus days of daily aggregates, with
// timestamps expressed in the location's own timezone.
func (s *OpenMeteoService) Forecast(ctx context.Context, lat, lon float64, days int) (*ForecastResponse, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "open-meteo.Forecast")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
		attribute.Int("days", days),
	)

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.6f", lat))
	q.Set("longitude", fmt.Sprintf("%.6f", lon))
	q.Set("current_weather", "true")
	q.Set("timezone", "auto")
	q.Set("daily", dailyVariables)
	q.Set("forecast_days", strconv.Itoa(days))

	var result ForecastResponse
	if err := s.get(ctx, s.forecastURL+"/forecast", q, &result); err != nil {
		s.tele.RecordError(ctx, err, map[string]interface{}{"endpoint": "forecast"})
		return nil, err
	}

	return &result, nil
}

func (s *OpenMeteoService) get(ctx context.Context, endpoint string, q url.Values, out interface{}) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	s.logger.Debug("Calling weather provider",
		zap.String("provider", s.Name()),
		zap.String("url", u.String()))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body apiError
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
		return &StatusError{StatusCode: resp.StatusCode, Reason: body.Reason}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
