package lookup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vzahanych/weathernow/internal/config"
	"github.com/vzahanych/weathernow/internal/service"
	"github.com/vzahanych/weathernow/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MetricsRecorder receives one RecordLookup per Lookup call and one
// RecordUpstreamCall per outbound request.
type MetricsRecorder interface {
	RecordLookup(ctx context.Context, outcome string, duration time.Duration)
	RecordUpstreamCall(ctx context.Context, endpoint string, success bool)
}

type Options struct {
	CandidateCount   int
	ForecastDays     int
	PreferredCountry string
}

func OptionsFromConfig(cfg config.WeatherConfig) Options {
	return Options{
		CandidateCount:   cfg.CandidateCount,
		ForecastDays:     cfg.ForecastDays,
		PreferredCountry: cfg.PreferredCountry,
	}
}

// Service resolves a place name and fetches its weather. It keeps no state
// between calls and is safe for concurrent use.
type Service struct {
	geocoder   service.Geocoder
	forecaster service.Forecaster
	opts       Options
	logger     *zap.Logger
	tele       *telemetry.Telemetry
	metrics    MetricsRecorder
}

func NewService(geocoder service.Geocoder, forecaster service.Forecaster, opts Options, logger *zap.Logger, tele *telemetry.Telemetry) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CandidateCount <= 0 {
		opts.CandidateCount = 10
	}
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = 4
	}
	return &Service{
		geocoder:   geocoder,
		forecaster: forecaster,
		opts:       opts,
		logger:     logger,
		tele:       tele,
	}
}

// SetMetricsRecorder must be called before the service is shared.
func (s *Service) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

// Lookup runs geocode, disambiguation, forecast and normalization for query.
// The error, if any, is one of ErrEmptyQuery, ErrLocationNotFound,
// ErrNoMatchingLocation or an *UpstreamError.
func (s *Service) Lookup(ctx context.Context, query string) (*WeatherReport, error) {
	start := time.Now()

	report, err := s.lookup(ctx, query)

	if s.metrics != nil {
		s.metrics.RecordLookup(ctx, Kind(err), time.Since(start))
	}
	return report, err
}

func (s *Service) lookup(ctx context.Context, query string) (*WeatherReport, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	ctx, span := s.tele.GetTracer().Start(ctx, "lookup.Lookup")
	defer span.End()

	span.SetAttributes(attribute.String("query", query))

	log := s.logger.With(
		zap.String("lookup_id", uuid.NewString()),
		zap.String("query", query),
	)

	log.Debug("Geocoding query", zap.Int("count", s.opts.CandidateCount))

	geo, err := s.geocoder.Search(ctx, query, s.opts.CandidateCount)
	s.recordUpstream(ctx, "geocoding", err == nil)
	if err != nil {
		return nil, s.fail(ctx, log, &UpstreamError{Op: "geocoding", Err: err})
	}
	if geo == nil {
		return nil, s.fail(ctx, log, &UpstreamError{Op: "geocoding", Err: errors.New("empty geocoding response")})
	}
	if geo.Results == nil || len(*geo.Results) == 0 {
		return nil, s.fail(ctx, log, ErrLocationNotFound)
	}

	candidates := candidatesFromResults(*geo.Results)
	place, ok := SelectCandidate(candidates, s.opts.PreferredCountry)
	if !ok {
		return nil, s.fail(ctx, log, ErrNoMatchingLocation)
	}

	span.SetAttributes(
		attribute.String("place", place.Name),
		attribute.String("country", place.Country),
		attribute.Int("candidates", len(candidates)),
	)
	log.Debug("Selected location",
		zap.String("place", place.Name),
		zap.String("country", place.Country),
		zap.Float64("lat", place.Latitude),
		zap.Float64("lon", place.Longitude),
		zap.Int("candidates", len(candidates)))

	fc, err := s.forecaster.Forecast(ctx, place.Latitude, place.Longitude, s.opts.ForecastDays)
	if err != nil {
		s.recordUpstream(ctx, "forecast", false)
		return nil, s.fail(ctx, log, &UpstreamError{Op: "forecast", Err: err})
	}

	report, err := newReport(place, fc, s.opts.ForecastDays)
	s.recordUpstream(ctx, "forecast", err == nil)
	if err != nil {
		return nil, s.fail(ctx, log, &UpstreamError{Op: "forecast", Err: err})
	}

	span.SetAttributes(attribute.Int("forecast_days", len(report.Forecast)))
	log.Info("Lookup completed",
		zap.String("place", place.Name),
		zap.String("country", place.Country),
		zap.Int("forecast_days", len(report.Forecast)))

	return report, nil
}

func (s *Service) fail(ctx context.Context, log *zap.Logger, err error) error {
	s.tele.RecordError(ctx, err, map[string]interface{}{"outcome": Kind(err)})

	if errors.Is(err, ErrUpstream) {
		log.Warn("Lookup failed", zap.String("outcome", Kind(err)), zap.Error(err))
	} else {
		log.Info("Lookup failed", zap.String("outcome", Kind(err)), zap.Error(err))
	}
	return err
}

func (s *Service) recordUpstream(ctx context.Context, endpoint string, success bool) {
	if s.metrics != nil {
		s.metrics.RecordUpstreamCall(ctx, endpoint, success)
	}
}
