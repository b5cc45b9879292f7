package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weathernow/internal/config"
	"github.com/vzahanych/weathernow/internal/service"
	"go.uber.org/zap/zaptest"
)

type fakeGeocoder struct {
	mu    sync.Mutex
	calls int
	query string
	count int
	resp  *service.GeocodingResponse
	err   error
}

func (f *fakeGeocoder) Search(ctx context.Context, name string, count int) (*service.GeocodingResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.query = name
	f.count = count
	return f.resp, f.err
}

type fakeForecaster struct {
	mu       sync.Mutex
	calls    int
	lat, lon float64
	days     int
	resp     *service.ForecastResponse
	err      error
}

func (f *fakeForecaster) Forecast(ctx context.Context, lat, lon float64, days int) (*service.ForecastResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lat, f.lon, f.days = lat, lon, days
	return f.resp, f.err
}

type recordedMetrics struct {
	mu       sync.Mutex
	outcomes []string
	upstream map[string]int
}

func (r *recordedMetrics) RecordLookup(ctx context.Context, outcome string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordedMetrics) RecordUpstreamCall(ctx context.Context, endpoint string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upstream == nil {
		r.upstream = make(map[string]int)
	}
	r.upstream[fmt.Sprintf("%s/%t", endpoint, success)]++
}

func results(rs ...service.GeocodingResult) *service.GeocodingResponse {
	return &service.GeocodingResponse{Results: &rs}
}

func place(name, country string, lat, lon float64) service.GeocodingResult {
	return service.GeocodingResult{Name: name, Country: country, Latitude: lat, Longitude: lon}
}

func forecastResponse(days int) *service.ForecastResponse {
	daily := &service.DailyForecast{}
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		daily.Time = append(daily.Time, start.AddDate(0, 0, i).Format("2006-01-02"))
		daily.TemperatureMax = append(daily.TemperatureMax, 30+float64(i))
		daily.TemperatureMin = append(daily.TemperatureMin, 20+float64(i))
		daily.PrecipitationSum = append(daily.PrecipitationSum, float64(i)/2)
	}
	return &service.ForecastResponse{
		Timezone: "UTC",
		CurrentWeather: &service.CurrentWeather{
			Temperature:   28.6,
			WindSpeed:     12.4,
			WindDirection: 250,
			WeatherCode:   3,
			Time:          "2026-10-19T14:00",
		},
		Daily: daily,
	}
}

func newTestService(t *testing.T, geo *fakeGeocoder, fc *fakeForecaster) *Service {
	return NewService(geo, fc, OptionsFromConfig(config.NewDefaultConfig().Weather), zaptest.NewLogger(t), nil)
}

func TestLookup_EmptyQuery(t *testing.T) {
	for _, query := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", query), func(t *testing.T) {
			geo := &fakeGeocoder{}
			fc := &fakeForecaster{}

			report, err := newTestService(t, geo, fc).Lookup(context.Background(), query)

			assert.Nil(t, report)
			assert.ErrorIs(t, err, ErrEmptyQuery)
			assert.Zero(t, geo.calls)
			assert.Zero(t, fc.calls)
		})
	}
}

func TestLookup_LocationNotFound(t *testing.T) {
	tests := []struct {
		name string
		resp *service.GeocodingResponse
	}{
		{"absent results", &service.GeocodingResponse{}},
		{"empty results", results()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := &fakeGeocoder{resp: tt.resp}
			fc := &fakeForecaster{}

			report, err := newTestService(t, geo, fc).Lookup(context.Background(), "Atlantis")

			assert.Nil(t, report)
			assert.ErrorIs(t, err, ErrLocationNotFound)
			assert.Equal(t, 1, geo.calls)
			assert.Zero(t, fc.calls)
		})
	}
}

func TestLookup_PrefersConfiguredCountry(t *testing.T) {
	geo := &fakeGeocoder{resp: results(
		place("Hyderabad", "USA", 1, 1),
		place("Hyderabad", "India", 17.38, 78.46),
		place("Hyderabad", "France", 3, 3),
	)}
	fc := &fakeForecaster{resp: forecastResponse(4)}

	report, err := newTestService(t, geo, fc).Lookup(context.Background(), "Hyderabad")
	require.NoError(t, err)

	assert.Equal(t, "India", report.Place.Country)
	assert.Equal(t, 17.38, fc.lat)
	assert.Equal(t, 78.46, fc.lon)
	assert.Equal(t, 4, fc.days)
	assert.Equal(t, 10, geo.count)
}

func TestLookup_FallsBackToFirstCandidate(t *testing.T) {
	geo := &fakeGeocoder{resp: results(
		place("Paris", "USA", 33.66, -95.55),
		place("Paris", "France", 48.85, 2.35),
	)}
	fc := &fakeForecaster{resp: forecastResponse(4)}

	report, err := newTestService(t, geo, fc).Lookup(context.Background(), "Paris")
	require.NoError(t, err)

	assert.Equal(t, "USA", report.Place.Country)
	assert.Equal(t, 33.66, fc.lat)
}

func TestLookup_QueryPassedUntrimmed(t *testing.T) {
	geo := &fakeGeocoder{resp: results(place("Pune", "India", 18.5, 73.8))}
	fc := &fakeForecaster{resp: forecastResponse(4)}

	_, err := newTestService(t, geo, fc).Lookup(context.Background(), " Pune ")
	require.NoError(t, err)
	assert.Equal(t, " Pune ", geo.query)
}

func TestLookup_Normalization(t *testing.T) {
	geo := &fakeGeocoder{resp: results(place("Delhi", "India", 28.65, 77.23))}
	fc := &fakeForecaster{resp: forecastResponse(7)}

	report, err := newTestService(t, geo, fc).Lookup(context.Background(), "Delhi")
	require.NoError(t, err)

	assert.Equal(t, "Delhi", report.Place.Name)
	assert.Equal(t, 28.6, report.Current.Temperature)
	assert.Equal(t, 12.4, report.Current.WindSpeed)
	assert.Equal(t, 250.0, report.Current.WindDirection)
	assert.Equal(t, 3, report.Current.WeatherCode)
	assert.Equal(t, time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC), report.Current.ObservedAt)

	require.Len(t, report.Forecast, 4)
	for i, day := range report.Forecast {
		assert.Equal(t, time.Date(2026, 10, 19+i, 0, 0, 0, 0, time.UTC), day.Date)
		assert.Equal(t, 30+float64(i), day.MaxTemperature)
		assert.Equal(t, 20+float64(i), day.MinTemperature)
		assert.Equal(t, float64(i)/2, day.PrecipitationSum)
	}
}

func TestLookup_MismatchedDailyArraysTruncate(t *testing.T) {
	resp := forecastResponse(4)
	resp.Daily.TemperatureMin = resp.Daily.TemperatureMin[:2]
	resp.Daily.PrecipitationSum = resp.Daily.PrecipitationSum[:3]

	geo := &fakeGeocoder{resp: results(place("Goa", "India", 15.5, 73.8))}
	fc := &fakeForecaster{resp: resp}

	report, err := newTestService(t, geo, fc).Lookup(context.Background(), "Goa")
	require.NoError(t, err)
	assert.Len(t, report.Forecast, 2)
}

func TestLookup_MissingDailyBlock(t *testing.T) {
	resp := forecastResponse(0)
	resp.Daily = nil

	geo := &fakeGeocoder{resp: results(place("Goa", "India", 15.5, 73.8))}
	report, err := newTestService(t, geo, &fakeForecaster{resp: resp}).Lookup(context.Background(), "Goa")
	require.NoError(t, err)
	assert.Empty(t, report.Forecast)
}

func TestLookup_UpstreamErrors(t *testing.T) {
	transport := errors.New("dial tcp: connection refused")
	badTime := forecastResponse(4)
	badTime.CurrentWeather.Time = "yesterday"
	noCurrent := forecastResponse(4)
	noCurrent.CurrentWeather = nil

	tests := []struct {
		name          string
		geo           *fakeGeocoder
		fc            *fakeForecaster
		wantForecasts int
		wantOp        string
	}{
		{
			name:   "geocoding transport failure",
			geo:    &fakeGeocoder{err: transport},
			fc:     &fakeForecaster{},
			wantOp: "geocoding",
		},
		{
			name:          "forecast transport failure",
			geo:           &fakeGeocoder{resp: results(place("Agra", "India", 27.18, 78.02))},
			fc:            &fakeForecaster{err: &service.StatusError{StatusCode: 500}},
			wantForecasts: 1,
			wantOp:        "forecast",
		},
		{
			name:          "unparseable observation time",
			geo:           &fakeGeocoder{resp: results(place("Agra", "India", 27.18, 78.02))},
			fc:            &fakeForecaster{resp: badTime},
			wantForecasts: 1,
			wantOp:        "forecast",
		},
		{
			name:          "missing current weather",
			geo:           &fakeGeocoder{resp: results(place("Agra", "India", 27.18, 78.02))},
			fc:            &fakeForecaster{resp: noCurrent},
			wantForecasts: 1,
			wantOp:        "forecast",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := newTestService(t, tt.geo, tt.fc).Lookup(context.Background(), "Agra")

			assert.Nil(t, report)
			assert.ErrorIs(t, err, ErrUpstream)
			assert.Equal(t, OutcomeUpstreamError, Kind(err))

			var upstream *UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, tt.wantOp, upstream.Op)
			assert.Equal(t, 1, tt.geo.calls)
			assert.Equal(t, tt.wantForecasts, tt.fc.calls)
		})
	}
}

func TestLookup_UpstreamErrorKeepsCause(t *testing.T) {
	cause := &service.StatusError{StatusCode: 502}
	geo := &fakeGeocoder{err: cause}

	_, err := newTestService(t, geo, &fakeForecaster{}).Lookup(context.Background(), "Agra")

	var statusErr *service.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 502, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "request failed with status code 502")
}

func TestLookup_RepeatableResult(t *testing.T) {
	geo := &fakeGeocoder{resp: results(place("Chennai", "India", 13.08, 80.27))}
	fc := &fakeForecaster{resp: forecastResponse(5)}
	svc := newTestService(t, geo, fc)

	first, err := svc.Lookup(context.Background(), "Chennai")
	require.NoError(t, err)
	second, err := svc.Lookup(context.Background(), "Chennai")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}

func TestLookup_RecordsMetrics(t *testing.T) {
	metrics := &recordedMetrics{}

	geo := &fakeGeocoder{resp: results(place("Kochi", "India", 9.93, 76.26))}
	svc := newTestService(t, geo, &fakeForecaster{resp: forecastResponse(4)})
	svc.SetMetricsRecorder(metrics)

	_, err := svc.Lookup(context.Background(), "Kochi")
	require.NoError(t, err)
	_, err = svc.Lookup(context.Background(), " ")
	require.Error(t, err)

	assert.Equal(t, []string{OutcomeOK, OutcomeEmptyQuery}, metrics.outcomes)
	assert.Equal(t, 1, metrics.upstream["geocoding/true"])
	assert.Equal(t, 1, metrics.upstream["forecast/true"])
}

func TestLookup_ConcurrentCallsAreIndependent(t *testing.T) {
	geo := &fakeGeocoder{resp: results(place("Mumbai", "India", 19.07, 72.88))}
	svc := newTestService(t, geo, &fakeForecaster{resp: forecastResponse(4)})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Lookup(context.Background(), "Mumbai")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 8, geo.calls)
}

func TestSelectCandidate(t *testing.T) {
	usa := PlaceCandidate{Name: "A", Country: "USA", CountryCode: "US"}
	india := PlaceCandidate{Name: "B", Country: "India", CountryCode: "IN"}
	france := PlaceCandidate{Name: "C", Country: "France", CountryCode: "FR"}

	tests := []struct {
		name       string
		candidates []PlaceCandidate
		preferred  string
		want       PlaceCandidate
		wantOK     bool
	}{
		{"preferred in middle", []PlaceCandidate{usa, india, france}, "India", india, true},
		{"preferred last", []PlaceCandidate{usa, france, india}, "India", india, true},
		{"no preferred match", []PlaceCandidate{usa, france}, "India", usa, true},
		{"match by country code", []PlaceCandidate{usa, france}, "fr", france, true},
		{"no preference", []PlaceCandidate{france, india}, "", france, true},
		{"empty list", nil, "India", PlaceCandidate{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectCandidate(tt.candidates, tt.preferred)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLocation(t *testing.T) {
	loc := resolveLocation("Not/AZone", 19800)
	_, offset := time.Date(2026, 10, 19, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 19800, offset)

	assert.Equal(t, time.UTC, resolveLocation("", 0))

	loc = resolveLocation("", -3600)
	_, offset = time.Date(2026, 10, 19, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -3600, offset)
}

func TestKind(t *testing.T) {
	assert.Equal(t, OutcomeOK, Kind(nil))
	assert.Equal(t, OutcomeEmptyQuery, Kind(ErrEmptyQuery))
	assert.Equal(t, OutcomeLocationNotFound, Kind(fmt.Errorf("wrapped: %w", ErrLocationNotFound)))
	assert.Equal(t, OutcomeNoMatchingLocation, Kind(ErrNoMatchingLocation))
	assert.Equal(t, OutcomeUpstreamError, Kind(&UpstreamError{Op: "forecast", Err: errors.New("x")}))
	assert.Equal(t, OutcomeUnknown, Kind(errors.New("other")))
}

// Exercises the real transport against a fake Open-Meteo.
func TestLookup_WithOpenMeteoService(t *testing.T) {
	var calls int
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()

		switch r.URL.Path {
		case "/v1/search":
			w.Write([]byte(`{"results":[
				{"name":"Hyderabad","latitude":25.39,"longitude":68.37,"country":"Pakistan","country_code":"PK"},
				{"name":"Hyderabad","latitude":17.38,"longitude":78.46,"country":"India","country_code":"IN"}
			]}`))
		case "/v1/forecast":
			assert.Equal(t, "17.380000", r.URL.Query().Get("latitude"))
			w.Write([]byte(`{"timezone":"Asia/Kolkata","utc_offset_seconds":19800,
				"current_weather":{"temperature":27.8,"windspeed":9.0,"winddirection":90,"weathercode":61,"time":"2026-10-19T17:45"},
				"daily":{"time":["2026-10-19","2026-10-20","2026-10-21","2026-10-22"],
				"temperature_2m_max":[30.1,29.5,31.0,30.2],
				"temperature_2m_min":[21.0,20.4,21.8,22.0],
				"precipitation_sum":[4.2,0.0,1.1,0.3]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := config.NewDefaultConfig().Weather
	cfg.GeocodingURL = server.URL + "/v1"
	cfg.ForecastURL = server.URL + "/v1"

	om := service.NewOpenMeteoServiceWithConfig(cfg, zaptest.NewLogger(t), nil)
	svc := NewService(om, om, OptionsFromConfig(cfg), zaptest.NewLogger(t), nil)

	report, err := svc.Lookup(context.Background(), "Hyderabad")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, "India", report.Place.Country)
	assert.Equal(t, 61, report.Current.WeatherCode)
	assert.Equal(t, "Asia/Kolkata", report.Timezone)
	_, offset := report.Current.ObservedAt.Zone()
	assert.Equal(t, 19800, offset)
	assert.Equal(t, 17, report.Current.ObservedAt.Hour())
	require.Len(t, report.Forecast, 4)
	assert.Equal(t, 4.2, report.Forecast[0].PrecipitationSum)
}

func TestLookup_TransportDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	cfg := config.NewDefaultConfig().Weather
	cfg.GeocodingURL = server.URL
	cfg.ForecastURL = server.URL

	om := service.NewOpenMeteoServiceWithConfig(cfg, zaptest.NewLogger(t), nil)
	svc := NewService(om, om, OptionsFromConfig(cfg), zaptest.NewLogger(t), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.Lookup(ctx, "Hyderabad")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
