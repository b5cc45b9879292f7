package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	if cfg, ok := configValue.Load().(*Config); ok {
		return cfg
	}
	return NewDefaultConfig()
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	UI          UIConfig        `mapstructure:"ui"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"min=1,max=65535"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout int    `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout  int    `mapstructure:"idle_timeout" validate:"min=0"`
}

// WeatherConfig describes the two Open-Meteo endpoints and the lookup policy.
type WeatherConfig struct {
	GeocodingURL string `mapstructure:"geocoding_url" validate:"required,url"`
	ForecastURL  string `mapstructure:"forecast_url" validate:"required,url"`
	UserAgent    string `mapstructure:"user_agent"`
	// Timeout is the per-call deadline in seconds.
	Timeout        int `mapstructure:"timeout" validate:"min=1,max=300"`
	CandidateCount int `mapstructure:"candidate_count" validate:"min=1,max=100"`
	ForecastDays   int `mapstructure:"forecast_days" validate:"min=1,max=16"`
	// PreferredCountry is matched against the candidate country name or
	// ISO country code. Empty means the first candidate always wins.
	PreferredCountry string `mapstructure:"preferred_country"`
}

type UIConfig struct {
	InitialQuery string `mapstructure:"initial_query"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			GeocodingURL:     "https://geocoding-api.open-meteo.com/v1",
			ForecastURL:      "https://api.open-meteo.com/v1",
			UserAgent:        "weathernow/1.0",
			Timeout:          10,
			CandidateCount:   10,
			ForecastDays:     4,
			PreferredCountry: "India",
		},
		UI: UIConfig{
			InitialQuery: "Hyderabad",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
