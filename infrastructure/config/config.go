// Package config loads the service configuration from layered YAML files and
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	domainconfig "fillai-backend/domain/config"
)

// Environment is the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Storage backends.
const (
	StorageBadger   = "badger"
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Environment Environment `yaml:"environment"`

	Server    Server                     `yaml:"server"`
	Physics   domainconfig.PhysicsConfig `yaml:"physics"`
	Layout    domainconfig.LayoutConfig  `yaml:"layout"`
	Storage   Storage                    `yaml:"storage"`
	Generator Generator                  `yaml:"generator"`
	Events    Events                     `yaml:"events"`
	RateLimit RateLimit                  `yaml:"rate_limit"`
	CORS      CORS                       `yaml:"cors"`
	Metrics   Metrics                    `yaml:"metrics"`
	Tracing   Tracing                    `yaml:"tracing"`
	AWS       AWS                        `yaml:"aws"`

	// SeedDemo fills an empty catalog with the demo courses on startup.
	SeedDemo bool `yaml:"seed_demo"`
	// PublicBaseURL prefixes share links of private courses.
	PublicBaseURL string `yaml:"public_base_url"`

	// LoadedFrom lists the sources applied, lowest priority first.
	LoadedFrom []string `yaml:"-"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Storage selects and configures the key-value backend.
type Storage struct {
	Backend    string `yaml:"backend"`
	BadgerPath string `yaml:"badger_path"`
	TableName  string `yaml:"table_name"`
}

// Generator configures the remote course generation backend.
type Generator struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	MockFallback    bool          `yaml:"mock_fallback"`
	BreakerFailures uint32        `yaml:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout"`
	BreakerInterval time.Duration `yaml:"breaker_interval"`
}

// Events configures domain event publishing.
type Events struct {
	Enabled      bool   `yaml:"enabled"`
	EventBusName string `yaml:"event_bus_name"`
}

// RateLimit bounds course generation requests per client.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CORS lists the allowed browser origins.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Metrics configures the prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Tracing configures OpenTelemetry span export over OTLP/gRPC.
type Tracing struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRate  float64 `yaml:"sample_rate"`
}

// AWS holds the SDK settings.
type AWS struct {
	Region string `yaml:"region"`
}

// Default returns a configuration that runs locally without any files.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: Server{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Physics: domainconfig.DefaultPhysicsConfig(),
		Layout:  domainconfig.DefaultLayoutConfig(),
		Storage: Storage{
			Backend:    StorageBadger,
			BadgerPath: "./data/badger",
			TableName:  "fillai",
		},
		Generator: Generator{
			BaseURL:         "http://localhost:8000",
			Timeout:         120 * time.Second,
			MockFallback:    true,
			BreakerFailures: 3,
			BreakerTimeout:  30 * time.Second,
			BreakerInterval: 60 * time.Second,
		},
		Events: Events{
			Enabled:      false,
			EventBusName: "fillai-events",
		},
		RateLimit: RateLimit{
			RPS:   0.2,
			Burst: 3,
		},
		CORS: CORS{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: Tracing{
			Enabled:     false,
			ServiceName: "fillai-backend",
			Endpoint:    "localhost:4317",
			SampleRate:  1.0,
		},
		AWS:           AWS{Region: "us-east-1"},
		SeedDemo:      true,
		PublicBaseURL: "http://localhost:3000",
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive")
	}

	domain := domainconfig.DomainConfig{Physics: c.Physics, Layout: c.Layout}
	if err := domain.Validate(); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case StorageBadger:
		if c.Storage.BadgerPath == "" {
			return fmt.Errorf("storage: badger path is required")
		}
	case StorageDynamoDB:
		if c.Storage.TableName == "" {
			return fmt.Errorf("storage: table name is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("storage: unknown backend %q", c.Storage.Backend)
	}

	if c.Generator.BaseURL == "" && !c.Generator.MockFallback {
		return fmt.Errorf("generator: base URL is required without mock fallback")
	}
	if c.Generator.Timeout <= 0 {
		return fmt.Errorf("generator: timeout must be positive")
	}
	if c.Events.Enabled && c.Events.EventBusName == "" {
		return fmt.Errorf("events: bus name is required when enabled")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit: rps and burst must be positive")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics: path must start with /")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing: endpoint is required when enabled")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing: sample rate must be in [0, 1]")
	}
	if c.IsProduction() && c.Storage.Backend == StorageMemory {
		return fmt.Errorf("storage: memory backend is not allowed in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// Domain returns the physics and layout sections as a domain config.
func (c *Config) Domain() *domainconfig.DomainConfig {
	return &domainconfig.DomainConfig{Physics: c.Physics, Layout: c.Layout}
}
