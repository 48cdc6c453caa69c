package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	domainconfig "fillai-backend/domain/config"

	"gopkg.in/yaml.v3"
)

// DefaultDir is where configuration files are looked up when CONFIG_DIR is
// not set.
const DefaultDir = "config"

// Loader applies the configuration layers. From lowest to highest priority:
//  1. Default values
//  2. base.yaml
//  3. {environment}.yaml
//  4. local.yaml (development only)
//  5. Environment variables
type Loader struct {
	basePath    string
	environment Environment
	sources     []string
}

// NewLoader creates a loader reading files from basePath.
func NewLoader(basePath string, env Environment) *Loader {
	if basePath == "" {
		basePath = DefaultDir
	}
	if env == "" {
		env = Development
	}
	return &Loader{basePath: basePath, environment: env}
}

// Load builds and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	l.sources = l.sources[:0]

	cfg := Default()
	cfg.Environment = l.environment
	l.sources = append(l.sources, "defaults")

	if err := l.loadFile("base", cfg); err != nil {
		return nil, fmt.Errorf("failed to load base config: %w", err)
	}
	envFile := strings.ToLower(string(l.environment))
	if err := l.loadFile(envFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s config: %w", envFile, err)
	}
	if l.environment == Development {
		if err := l.loadFile("local", cfg); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	applyEnvironmentVariables(cfg)
	l.sources = append(l.sources, "environment")
	cfg.LoadedFrom = append([]string(nil), l.sources...)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Sources lists the layers applied by the last Load.
func (l *Loader) Sources() []string {
	return append([]string(nil), l.sources...)
}

// BasePath returns the directory files are read from.
func (l *Loader) BasePath() string { return l.basePath }

// loadFile overlays name.yaml or name.yml onto cfg. A missing file is
// skipped.
func (l *Loader) loadFile(name string, cfg *Config) error {
	for _, ext := range []string{"yaml", "yml"} {
		path := filepath.Join(l.basePath, name+"."+ext)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		err = yaml.NewDecoder(f).Decode(cfg)
		f.Close()
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		l.sources = append(l.sources, path)
		return nil
	}
	return nil
}

// applyEnvironmentVariables overlays environment variables on cfg.
func applyEnvironmentVariables(cfg *Config) {
	if val := os.Getenv("SERVER_ADDRESS"); val != "" {
		cfg.Server.Address = val
	}
	if val := os.Getenv("ENVIRONMENT"); val != "" {
		cfg.Environment = Environment(strings.ToLower(val))
	}

	// API_BASE_URL is the name the web client uses for the same backend.
	if val := os.Getenv("API_BASE_URL"); val != "" {
		cfg.Generator.BaseURL = val
	}
	if val := os.Getenv("GENERATOR_BASE_URL"); val != "" {
		cfg.Generator.BaseURL = val
	}
	if val := os.Getenv("GENERATOR_MOCK_FALLBACK"); val != "" {
		cfg.Generator.MockFallback = parseBool(val, cfg.Generator.MockFallback)
	}

	if val := os.Getenv("STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = strings.ToLower(val)
	}
	if val := os.Getenv("BADGER_PATH"); val != "" {
		cfg.Storage.BadgerPath = val
	}
	if val := os.Getenv("TABLE_NAME"); val != "" {
		cfg.Storage.TableName = val
	}

	if val := os.Getenv("EVENT_BUS_NAME"); val != "" {
		cfg.Events.EventBusName = val
	}
	if val := os.Getenv("EVENTS_ENABLED"); val != "" {
		cfg.Events.Enabled = parseBool(val, cfg.Events.Enabled)
	}

	if val := os.Getenv("TRACING_ENABLED"); val != "" {
		cfg.Tracing.Enabled = parseBool(val, cfg.Tracing.Enabled)
	}
	if val := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); val != "" {
		cfg.Tracing.Endpoint = val
	}

	if val := os.Getenv("AWS_REGION"); val != "" {
		cfg.AWS.Region = val
	}
	if val := os.Getenv("LAYOUT_MODE"); val != "" {
		cfg.Layout.Mode = domainconfig.LayoutMode(strings.ToLower(val))
	}
	if val := os.Getenv("RATE_LIMIT_RPS"); val != "" {
		if rps, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.RateLimit.RPS = rps
		}
	}
	if val := os.Getenv("SEED_DEMO"); val != "" {
		cfg.SeedDemo = parseBool(val, cfg.SeedDemo)
	}
	if val := os.Getenv("PUBLIC_BASE_URL"); val != "" {
		cfg.PublicBaseURL = val
	}
}

func parseBool(s string, fallback bool) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

// Dir returns CONFIG_DIR or DefaultDir.
func Dir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return DefaultDir
}

// CurrentEnvironment reads ENVIRONMENT, defaulting to development.
func CurrentEnvironment() Environment {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return Environment(strings.ToLower(env))
	}
	return Development
}

// Load loads configuration for the current environment from Dir.
func Load() (*Config, error) {
	return NewLoader(Dir(), CurrentEnvironment()).Load()
}
