package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

// Agent backends.
const (
	AgentMock   = "mock"
	AgentGenAI  = "genai"
	AgentADK    = "adk"
	AgentStatic = "static" // no agent, static recommendations only
)

// Trace store backends.
const (
	TraceMemory    = "memory"
	TraceFirestore = "firestore"
	TraceSQLite    = "sqlite"
)

type Config struct {
	Mode Mode `yaml:"mode"`

	Port string `yaml:"port"`

	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`

	Agent   AgentConfig   `yaml:"agent"`
	Places  PlacesConfig  `yaml:"places"`
	Weather WeatherConfig `yaml:"weather"`
	Traces  TracesConfig  `yaml:"traces"`
	Flow    FlowConfig    `yaml:"flow"`
	Logging LoggingConfig `yaml:"logging"`
}

// AgentConfig configures the LLM collaborator.
type AgentConfig struct {
	Backend    string        `yaml:"backend"` // mock, genai, adk, static
	ModelName  string        `yaml:"model"`
	APIKey     string        `yaml:"api_key"` // Gemini API key; empty means Vertex AI
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`

	// PromptTemplatePath optionally points to a task template file that is
	// reloaded when it changes.
	PromptTemplatePath string `yaml:"prompt_template_path"`
}

// PlacesConfig configures the café search.
type PlacesConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// WeatherConfig configures the weather lookups.
type WeatherConfig struct {
	Enabled      bool          `yaml:"enabled"`
	ForecastURL  string        `yaml:"forecast_url"`
	GeocodingURL string        `yaml:"geocoding_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

// TracesConfig configures where agent call traces go.
type TracesConfig struct {
	Backend    string `yaml:"backend"` // memory, firestore, sqlite
	SQLitePath string `yaml:"sqlite_path"`
}

// FlowConfig tunes the scene flow.
type FlowConfig struct {
	// LoadingDelay is the simulated "thinking" delay of the loading scene.
	LoadingDelay   time.Duration `yaml:"loading_delay"`
	DrinkTablePath string        `yaml:"drink_table_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Mode:        ModeLocal,
		Port:        "8080",
		GCPLocation: "us-central1",
		Agent: AgentConfig{
			Backend:    AgentMock,
			ModelName:  "gemini-2.5-flash",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Places: PlacesConfig{
			BaseURL: "https://places.googleapis.com",
			Timeout: 10 * time.Second,
		},
		Weather: WeatherConfig{
			Enabled:      true,
			ForecastURL:  "https://api.open-meteo.com/v1/forecast",
			GeocodingURL: "https://geocoding-api.open-meteo.com/v1/search",
			Timeout:      5 * time.Second,
		},
		Traces: TracesConfig{
			Backend:    TraceMemory,
			SQLitePath: "data/traces.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the config: defaults, then the optional YAML file named by
// WHISKI_CONFIG, then env vars. A .env file in the working directory is
// loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := getEnv("WHISKI_CONFIG", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := getEnv("WHISKI_MODE", ""); v != "" {
		c.Mode = parseMode(v)
	}
	c.Port = getEnv("WHISKI_PORT", getEnv("PORT", c.Port))

	c.GCPProjectID = getEnv("WHISKI_GCP_PROJECT", c.GCPProjectID)
	c.GCPLocation = getEnv("WHISKI_GCP_LOCATION", c.GCPLocation)

	c.Agent.Backend = strings.ToLower(getEnv("WHISKI_AGENT_BACKEND", c.Agent.Backend))
	c.Agent.ModelName = getEnv("WHISKI_MODEL_NAME", c.Agent.ModelName)
	c.Agent.APIKey = getEnv("GOOGLE_API_KEY", c.Agent.APIKey)
	c.Agent.APIKey = getEnv("WHISKI_GEMINI_API_KEY", c.Agent.APIKey)
	c.Agent.Timeout = getDurationEnv("WHISKI_AGENT_TIMEOUT", c.Agent.Timeout)
	c.Agent.MaxRetries = getIntEnv("WHISKI_AGENT_MAX_RETRIES", c.Agent.MaxRetries)
	c.Agent.PromptTemplatePath = getEnv("WHISKI_PROMPT_TEMPLATE", c.Agent.PromptTemplatePath)

	c.Places.APIKey = getEnv("GOOGLE_PLACES_API_KEY", c.Places.APIKey)
	c.Places.BaseURL = getEnv("WHISKI_PLACES_URL", c.Places.BaseURL)

	c.Weather.Enabled = getBoolEnv("WHISKI_WEATHER_ENABLED", c.Weather.Enabled)
	c.Weather.ForecastURL = getEnv("WHISKI_WEATHER_URL", c.Weather.ForecastURL)
	c.Weather.GeocodingURL = getEnv("WHISKI_GEOCODING_URL", c.Weather.GeocodingURL)

	c.Traces.Backend = strings.ToLower(getEnv("WHISKI_TRACE_BACKEND", c.Traces.Backend))
	c.Traces.SQLitePath = getEnv("WHISKI_SQLITE_PATH", c.Traces.SQLitePath)

	c.Flow.LoadingDelay = getDurationEnv("WHISKI_LOADING_DELAY", c.Flow.LoadingDelay)
	c.Flow.DrinkTablePath = getEnv("WHISKI_DRINK_TABLE", c.Flow.DrinkTablePath)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

// Validate checks combinations that cannot work at runtime.
func (c *Config) Validate() error {
	var errs []error

	switch c.Agent.Backend {
	case AgentMock, AgentStatic:
	case AgentGenAI, AgentADK:
		if c.Agent.APIKey == "" && c.GCPProjectID == "" {
			errs = append(errs, fmt.Errorf("agent backend %q needs WHISKI_GEMINI_API_KEY or WHISKI_GCP_PROJECT", c.Agent.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown agent backend %q", c.Agent.Backend))
	}

	switch c.Traces.Backend {
	case TraceMemory:
	case TraceFirestore:
		if c.GCPProjectID == "" {
			errs = append(errs, errors.New("WHISKI_GCP_PROJECT is required for the firestore trace backend"))
		}
	case TraceSQLite:
		if c.Traces.SQLitePath == "" {
			errs = append(errs, errors.New("WHISKI_SQLITE_PATH is required for the sqlite trace backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown trace backend %q", c.Traces.Backend))
	}

	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		errs = append(errs, errors.New("WHISKI_GCP_PROJECT must be set in gcp mode"))
	}
	if c.Agent.MaxRetries < 1 {
		errs = append(errs, errors.New("agent max retries must be at least 1"))
	}

	return errors.Join(errs...)
}

func parseMode(s string) Mode {
	switch strings.ToLower(s) {
	case "gcp":
		return ModeGCP
	default:
		return ModeLocal
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if v == "1" || strings.EqualFold(v, "true") {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
