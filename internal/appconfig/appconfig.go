// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for capability HTTP requests.
	defaultRequestTimeout = 600 * time.Second
	// defaultResponseMaxChars caps spoken responses when the config omits a budget.
	defaultResponseMaxChars = 140
	// defaultIterations is the per-sample iteration count when the config omits one.
	defaultIterations = 3
)

// Supported voice profiles. The profile selects which provider pair the
// runtime uses for transcription and synthesis.
const (
	ProfileGroq       = "groq"
	ProfileElevenLabs = "elevenlabs"
)

// Mode describes one benchmark mode: an identifier plus the context text
// injected into the response prompt for that mode.
type Mode struct {
	ID               string `json:"id"`
	BenchmarkContext string `json:"benchmarkContext"`
}

// Config represents the top-level application configuration.
type Config struct {
	BenchmarkName    string `json:"benchmarkName"`
	Profile          string `json:"profile"`
	RuntimeURL       string `json:"runtimeUrl"`
	Iterations       int    `json:"iterations"`
	ResponseMaxChars int    `json:"responseMaxChars"`
	ResponsePrompt   string `json:"responsePrompt"`
	Modes            []Mode `json:"modes"`
	DatasetPath      string `json:"dataset,omitempty"`
	AudioPath        string `json:"audio,omitempty"`
	CharacterPath    string `json:"character,omitempty"`
	OutputDir        string `json:"outputDir,omitempty"`
	LogFile          string `json:"logFile,omitempty"`
	TimeoutSeconds   int    `json:"timeout,omitempty"`
	Debug            bool   `json:"debug"`
	TUI              bool   `json:"tui"`
	ConfigPath       string `json:"-"`
}

// configSchema is the structural contract a config file must satisfy before
// semantic validation runs.
var configSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"benchmarkName":    map[string]any{"type": "string"},
		"profile":          map[string]any{"type": "string"},
		"runtimeUrl":       map[string]any{"type": "string"},
		"iterations":       map[string]any{"type": "integer"},
		"responseMaxChars": map[string]any{"type": "integer"},
		"responsePrompt":   map[string]any{"type": "string"},
		"modes": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id"},
			},
		},
	},
	"required": []any{"profile", "runtimeUrl", "modes"},
}

// RequestTimeout returns the timeout duration for capability HTTP requests,
// falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "voxbench.log"
}

// ReportDir returns the directory where run reports are written.
func (c Config) ReportDir() string {
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		return dir
	}
	return "voxbenchData/reports"
}

// ApplyDefaults fills in the optional numeric fields and benchmark name.
func (c *Config) ApplyDefaults() {
	if c.Iterations == 0 {
		c.Iterations = defaultIterations
	}
	if c.ResponseMaxChars == 0 {
		c.ResponseMaxChars = defaultResponseMaxChars
	}
	if strings.TrimSpace(c.BenchmarkName) == "" {
		c.BenchmarkName = "voxbench"
	}
}

// Validate checks the semantic constraints that must hold before any
// measurement begins. Violations are fatal configuration errors.
func (c Config) Validate() error {
	switch c.Profile {
	case ProfileGroq, ProfileElevenLabs:
	default:
		return fmt.Errorf("config %s: profile must be \"groq\" or \"elevenlabs\", got %q", c.ConfigPath, c.Profile)
	}
	if strings.TrimSpace(c.RuntimeURL) == "" {
		return fmt.Errorf("config %s: runtimeUrl is required", c.ConfigPath)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("config %s: iterations must be > 0, got %d", c.ConfigPath, c.Iterations)
	}
	if c.ResponseMaxChars <= 0 {
		return fmt.Errorf("config %s: responseMaxChars must be > 0, got %d", c.ConfigPath, c.ResponseMaxChars)
	}
	if len(c.Modes) == 0 {
		return fmt.Errorf("config %s: at least one mode is required", c.ConfigPath)
	}
	for i, mode := range c.Modes {
		if strings.TrimSpace(mode.ID) == "" {
			return fmt.Errorf("config %s: mode %d has an empty id", c.ConfigPath, i+1)
		}
	}
	if strings.TrimSpace(c.DatasetPath) == "" && strings.TrimSpace(c.AudioPath) == "" {
		return fmt.Errorf("config %s: either dataset or audio must be set", c.ConfigPath)
	}
	return nil
}

// Load reads and validates the application configuration from the given path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	schemaLoader := gojsonschema.NewGoLoader(configSchema)
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return Config{}, fmt.Errorf("config %s failed validation: %s", path, strings.Join(issues, "; "))
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	config.ConfigPath = path
	config.ApplyDefaults()
	return config, nil
}
