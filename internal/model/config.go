package model

import (
	"strings"
	"time"
)

// DefaultLLMModel is what unrecognized or "auto" model identifiers resolve to.
const DefaultLLMModel = "gpt-4o-mini"

// Config is the full configuration surface of the tool.
// Hierarchy (highest to lowest priority): CLI flags, PROKLEP_* environment
// variables, config file (~/.proklep/config.yaml), defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Checks      CheckConfig       `yaml:"checks" mapstructure:"checks"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig configures the thin fetch layer
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// CacheConfig configures the layered page/response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel listing processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig bounds outbound requests per domain
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// LLMConfig configures the structured-generation capability
type LLMConfig struct {
	// Enabled gates the LLM-backed fact conversion and consistency
	// checking; when false the pipeline emits listing records only.
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	APIKey      string  `yaml:"-" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`

	// MockInconsistencies synthesizes a fixed consistency report without
	// invoking the checker. Test-only path.
	MockInconsistencies bool `yaml:"mock_inconsistencies" mapstructure:"mock_inconsistencies"`
}

// ResolvedModel maps empty and "auto" identifiers to the fixed default.
func (c LLMConfig) ResolvedModel() string {
	m := strings.TrimSpace(strings.ToLower(c.Model))
	if m == "" || m == "auto" || strings.HasSuffix(m, "/auto") {
		return DefaultLLMModel
	}
	return c.Model
}

// ClampedTemperature bounds the sampling temperature to the valid range.
func (c LLMConfig) ClampedTemperature() float32 {
	switch {
	case c.Temperature < 0:
		return 0
	case c.Temperature > 2:
		return 2
	default:
		return c.Temperature
	}
}

// CheckConfig holds the consistency checker thresholds and claim-detection
// keyword sets. Thresholds are configurable constants, not hard-coded.
type CheckConfig struct {
	// AmenityThreshold is the medium-tier kebab index: amenity-praising
	// claims are flagged below it.
	AmenityThreshold float64 `yaml:"amenity_threshold" mapstructure:"amenity_threshold"`
	// ElevatedCrimeRate flags calm/safety claims when any incident rate
	// exceeds it.
	ElevatedCrimeRate float64 `yaml:"elevated_crime_rate" mapstructure:"elevated_crime_rate"`
	// EscalationMargin is how far past a threshold a value must be before
	// a medium finding escalates to critical.
	EscalationMargin float64 `yaml:"escalation_margin" mapstructure:"escalation_margin"`

	AmenityKeywords []string `yaml:"amenity_keywords" mapstructure:"amenity_keywords"`
	SafetyKeywords  []string `yaml:"safety_keywords" mapstructure:"safety_keywords"`
}

// OutputConfig configures the result store directory
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Proklep/0.2 (+https://github.com/KajetanPoliak/proklep)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".proklep-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
		},
		LLM: LLMConfig{
			Enabled:     false,
			Model:       DefaultLLMModel,
			Temperature: 0.1,
			Timeout:     30 * time.Second,
			MaxTokens:   1200,
		},
		Checks: CheckConfig{
			AmenityThreshold:  0.50,
			ElevatedCrimeRate: 0.60,
			EscalationMargin:  0.25,
			AmenityKeywords: []string{
				"občanská vybavenost",
				"veškerá vybavenost",
				"výborná vybavenost",
				"plná vybavenost",
				"restaurace v okolí",
				"civic amenities",
				"good amenities",
				"great amenities",
				"all amenities",
				"lots of restaurants",
			},
			SafetyKeywords: []string{
				"klidná",
				"klidné",
				"klidný",
				"bezpečná",
				"bezpečné",
				"tichá lokalita",
				"tiché okolí",
				"quiet",
				"safe",
				"calm",
				"peaceful",
			},
		},
		Output: OutputConfig{
			Dir: "./proklep-results",
		},
	}
}
