package model

import (
	"runtime"
	"time"
)

// Config holds the complete playlens configuration
type Config struct {
	Classification ClassificationConfig `yaml:"classification" mapstructure:"classification"`
	Input          InputConfig          `yaml:"input" mapstructure:"input"`
	Output         OutputConfig         `yaml:"output" mapstructure:"output"`
	Concurrency    ConcurrencyConfig    `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting   RateLimitConfig      `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache          CacheConfig          `yaml:"cache" mapstructure:"cache"`
}

// ClassificationConfig is the classification rule: keywords matched against
// the uppercased group attribute value.
type ClassificationConfig struct {
	Keywords  []string `yaml:"keywords" mapstructure:"keywords"`
	Attribute string   `yaml:"attribute" mapstructure:"attribute"` // Directive attribute holding the group label
}

// InputConfig controls how playlist bytes are turned into lines
type InputConfig struct {
	Encoding     string `yaml:"encoding" mapstructure:"encoding"`             // Charset label, e.g. utf-8, windows-1254
	MaxLineBytes int    `yaml:"max_line_bytes" mapstructure:"max_line_bytes"` // Longest accepted line
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text, json, yaml, markdown
	Header string `yaml:"header" mapstructure:"header"` // First line of the text report
	Stats  bool   `yaml:"stats" mapstructure:"stats"`   // Append diagnostic counters to text reports
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig limits how fast batch runs open files per directory
type RateLimitConfig struct {
	FilesPerSecond float64 `yaml:"files_per_second" mapstructure:"files_per_second"` // <= 0 disables limiting
	BurstSize      int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls the in-memory report cache used by batch runs
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Default values shared by the CLI and the library packages
const (
	DefaultAttribute    = "group-title"
	DefaultEncoding     = "utf-8"
	DefaultMaxLineBytes = 1 << 20
	DefaultFormat       = "text"
	DefaultHeader       = "Matched groups:"
)

// DefaultKeywords returns the built-in region keyword set
func DefaultKeywords() []string {
	return []string{"TR", "TÜRK", "TURK", "ULUSAL"}
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() *Config {
	return &Config{
		Classification: ClassificationConfig{
			Keywords:  DefaultKeywords(),
			Attribute: DefaultAttribute,
		},
		Input: InputConfig{
			Encoding:     DefaultEncoding,
			MaxLineBytes: DefaultMaxLineBytes,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
			Header: DefaultHeader,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		RateLimiting: RateLimitConfig{
			FilesPerSecond: 0,
			BurstSize:      5,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
	}
}
