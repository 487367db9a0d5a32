package cli

import (
	"fmt"
	"strings"

	"github.com/ppiankov/playlens/internal/model"
	"github.com/ppiankov/playlens/internal/pipeline"
	"github.com/ppiankov/playlens/internal/playlist"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// setDefaults registers every config key so env overrides apply to all of
// them during Unmarshal
func setDefaults(v *viper.Viper) {
	def := model.DefaultConfig()

	v.SetDefault("classification.keywords", def.Classification.Keywords)
	v.SetDefault("classification.attribute", def.Classification.Attribute)
	v.SetDefault("input.encoding", def.Input.Encoding)
	v.SetDefault("input.max_line_bytes", def.Input.MaxLineBytes)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.header", def.Output.Header)
	v.SetDefault("output.stats", def.Output.Stats)
	v.SetDefault("concurrency.workers", def.Concurrency.Workers)
	v.SetDefault("rate_limiting.files_per_second", def.RateLimiting.FilesPerSecond)
	v.SetDefault("rate_limiting.burst_size", def.RateLimiting.BurstSize)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.ttl", def.Cache.TTL)
}

// buildConfig decodes the layered settings into a Config. Every key has a
// registered default, so decoding starts from an empty Config.
func buildConfig(v *viper.Viper) (*model.Config, error) {
	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// validateConfig rejects settings the analyzer cannot run with
func validateConfig(cfg *model.Config) error {
	if err := pipeline.ValidateFormat(cfg.Output.Format); err != nil {
		return err
	}
	if err := playlist.ValidateEncoding(cfg.Input.Encoding); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Classification.Attribute) == "" {
		return fmt.Errorf("classification.attribute must not be empty")
	}
	if cfg.Input.MaxLineBytes <= 0 {
		return fmt.Errorf("input.max_line_bytes must be positive, got %d", cfg.Input.MaxLineBytes)
	}
	return nil
}

// Analysis flags shared by analyze, batch and watch
var (
	keywords  string
	attribute string
	encoding  string
	format    string
	header    string
	stats     bool
)

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&keywords, "keywords", strings.Join(model.DefaultKeywords(), ","), "comma-separated keywords matched against group labels")
	cmd.Flags().StringVar(&attribute, "attribute", model.DefaultAttribute, "directive attribute holding the group label")
	cmd.Flags().StringVar(&encoding, "encoding", model.DefaultEncoding, "input character encoding (e.g. utf-8, windows-1254)")
	cmd.Flags().StringVar(&format, "format", model.DefaultFormat, "output format (text, json, yaml, markdown)")
	cmd.Flags().StringVar(&header, "header", model.DefaultHeader, "first line of the text report")
	cmd.Flags().BoolVar(&stats, "stats", false, "append diagnostic counters to the report")
}

// loadConfig builds the effective config for cmd: flags the user set win
// over env, config file and defaults
func loadConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := buildConfig(settings)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("keywords") {
		cfg.Classification.Keywords = splitKeywords(keywords)
	}
	if flags.Changed("attribute") {
		cfg.Classification.Attribute = attribute
	}
	if flags.Changed("encoding") {
		cfg.Input.Encoding = encoding
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("header") {
		cfg.Output.Header = header
	}
	if flags.Changed("stats") {
		cfg.Output.Stats = stats
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
