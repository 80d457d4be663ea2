package config

import (
	"github.com/jackzampolin/docket/internal/analyze"
)

// Config holds docket configuration.
// Stored at: ~/.docket/config.yaml
type Config struct {
	Analysis AnalysisCfg `mapstructure:"analysis" yaml:"analysis"`
	Batch    BatchCfg    `mapstructure:"batch" yaml:"batch"`
	Library  LibraryCfg  `mapstructure:"library" yaml:"library"`
	Log      LogCfg      `mapstructure:"log" yaml:"log"`
}

// AnalysisCfg tunes the page layout heuristics.
type AnalysisCfg struct {
	HeaderZonePct     float64 `mapstructure:"header_zone_pct" yaml:"header_zone_pct"`         // Fraction of page height treated as header
	FooterZoneStart   float64 `mapstructure:"footer_zone_start" yaml:"footer_zone_start"`     // Fraction of page height where footer begins
	TableRowBin       float64 `mapstructure:"table_row_bin" yaml:"table_row_bin"`             // Vertical bin size in points for row grouping
	TableGapTolerance float64 `mapstructure:"table_gap_tolerance" yaml:"table_gap_tolerance"` // Allowed deviation from mean column gap
	TableMinColumns   int     `mapstructure:"table_min_columns" yaml:"table_min_columns"`     // Minimum aligned blocks to call a row
	HeadingMinSize    float64 `mapstructure:"heading_min_size" yaml:"heading_min_size"`       // Font size at or above which text is a heading
	BodyMinSize       float64 `mapstructure:"body_min_size" yaml:"body_min_size"`             // Font size at or above which text is body
}

// BatchCfg controls directory analysis runs.
type BatchCfg struct {
	Workers       int `mapstructure:"workers" yaml:"workers"`               // Concurrent documents
	RetryAttempts int `mapstructure:"retry_attempts" yaml:"retry_attempts"` // Attempts per document before recording failure
}

// LibraryCfg controls the pattern library store.
type LibraryCfg struct {
	// Path overrides the library file location (default: ~/.docket/library.json).
	Path string `mapstructure:"path" yaml:"path"`
	// AutoSave flushes the library after every mutating command.
	AutoSave bool `mapstructure:"auto_save" yaml:"auto_save"`
}

// LogCfg controls logging output.
type LogCfg struct {
	Level  string `mapstructure:"level" yaml:"level"`   // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	opts := analyze.DefaultOptions()
	return &Config{
		Analysis: AnalysisCfg{
			HeaderZonePct:     opts.HeaderZonePct,
			FooterZoneStart:   opts.FooterZoneStart,
			TableRowBin:       opts.TableRowBin,
			TableGapTolerance: opts.TableGapTolerance,
			TableMinColumns:   opts.TableMinColumns,
			HeadingMinSize:    opts.HeadingMinSize,
			BodyMinSize:       opts.BodyMinSize,
		},
		Batch: BatchCfg{
			Workers:       4,
			RetryAttempts: 3,
		},
		Library: LibraryCfg{
			AutoSave: true,
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
	}
}

// ToAnalyzerOptions converts the analysis section to analyzer options,
// falling back to defaults for unset values.
func (c *Config) ToAnalyzerOptions() analyze.Options {
	opts := analyze.DefaultOptions()
	if c.Analysis.HeaderZonePct > 0 {
		opts.HeaderZonePct = c.Analysis.HeaderZonePct
	}
	if c.Analysis.FooterZoneStart > 0 {
		opts.FooterZoneStart = c.Analysis.FooterZoneStart
	}
	if c.Analysis.TableRowBin > 0 {
		opts.TableRowBin = c.Analysis.TableRowBin
	}
	if c.Analysis.TableGapTolerance > 0 {
		opts.TableGapTolerance = c.Analysis.TableGapTolerance
	}
	if c.Analysis.TableMinColumns > 0 {
		opts.TableMinColumns = c.Analysis.TableMinColumns
	}
	if c.Analysis.HeadingMinSize > 0 {
		opts.HeadingMinSize = c.Analysis.HeadingMinSize
	}
	if c.Analysis.BodyMinSize > 0 {
		opts.BodyMinSize = c.Analysis.BodyMinSize
	}
	return opts
}

// Workers returns the configured batch worker count, defaulting to 4.
func (c *Config) Workers() int {
	if c.Batch.Workers > 0 {
		return c.Batch.Workers
	}
	return 4
}

// RetryAttempts returns the configured per-document attempts, defaulting to 3.
func (c *Config) RetryAttempts() int {
	if c.Batch.RetryAttempts > 0 {
		return c.Batch.RetryAttempts
	}
	return 3
}
