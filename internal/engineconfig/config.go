// Package engineconfig handles engine-wide configuration loading from TOML
// files and environment variables, the way internal/config does for the
// wider application this engine was extracted from.
package engineconfig

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the root engine configuration structure.
type Config struct {
	Width    WidthConfig    `toml:"width"`
	Wrap     WrapConfig     `toml:"wrap"`
	Pool     PoolConfig     `toml:"pool"`
	SpanFeed SpanFeedConfig `toml:"span_feed"`
}

// WidthConfig selects the default display-width method (§4.2).
type WidthConfig struct {
	// Method is one of "wcwidth", "unicode", "no_zwj".
	Method   string `toml:"method"`
	TabWidth int    `toml:"tab_width"`
}

// WrapConfig holds default wrapping behavior for new TextBufferViews.
type WrapConfig struct {
	Mode      string `toml:"mode"` // "none", "char", "word"
	Truncate  bool   `toml:"truncate"`
	Ellipsis  string `toml:"ellipsis"`
}

// PoolConfig holds GraphemePool sizing.
type PoolConfig struct {
	SizeClasses []int `toml:"size_classes"`
	PageSlots   int   `toml:"page_slots"`
}

// SpanFeedConfig holds NativeSpanFeed defaults.
type SpanFeedConfig struct {
	ChunkSize         int    `toml:"chunk_size"`
	InitialChunks     int    `toml:"initial_chunks"`
	MaxBytes          int64  `toml:"max_bytes"`
	GrowthPolicy      string `toml:"growth_policy"` // "grow", "block"
	AutoCommitOnFull  bool   `toml:"auto_commit_on_full"`
	SpanQueueCapacity int    `toml:"span_queue_capacity"`
}

// Default returns the built-in configuration used when no TOML file is
// supplied — sane defaults for every knob the engine exposes.
func Default() *Config {
	return &Config{
		Width: WidthConfig{Method: "unicode", TabWidth: 8},
		Wrap:  WrapConfig{Mode: "none", Truncate: false, Ellipsis: "..."},
		Pool: PoolConfig{
			SizeClasses: []int{8, 16, 32, 64, 128},
			PageSlots:   256,
		},
		SpanFeed: SpanFeedConfig{
			ChunkSize:         4096,
			InitialChunks:     1,
			MaxBytes:          0,
			GrowthPolicy:      "grow",
			AutoCommitOnFull:  true,
			SpanQueueCapacity: 4096,
		},
	}
}

// Load reads configuration from a TOML file, falling back to Default()
// values for anything the file doesn't set, then applies environment
// variable overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return nil, errors.New("config path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Width.Method {
	case "wcwidth", "unicode", "no_zwj":
	default:
		errs = append(errs, fmt.Errorf("width.method=%q must be one of wcwidth, unicode, no_zwj", c.Width.Method))
	}
	if c.Width.TabWidth <= 0 {
		errs = append(errs, fmt.Errorf("width.tab_width=%d must be positive", c.Width.TabWidth))
	}

	switch c.Wrap.Mode {
	case "none", "char", "word":
	default:
		errs = append(errs, fmt.Errorf("wrap.mode=%q must be one of none, char, word", c.Wrap.Mode))
	}

	switch c.SpanFeed.GrowthPolicy {
	case "grow", "block":
	default:
		errs = append(errs, fmt.Errorf("span_feed.growth_policy=%q must be grow or block", c.SpanFeed.GrowthPolicy))
	}
	if c.SpanFeed.ChunkSize <= 0 {
		errs = append(errs, errors.New("span_feed.chunk_size must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"SYMB_WIDTH_METHOD", func(v string) {
			if v != "" {
				cfg.Width.Method = v
			}
		}},
		{"SYMB_WRAP_MODE", func(v string) {
			if v != "" {
				cfg.Wrap.Mode = v
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}
