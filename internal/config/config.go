package config

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/internal/constants"
	"github.com/spf13/viper"
)

// MatchConfig represents the complete libfinder configuration
type MatchConfig struct {
	Matching    MatchingConfig    `mapstructure:"matching" toml:"matching" yaml:"matching"`
	Input       InputConfig       `mapstructure:"input" toml:"input" yaml:"input"`
	Output      OutputConfig      `mapstructure:"output" toml:"output" yaml:"output"`
	Performance PerformanceConfig `mapstructure:"performance" toml:"performance" yaml:"performance"`
}

// MatchingConfig holds the similarity and structural heuristics
type MatchingConfig struct {
	// AliasThreshold is the combined score above which a candidate joins the alias cluster
	AliasThreshold float64 `mapstructure:"alias_threshold" toml:"alias_threshold" yaml:"alias_threshold"`

	// AliasScope is "all" or "similar"
	AliasScope string `mapstructure:"alias_scope" toml:"alias_scope" yaml:"alias_scope"`

	// CheckCalls enables the call-shape comparison
	CheckCalls bool `mapstructure:"check_calls" toml:"check_calls" yaml:"check_calls"`

	MaxSequenceDelta          int `mapstructure:"max_sequence_delta" toml:"max_sequence_delta" yaml:"max_sequence_delta"`
	MinParameterBound         int `mapstructure:"min_parameter_bound" toml:"min_parameter_bound" yaml:"min_parameter_bound"`
	ParameterSlackNumerator   int `mapstructure:"parameter_slack_numerator" toml:"parameter_slack_numerator" yaml:"parameter_slack_numerator"`
	ParameterSlackDenominator int `mapstructure:"parameter_slack_denominator" toml:"parameter_slack_denominator" yaml:"parameter_slack_denominator"`
}

// InputConfig controls how reference and candidate pools are collected
type InputConfig struct {
	SourcePatterns  []string `mapstructure:"source_patterns" toml:"source_patterns" yaml:"source_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" toml:"exclude_patterns" yaml:"exclude_patterns"`
	Recursive       bool     `mapstructure:"recursive" toml:"recursive" yaml:"recursive"`
	DemangleNames   bool     `mapstructure:"demangle_names" toml:"demangle_names" yaml:"demangle_names"`
	Candidates      []string `mapstructure:"candidates" toml:"candidates" yaml:"candidates"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format        string `mapstructure:"format" toml:"format" yaml:"format"`
	ShowUnmatched bool   `mapstructure:"show_unmatched" toml:"show_unmatched" yaml:"show_unmatched"`
	ShowAliases   bool   `mapstructure:"show_aliases" toml:"show_aliases" yaml:"show_aliases"`
	SortBy        string `mapstructure:"sort_by" toml:"sort_by" yaml:"sort_by"`
	Directory     string `mapstructure:"directory" toml:"directory" yaml:"directory"`
}

// PerformanceConfig bounds the matching workload
type PerformanceConfig struct {
	// MaxGoroutines limits candidate evaluation workers; 0 means runtime.NumCPU()
	MaxGoroutines int `mapstructure:"max_goroutines" toml:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds cancels a run after the given duration; 0 disables it
	TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultMatchConfig returns the default configuration
func DefaultMatchConfig() *MatchConfig {
	return &MatchConfig{
		Matching: MatchingConfig{
			AliasThreshold:            constants.DefaultAliasThreshold,
			AliasScope:                constants.AliasScopeAll,
			CheckCalls:                true,
			MaxSequenceDelta:          constants.DefaultMaxSequenceDelta,
			MinParameterBound:         constants.DefaultMinParameterBound,
			ParameterSlackNumerator:   constants.DefaultParameterSlackNumerator,
			ParameterSlackDenominator: constants.DefaultParameterSlackDenominator,
		},
		Input: InputConfig{
			SourcePatterns:  append([]string(nil), constants.DefaultSourcePatterns...),
			ExcludePatterns: []string{},
			Recursive:       true,
			DemangleNames:   true,
			Candidates:      []string{},
		},
		Output: OutputConfig{
			Format:        "text",
			ShowUnmatched: false,
			ShowAliases:   true,
			SortBy:        "score",
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  0,
			TimeoutSeconds: 0,
		},
	}
}

// LoadConfig loads configuration from an explicit file path.
// The format (toml, yaml or json) follows the file extension.
// An empty path returns the defaults.
func LoadConfig(configPath string) (*MatchConfig, error) {
	cfg := DefaultMatchConfig()
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Resolve loads the explicit config file when one is given, and otherwise
// discovers .libfinder.toml upward from targetDir. It also returns the path of
// the file that was used, or "" when only defaults apply.
func Resolve(configPath, targetDir string) (*MatchConfig, string, error) {
	if configPath != "" {
		cfg, err := LoadConfig(configPath)
		return cfg, configPath, err
	}

	loader := NewTomlConfigLoader()
	found := loader.FindConfigFile(targetDir)
	if found == "" {
		return DefaultMatchConfig(), "", nil
	}

	cfg, err := loader.LoadFile(found)
	if err != nil {
		return nil, found, err
	}
	return cfg, found, nil
}

// Validate validates the configuration values
func (c *MatchConfig) Validate() error {
	m := c.Matching
	if m.AliasThreshold < 0 || m.AliasThreshold > constants.DefaultMaxCombinedScore {
		return domain.NewConfigError(fmt.Sprintf("matching.alias_threshold must be between 0.0 and %.1f, got %v",
			constants.DefaultMaxCombinedScore, m.AliasThreshold), nil)
	}

	switch m.AliasScope {
	case constants.AliasScopeAll, constants.AliasScopeSimilar:
	default:
		return domain.NewConfigError(fmt.Sprintf("matching.alias_scope must be %q or %q, got %q",
			constants.AliasScopeAll, constants.AliasScopeSimilar, m.AliasScope), nil)
	}

	if m.MaxSequenceDelta < 0 {
		return domain.NewConfigError(fmt.Sprintf("matching.max_sequence_delta must be >= 0, got %d", m.MaxSequenceDelta), nil)
	}
	if m.MinParameterBound < 0 {
		return domain.NewConfigError(fmt.Sprintf("matching.min_parameter_bound must be >= 0, got %d", m.MinParameterBound), nil)
	}
	if m.ParameterSlackNumerator < 1 || m.ParameterSlackDenominator < 1 {
		return domain.NewConfigError(fmt.Sprintf("matching.parameter_slack must be positive, got %d/%d",
			m.ParameterSlackNumerator, m.ParameterSlackDenominator), nil)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		return domain.NewConfigError(fmt.Sprintf("output.format must be one of [text, json, yaml, csv], got %q", c.Output.Format), nil)
	}

	validSortBy := map[string]bool{
		"score":  true,
		"name":   true,
		"origin": true,
	}
	if !validSortBy[c.Output.SortBy] {
		return domain.NewConfigError(fmt.Sprintf("output.sort_by must be one of [score, name, origin], got %q", c.Output.SortBy), nil)
	}

	if c.Performance.MaxGoroutines < 0 {
		return domain.NewConfigError(fmt.Sprintf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines), nil)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return domain.NewConfigError(fmt.Sprintf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds), nil)
	}

	return nil
}
