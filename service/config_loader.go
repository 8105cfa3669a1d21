package service

import (
	"os"
	"time"

	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/internal/config"
)

// ConfigurationLoaderImpl implements the domain.MatchConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.MatchRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return c.convertToMatchRequest(cfg), nil
}

// LoadConfigFor loads the explicit config file, or discovers .libfinder.toml
// upward from targetDir. The second result is the file used, "" for defaults.
func (c *ConfigurationLoaderImpl) LoadConfigFor(configPath, targetDir string) (*domain.MatchRequest, string, error) {
	cfg, used, err := config.Resolve(configPath, targetDir)
	if err != nil {
		return nil, used, domain.NewConfigError("failed to load configuration file", err)
	}
	req := c.convertToMatchRequest(cfg)
	req.ConfigPath = used
	return req, used, nil
}

// LoadDefaultConfig loads the default configuration, first looking for
// .libfinder.toml from the current directory upward
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.MatchRequest {
	if req, _, err := c.LoadConfigFor("", "."); err == nil {
		return req
	}
	// If loading failed, fall back to hardcoded defaults
	return c.convertToMatchRequest(config.DefaultMatchConfig())
}

// MergeConfig merges a request built from command arguments onto a base
// configuration. Without flag tracking only non-zero override values win.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.MatchRequest, override *domain.MatchRequest) *domain.MatchRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if len(override.CandidatePaths) > 0 {
		merged.CandidatePaths = override.CandidatePaths
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.AliasThreshold > 0 {
		merged.AliasThreshold = override.AliasThreshold
	}
	if override.AliasScope != "" {
		merged.AliasScope = override.AliasScope
	}
	if override.SortBy != "" {
		merged.SortBy = override.SortBy
	}
	if override.MaxGoroutines > 0 {
		merged.MaxGoroutines = override.MaxGoroutines
	}
	if override.Timeout > 0 {
		merged.Timeout = override.Timeout
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	return &merged
}

// convertToMatchRequest converts internal config to domain request
func (c *ConfigurationLoaderImpl) convertToMatchRequest(cfg *config.MatchConfig) *domain.MatchRequest {
	outputFormat, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		outputFormat = domain.OutputFormatText
	}

	var sortBy domain.MatchSortCriteria
	switch cfg.Output.SortBy {
	case "name":
		sortBy = domain.SortMatchesByName
	case "origin":
		sortBy = domain.SortMatchesByOrigin
	default:
		sortBy = domain.SortMatchesByScore
	}

	return &domain.MatchRequest{
		Recursive:                 cfg.Input.Recursive,
		IncludePatterns:           cfg.Input.SourcePatterns,
		ExcludePatterns:           cfg.Input.ExcludePatterns,
		CandidatePaths:            cfg.Input.Candidates,
		DemangleNames:             cfg.Input.DemangleNames,
		AliasThreshold:            cfg.Matching.AliasThreshold,
		AliasScope:                domain.AliasScope(cfg.Matching.AliasScope),
		CheckCalls:                cfg.Matching.CheckCalls,
		MaxSequenceDelta:          cfg.Matching.MaxSequenceDelta,
		MinParameterBound:         cfg.Matching.MinParameterBound,
		ParameterSlackNumerator:   cfg.Matching.ParameterSlackNumerator,
		ParameterSlackDenominator: cfg.Matching.ParameterSlackDenominator,
		OutputFormat:              outputFormat,
		OutputWriter:              os.Stdout,
		ShowUnmatched:             cfg.Output.ShowUnmatched,
		ShowAliases:               cfg.Output.ShowAliases,
		SortBy:                    sortBy,
		MaxGoroutines:             cfg.Performance.MaxGoroutines,
		Timeout:                   time.Duration(cfg.Performance.TimeoutSeconds) * time.Second,
	}
}

// CreateConfigTemplate writes the default configuration file
func (c *ConfigurationLoaderImpl) CreateConfigTemplate(path string) error {
	return config.WriteDefaultConfig(path)
}
