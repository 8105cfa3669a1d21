package service

import (
	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/internal/config"
)

// Flag names shared by the CLI and the merge logic
const (
	FlagCandidates        = "candidates"
	FlagAliasThreshold    = "alias-threshold"
	FlagAliasScope        = "alias-scope"
	FlagCheckCalls        = "check-calls"
	FlagDemangle          = "demangle"
	FlagMaxSequenceDelta  = "max-sequence-delta"
	FlagMinParameterBound = "min-parameter-bound"
	FlagShowUnmatched     = "show-unmatched"
	FlagShowAliases       = "show-aliases"
	FlagSort              = "sort"
	FlagMaxGoroutines     = "max-goroutines"
	FlagTimeout           = "timeout"
	FlagRecursive         = "recursive"
	FlagInclude           = "include"
	FlagExclude           = "exclude"
	FlagJSON              = "json"
	FlagYAML              = "yaml"
	FlagCSV               = "csv"
)

// flagFields copies the field a flag controls from the command-line request
// onto the merged one.
var flagFields = map[string]func(dst, src *domain.MatchRequest){
	FlagAliasThreshold:    func(d, s *domain.MatchRequest) { d.AliasThreshold = s.AliasThreshold },
	FlagAliasScope:        func(d, s *domain.MatchRequest) { d.AliasScope = s.AliasScope },
	FlagCheckCalls:        func(d, s *domain.MatchRequest) { d.CheckCalls = s.CheckCalls },
	FlagDemangle:          func(d, s *domain.MatchRequest) { d.DemangleNames = s.DemangleNames },
	FlagMaxSequenceDelta:  func(d, s *domain.MatchRequest) { d.MaxSequenceDelta = s.MaxSequenceDelta },
	FlagMinParameterBound: func(d, s *domain.MatchRequest) { d.MinParameterBound = s.MinParameterBound },
	FlagShowUnmatched:     func(d, s *domain.MatchRequest) { d.ShowUnmatched = s.ShowUnmatched },
	FlagShowAliases:       func(d, s *domain.MatchRequest) { d.ShowAliases = s.ShowAliases },
	FlagSort:              func(d, s *domain.MatchRequest) { d.SortBy = s.SortBy },
	FlagMaxGoroutines:     func(d, s *domain.MatchRequest) { d.MaxGoroutines = s.MaxGoroutines },
	FlagTimeout:           func(d, s *domain.MatchRequest) { d.Timeout = s.Timeout },
	FlagRecursive:         func(d, s *domain.MatchRequest) { d.Recursive = s.Recursive },
}

// ConfigurationLoaderWithFlags lets configuration values stand unless the
// user typed the corresponding flag.
type ConfigurationLoaderWithFlags struct {
	loader   *ConfigurationLoaderImpl
	explicit config.ExplicitFlags
}

// NewConfigurationLoaderWithFlags takes the explicitly set flag names, as
// produced by config.ExplicitFlags.Map.
func NewConfigurationLoaderWithFlags(explicitFlags map[string]bool) *ConfigurationLoaderWithFlags {
	return &ConfigurationLoaderWithFlags{
		loader:   NewConfigurationLoader(),
		explicit: config.ExplicitFromMap(explicitFlags),
	}
}

func (c *ConfigurationLoaderWithFlags) LoadConfig(path string) (*domain.MatchRequest, error) {
	return c.loader.LoadConfig(path)
}

func (c *ConfigurationLoaderWithFlags) LoadConfigFor(configPath, targetDir string) (*domain.MatchRequest, string, error) {
	return c.loader.LoadConfigFor(configPath, targetDir)
}

func (c *ConfigurationLoaderWithFlags) LoadDefaultConfig() *domain.MatchRequest {
	return c.loader.LoadDefaultConfig()
}

func (c *ConfigurationLoaderWithFlags) CreateConfigTemplate(path string) error {
	return c.loader.CreateConfigTemplate(path)
}

// MergeConfig lays the command-line request over the configuration. Paths,
// writers and the config path always come from the command line; other
// fields only when their flag was typed.
func (c *ConfigurationLoaderWithFlags) MergeConfig(base *domain.MatchRequest, override *domain.MatchRequest) *domain.MatchRequest {
	switch {
	case base == nil:
		return override
	case override == nil:
		return base
	}

	merged := *base
	e := c.explicit

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	// A text request only replaces a configured format when a format flag was typed
	if (override.OutputFormat != "" && override.OutputFormat != domain.OutputFormatText) ||
		e.Any(FlagJSON, FlagYAML, FlagCSV) {
		merged.OutputFormat = override.OutputFormat
	}

	for name, apply := range flagFields {
		if e.Has(name) {
			apply(&merged, override)
		}
	}

	merged.CandidatePaths = config.PickList(e, FlagCandidates, merged.CandidatePaths, override.CandidatePaths)
	merged.IncludePatterns = config.PickList(e, FlagInclude, merged.IncludePatterns, override.IncludePatterns)
	merged.ExcludePatterns = config.PickList(e, FlagExclude, merged.ExcludePatterns, override.ExcludePatterns)

	return &merged
}
