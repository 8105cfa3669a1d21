package main

import (
	"io"
	"time"

	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/internal/constants"
	"github.com/ludo-technologies/libfinder/service"
	"github.com/spf13/cobra"
)

// matchFlags holds the options shared by match, compare and extract
type matchFlags struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string
	demangle        bool

	// Matching heuristics
	aliasThreshold    float64
	aliasScope        string
	checkCalls        bool
	maxSequenceDelta  int
	minParameterBound int

	// Output format flags (only one should be true)
	json bool
	csv  bool
	yaml bool

	outputPath string
	noProgress bool

	// Performance options
	maxGoroutines int
	timeout       time.Duration
}

func newMatchFlags() matchFlags {
	return matchFlags{
		recursive:         true,
		demangle:          true,
		aliasThreshold:    constants.DefaultAliasThreshold,
		aliasScope:        constants.AliasScopeAll,
		checkCalls:        true,
		maxSequenceDelta:  constants.DefaultMaxSequenceDelta,
		minParameterBound: constants.DefaultMinParameterBound,
	}
}

func (f *matchFlags) registerInput(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.recursive, service.FlagRecursive, "r", f.recursive,
		"Recursively collect files from directories")
	cmd.Flags().StringVarP(&f.configFile, "config", "c", f.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&f.includePatterns, service.FlagInclude, nil,
		"Source file patterns to include")
	cmd.Flags().StringSliceVar(&f.excludePatterns, service.FlagExclude, nil,
		"File patterns to exclude")
	cmd.Flags().BoolVar(&f.demangle, service.FlagDemangle, f.demangle,
		"Demangle C++ symbol names")
}

func (f *matchFlags) registerMatching(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.aliasThreshold, service.FlagAliasThreshold, f.aliasThreshold,
		"Combined score (0.0-2.0) above which candidates are reported as aliases")
	cmd.Flags().StringVar(&f.aliasScope, service.FlagAliasScope, f.aliasScope,
		"Candidates compared against the best match: all, similar")
	cmd.Flags().BoolVar(&f.checkCalls, service.FlagCheckCalls, f.checkCalls,
		"Compare call shapes between reference and candidate")
	cmd.Flags().IntVar(&f.maxSequenceDelta, service.FlagMaxSequenceDelta, f.maxSequenceDelta,
		"Maximum token sequence length difference when call shapes are not compared")
	cmd.Flags().IntVar(&f.minParameterBound, service.FlagMinParameterBound, f.minParameterBound,
		"Minimum candidate parameter usage budget")

	// Tuning knobs belong in .libfinder.toml
	_ = cmd.Flags().MarkHidden(service.FlagMaxSequenceDelta)
	_ = cmd.Flags().MarkHidden(service.FlagMinParameterBound)
}

func (f *matchFlags) registerOutput(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.json, service.FlagJSON, false, "Generate JSON report file")
	cmd.Flags().BoolVar(&f.csv, service.FlagCSV, false, "Generate CSV report file")
	cmd.Flags().BoolVar(&f.yaml, service.FlagYAML, false, "Generate YAML report file")
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "",
		"Write the report to this file instead of the default location")
}

func (f *matchFlags) registerPerformance(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxGoroutines, service.FlagMaxGoroutines, 0,
		"Maximum concurrent candidate evaluations (0 = number of CPUs)")
	cmd.Flags().DurationVar(&f.timeout, service.FlagTimeout, 0,
		"Maximum time for a matching run (e.g., 5m, 30s)")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "Disable the progress bar")
}

// baseRequest builds the request fields common to every command.
// Text output goes to stdout unless --output is set; other formats are
// written to a timestamped report file.
func (f *matchFlags) baseRequest(stdout io.Writer, command string, paths []string) (*domain.MatchRequest, error) {
	outputFormat, extension, err := service.SelectOutputFormat(f.json, f.csv, f.yaml)
	if err != nil {
		return nil, err
	}

	var outputWriter io.Writer
	outputPath := f.outputPath
	if outputPath == "" {
		if outputFormat == domain.OutputFormatText {
			outputWriter = stdout
		} else {
			outputPath, err = generateOutputFilePath(command, extension, f.configFile, getTargetPathFromArgs(paths))
			if err != nil {
				return nil, err
			}
		}
	}

	return &domain.MatchRequest{
		Paths:             paths,
		Recursive:         f.recursive,
		IncludePatterns:   f.includePatterns,
		ExcludePatterns:   f.excludePatterns,
		DemangleNames:     f.demangle,
		AliasThreshold:    f.aliasThreshold,
		AliasScope:        domain.AliasScope(f.aliasScope),
		CheckCalls:        f.checkCalls,
		MaxSequenceDelta:  f.maxSequenceDelta,
		MinParameterBound: f.minParameterBound,
		OutputFormat:      outputFormat,
		OutputWriter:      outputWriter,
		OutputPath:        outputPath,
		MaxGoroutines:     f.maxGoroutines,
		Timeout:           f.timeout,
		ConfigPath:        f.configFile,
	}, nil
}

// progress returns a bar on stderr for interactive sessions, nil otherwise
func (f *matchFlags) progress() domain.MatchProgress {
	if f.noProgress || !service.ProgressEnabled() {
		return nil
	}
	return service.NewMatchProgressBar(nil)
}
