package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/libfinder/domain"
	svc "github.com/ludo-technologies/libfinder/service"
)

// targetConfigLoader is implemented by loaders that discover the config file
// relative to the analyzed directory
type targetConfigLoader interface {
	LoadConfigFor(configPath, targetDir string) (*domain.MatchRequest, string, error)
}

// MatchUseCase orchestrates the function matching workflow
type MatchUseCase struct {
	service      domain.MatchService
	fileReader   domain.FileReader
	formatter    domain.MatchOutputFormatter
	configLoader domain.MatchConfigurationLoader
	output       domain.ReportWriter
}

// NewMatchUseCase creates a new match use case
func NewMatchUseCase(
	service domain.MatchService,
	fileReader domain.FileReader,
	formatter domain.MatchOutputFormatter,
	configLoader domain.MatchConfigurationLoader,
) *MatchUseCase {
	return &MatchUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
	}
}

// prepareMatch merges configuration, validates the request and resolves
// both pools to concrete files
func (uc *MatchUseCase) prepareMatch(req domain.MatchRequest) (domain.MatchRequest, error) {
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return req, domain.NewConfigError("failed to load configuration", err)
	}

	if len(finalReq.Paths) == 0 {
		return req, domain.NewInvalidInputError("invalid request", fmt.Errorf("no input paths specified"))
	}
	if len(finalReq.CandidatePaths) == 0 {
		return req, domain.NewInvalidInputError("invalid request", fmt.Errorf("no candidate paths specified (use --candidates or input.candidates)"))
	}

	files, err := ResolveFilePaths(
		uc.fileReader,
		finalReq.Paths,
		finalReq.Recursive,
		finalReq.IncludePatterns,
		finalReq.ExcludePatterns,
	)
	if err != nil {
		return req, domain.NewFileNotFoundError("failed to collect source files", err)
	}
	if len(files) == 0 {
		return req, domain.NewInvalidInputError("no source files found in the specified paths", nil)
	}

	candidates, err := ResolveCandidatePaths(
		uc.fileReader,
		finalReq.CandidatePaths,
		finalReq.Recursive,
		finalReq.ExcludePatterns,
	)
	if err != nil {
		return req, domain.NewFileNotFoundError("failed to collect candidate files", err)
	}
	if len(candidates) == 0 {
		return req, domain.NewInvalidInputError("no candidate files found in the specified paths", nil)
	}

	finalReq.Paths = files
	finalReq.CandidatePaths = candidates

	if err := finalReq.Validate(); err != nil {
		return req, domain.NewInvalidInputError("invalid request", err)
	}
	return finalReq, nil
}

// Execute performs the complete matching workflow and writes the report
func (uc *MatchUseCase) Execute(ctx context.Context, req domain.MatchRequest) error {
	if req.OutputWriter == nil && req.OutputPath == "" {
		return domain.NewInvalidInputError("invalid request", fmt.Errorf("output writer or output path is required"))
	}

	response, finalReq, err := uc.match(ctx, req)
	if err != nil {
		return err
	}

	return uc.write(finalReq, func(w io.Writer) error {
		return uc.formatter.Write(response, finalReq.OutputFormat, w)
	})
}

// MatchAndReturn performs matching and returns the response without formatting
func (uc *MatchUseCase) MatchAndReturn(ctx context.Context, req domain.MatchRequest) (*domain.MatchResponse, error) {
	response, _, err := uc.match(ctx, req)
	return response, err
}

func (uc *MatchUseCase) match(ctx context.Context, req domain.MatchRequest) (*domain.MatchResponse, domain.MatchRequest, error) {
	finalReq, err := uc.prepareMatch(req)
	if err != nil {
		return nil, req, err
	}

	response, err := uc.service.Match(ctx, finalReq)
	if err != nil {
		return nil, finalReq, domain.NewAnalysisError("function matching failed", err)
	}
	return response, finalReq, nil
}

// CompareRequest names one function in each of two files
type CompareRequest struct {
	ReferencePath string
	ReferenceName string
	CandidatePath string
	CandidateName string
	Match         domain.MatchRequest
}

// Compare loads one reference and one candidate function and writes the
// full comparison report
func (uc *MatchUseCase) Compare(ctx context.Context, req CompareRequest) error {
	report, finalReq, err := uc.compare(ctx, req)
	if err != nil {
		return err
	}
	return uc.write(finalReq, func(w io.Writer) error {
		return uc.formatter.WriteComparison(report, finalReq.OutputFormat, w)
	})
}

// CompareAndReturn is Compare without formatting
func (uc *MatchUseCase) CompareAndReturn(ctx context.Context, req CompareRequest) (*domain.ComparisonReport, error) {
	report, _, err := uc.compare(ctx, req)
	return report, err
}

func (uc *MatchUseCase) compare(ctx context.Context, req CompareRequest) (*domain.ComparisonReport, domain.MatchRequest, error) {
	finalReq, err := uc.loadAndMergeConfig(req.Match)
	if err != nil {
		return nil, req.Match, domain.NewConfigError("failed to load configuration", err)
	}
	opts := svc.PoolOptions{DemangleNames: finalReq.DemangleNames}

	reference, err := uc.loadNamedFunction(ctx, req.ReferencePath, req.ReferenceName, false, opts)
	if err != nil {
		return nil, finalReq, err
	}
	candidate, err := uc.loadNamedFunction(ctx, req.CandidatePath, req.CandidateName, true, opts)
	if err != nil {
		return nil, finalReq, err
	}

	report, err := uc.service.Compare(ctx, reference, candidate, finalReq)
	if err != nil {
		return nil, finalReq, err
	}
	return report, finalReq, nil
}

// loadNamedFunction reads path as a source file or candidate pool and picks
// the function called name. An empty name selects the only function.
// Dumps are always read as dumps; other candidate files use the decompiler
// export layout only on the candidate side.
func (uc *MatchUseCase) loadNamedFunction(ctx context.Context, path, name string, candidateSide bool, opts svc.PoolOptions) (domain.Function, error) {
	exists, err := uc.fileReader.FileExists(path)
	if err != nil || !exists {
		return domain.Function{}, domain.NewFileNotFoundError(path, err)
	}

	var lister domain.FunctionLister
	switch {
	case svc.IsDumpFile(path), candidateSide && svc.IsCandidateFile(path):
		lister = svc.NewCandidateLister([]string{path}, uc.fileReader, opts, 1)
	default:
		lister = svc.NewSourceFunctionLister([]string{path}, uc.fileReader, opts)
	}

	functions, err := lister.ListFunctions(ctx)
	if err != nil {
		return domain.Function{}, err
	}
	return selectFunction(path, name, functions)
}

func selectFunction(path, name string, functions []domain.Function) (domain.Function, error) {
	if len(functions) == 0 {
		return domain.Function{}, domain.NewInvalidInputError(fmt.Sprintf("no functions found in %s", path), nil)
	}
	if name == "" {
		if len(functions) == 1 {
			return functions[0], nil
		}
		return domain.Function{}, domain.NewInvalidInputError(
			fmt.Sprintf("%s holds %d functions; choose one of: %s", path, len(functions), functionNames(functions)), nil)
	}
	for _, fn := range functions {
		if fn.Name == name {
			return fn, nil
		}
	}
	return domain.Function{}, domain.NewInvalidInputError(
		fmt.Sprintf("function %q not found in %s; available: %s", name, path, functionNames(functions)), nil)
}

func functionNames(functions []domain.Function) string {
	const limit = 10
	names := make([]string, 0, limit)
	for i, fn := range functions {
		if i == limit {
			names = append(names, "...")
			break
		}
		names = append(names, fn.Name)
	}
	return strings.Join(names, ", ")
}

// Extract lists the functions of the reference paths with their features
func (uc *MatchUseCase) Extract(ctx context.Context, req domain.MatchRequest) error {
	response, finalReq, err := uc.extract(ctx, req)
	if err != nil {
		return err
	}
	return uc.write(finalReq, func(w io.Writer) error {
		return uc.formatter.WriteExtraction(response, finalReq.OutputFormat, w)
	})
}

// ExtractAndReturn is Extract without formatting
func (uc *MatchUseCase) ExtractAndReturn(ctx context.Context, req domain.MatchRequest) (*domain.ExtractionResponse, error) {
	response, _, err := uc.extract(ctx, req)
	return response, err
}

func (uc *MatchUseCase) extract(ctx context.Context, req domain.MatchRequest) (*domain.ExtractionResponse, domain.MatchRequest, error) {
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, req, domain.NewConfigError("failed to load configuration", err)
	}
	if len(finalReq.Paths) == 0 {
		return nil, req, domain.NewInvalidInputError("invalid request", fmt.Errorf("no input paths specified"))
	}

	files, err := ResolveFilePaths(uc.fileReader, finalReq.Paths, finalReq.Recursive, finalReq.IncludePatterns, finalReq.ExcludePatterns)
	if err != nil {
		return nil, req, domain.NewFileNotFoundError("failed to collect source files", err)
	}
	if len(files) == 0 {
		return nil, req, domain.NewInvalidInputError("no source files found in the specified paths", nil)
	}
	finalReq.Paths = files

	response, err := uc.service.Extract(ctx, finalReq)
	if err != nil {
		return nil, finalReq, domain.NewAnalysisError("function extraction failed", err)
	}
	return response, finalReq, nil
}

func (uc *MatchUseCase) write(req domain.MatchRequest, writeFunc func(io.Writer) error) error {
	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, req.OutputFormat, writeFunc); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// loadAndMergeConfig loads configuration from file and merges with request
func (uc *MatchUseCase) loadAndMergeConfig(req domain.MatchRequest) (domain.MatchRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	var configReq *domain.MatchRequest
	var err error

	if tl, ok := uc.configLoader.(targetConfigLoader); ok {
		configReq, _, err = tl.LoadConfigFor(req.ConfigPath, configSearchDir(req.Paths))
		if err != nil {
			return req, err
		}
	} else if req.ConfigPath != "" {
		configReq, err = uc.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return req, fmt.Errorf("failed to load config from %s: %w", req.ConfigPath, err)
		}
	} else {
		configReq = uc.configLoader.LoadDefaultConfig()
	}

	if configReq != nil {
		merged := uc.configLoader.MergeConfig(configReq, &req)
		return *merged, nil
	}

	return req, nil
}

// configSearchDir picks the directory config discovery starts from
func configSearchDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	return paths[0]
}

// MatchUseCaseBuilder provides a builder pattern for creating MatchUseCase
type MatchUseCaseBuilder struct {
	service      domain.MatchService
	fileReader   domain.FileReader
	formatter    domain.MatchOutputFormatter
	configLoader domain.MatchConfigurationLoader
	output       domain.ReportWriter
}

// NewMatchUseCaseBuilder creates a new builder
func NewMatchUseCaseBuilder() *MatchUseCaseBuilder {
	return &MatchUseCaseBuilder{}
}

// WithService sets the match service
func (b *MatchUseCaseBuilder) WithService(service domain.MatchService) *MatchUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *MatchUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *MatchUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *MatchUseCaseBuilder) WithFormatter(formatter domain.MatchOutputFormatter) *MatchUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *MatchUseCaseBuilder) WithConfigLoader(configLoader domain.MatchConfigurationLoader) *MatchUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *MatchUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *MatchUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the MatchUseCase with the configured dependencies
func (b *MatchUseCaseBuilder) Build() (*MatchUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("match service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewMatchUseCase(
		b.service,
		b.fileReader,
		b.formatter,
		b.configLoader,
	)
	if b.output != nil {
		uc.output = b.output
	}
	return uc, nil
}
