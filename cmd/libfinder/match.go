package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/libfinder/app"
	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/service"
)

// MatchCommand handles the match CLI command
type MatchCommand struct {
	matchFlags

	candidates    []string
	showUnmatched bool
	showAliases   bool
	sortBy        string
}

// NewMatchCommand creates a new match command
func NewMatchCommand() *MatchCommand {
	return &MatchCommand{
		matchFlags:    newMatchFlags(),
		showUnmatched: false,
		showAliases:   true,
		sortBy:        string(domain.SortMatchesByScore),
	}
}

// CreateCobraCommand creates the Cobra command for function matching
func (c *MatchCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [source paths...] --candidates <export>",
		Short: "Match library source functions against decompiled functions",
		Long: `Match every function found in the source paths against a candidate pool.

Candidates come from decompiler C exports (.c, .txt) or function dumps
(.json, .yaml holding name/text pairs). Directories given to --candidates
contribute every such file they contain.

For each source function the best scoring candidate that passes the
structural checks is reported, along with aliases whose score against the
best match exceeds --alias-threshold.

Examples:
  # Match a library against a Ghidra export
  libfinder match third_party/zlib --candidates firmware_decompiled.c

  # Include unmatched functions and sort by name
  libfinder match src/ --candidates dump.json --show-unmatched --sort name

  # Write a JSON report
  libfinder match src/ --candidates exports/ --json`,
		RunE: c.runMatch,
	}

	c.registerInput(cmd)
	cmd.Flags().StringSliceVarP(&c.candidates, service.FlagCandidates, "C", nil,
		"Candidate files or directories (decompiler exports or dumps)")
	c.registerMatching(cmd)
	c.registerOutput(cmd)
	cmd.Flags().BoolVar(&c.showUnmatched, service.FlagShowUnmatched, c.showUnmatched,
		"Include source functions without a match")
	cmd.Flags().BoolVar(&c.showAliases, service.FlagShowAliases, c.showAliases,
		"Include alias clusters in the report")
	cmd.Flags().StringVar(&c.sortBy, service.FlagSort, c.sortBy,
		"Sort results by: score, name, origin")
	c.registerPerformance(cmd)

	return cmd
}

// runMatch executes the match command
func (c *MatchCommand) runMatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	request, err := c.createMatchRequest(cmd.OutOrStdout(), args)
	if err != nil {
		return fmt.Errorf("failed to create match request: %w", err)
	}

	useCase, err := createUseCase(cmd, c.progress())
	if err != nil {
		return fmt.Errorf("failed to create match use case: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := useCase.Execute(ctx, *request); err != nil {
		return fmt.Errorf("function matching failed: %w", err)
	}
	return nil
}

// createMatchRequest creates a match request from command line flags
func (c *MatchCommand) createMatchRequest(stdout io.Writer, paths []string) (*domain.MatchRequest, error) {
	request, err := c.baseRequest(stdout, "match", paths)
	if err != nil {
		return nil, err
	}

	sortBy, err := parseSortCriteria(c.sortBy)
	if err != nil {
		return nil, err
	}

	request.CandidatePaths = c.candidates
	request.ShowUnmatched = c.showUnmatched
	request.ShowAliases = c.showAliases
	request.SortBy = sortBy
	return request, nil
}

// parseSortCriteria parses and validates the sort criteria
func parseSortCriteria(sort string) (domain.MatchSortCriteria, error) {
	switch domain.MatchSortCriteria(sort) {
	case domain.SortMatchesByScore, domain.SortMatchesByName, domain.SortMatchesByOrigin:
		return domain.MatchSortCriteria(sort), nil
	default:
		return "", fmt.Errorf("invalid sort criteria '%s', must be one of: score, name, origin", sort)
	}
}

// createUseCase wires the match use case with flag-aware configuration loading
func createUseCase(cmd *cobra.Command, progress domain.MatchProgress) (*app.MatchUseCase, error) {
	explicitFlags := GetExplicitFlags(cmd)

	fileReader := service.NewFileReader()
	matchService := service.NewMatchService(fileReader, progress)
	matchService.SetWarningWriter(cmd.ErrOrStderr())

	return app.NewMatchUseCaseBuilder().
		WithService(matchService).
		WithFileReader(fileReader).
		WithFormatter(service.NewMatchOutputFormatter()).
		WithConfigLoader(service.NewConfigurationLoaderWithFlags(explicitFlags)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// NewMatchCmd creates and returns the match cobra command
func NewMatchCmd() *cobra.Command {
	return NewMatchCommand().CreateCobraCommand()
}
