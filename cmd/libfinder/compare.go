package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/libfinder/app"
)

// CompareCommand handles the compare CLI command
type CompareCommand struct {
	matchFlags

	referenceName string
	candidateName string
}

// NewCompareCommand creates a new compare command
func NewCompareCommand() *CompareCommand {
	return &CompareCommand{matchFlags: newMatchFlags()}
}

// CreateCobraCommand creates the Cobra command for pairwise comparison
func (c *CompareCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <reference file> <candidate file>",
		Short: "Explain the comparison of one source function with one candidate",
		Long: `Compare a single reference function with a single candidate and print
every intermediate result: normalized parameters and tokens, cosine and
sequence-ratio scores and each structural verdict.

The reference file is read as source code (or a dump); the candidate file
as a decompiler export or dump. When a file holds several functions, pick
one with --ref or --cand.

Examples:
  libfinder compare src/inflate.c export.c --ref inflate_fast --cand FUN_00402310
  libfinder compare add.c dump.json --cand FUN_00401000 --json`,
		Args: cobra.ExactArgs(2),
		RunE: c.runCompare,
	}

	cmd.Flags().StringVar(&c.referenceName, "ref", "", "Reference function name")
	cmd.Flags().StringVar(&c.candidateName, "cand", "", "Candidate function name")
	c.registerInput(cmd)
	c.registerMatching(cmd)
	c.registerOutput(cmd)

	return cmd
}

// runCompare executes the compare command
func (c *CompareCommand) runCompare(cmd *cobra.Command, args []string) error {
	request, err := c.baseRequest(cmd.OutOrStdout(), "compare", args[:1])
	if err != nil {
		return fmt.Errorf("failed to create compare request: %w", err)
	}

	useCase, err := createUseCase(cmd, nil)
	if err != nil {
		return fmt.Errorf("failed to create match use case: %w", err)
	}

	return useCase.Compare(context.Background(), app.CompareRequest{
		ReferencePath: args[0],
		ReferenceName: c.referenceName,
		CandidatePath: args[1],
		CandidateName: c.candidateName,
		Match:         *request,
	})
}

// NewCompareCmd creates and returns the compare cobra command
func NewCompareCmd() *cobra.Command {
	return NewCompareCommand().CreateCobraCommand()
}
