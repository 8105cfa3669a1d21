package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ExtractCommand handles the extract CLI command
type ExtractCommand struct {
	matchFlags
}

// NewExtractCommand creates a new extract command
func NewExtractCommand() *ExtractCommand {
	return &ExtractCommand{matchFlags: newMatchFlags()}
}

// CreateCobraCommand creates the Cobra command for function extraction
func (c *ExtractCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [source paths...]",
		Short: "List source functions with their normalized features",
		Long: `Extract every function from the source paths and print the features
used for matching: parameter usage counts and the control/call token
sequence. Useful to check what libfinder sees before running a match.

Examples:
  libfinder extract src/crc32.c
  libfinder extract third_party/zlib --yaml`,
		RunE: c.runExtract,
	}

	c.registerInput(cmd)
	c.registerOutput(cmd)

	return cmd
}

// runExtract executes the extract command
func (c *ExtractCommand) runExtract(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	request, err := c.baseRequest(cmd.OutOrStdout(), "extract", args)
	if err != nil {
		return fmt.Errorf("failed to create extract request: %w", err)
	}

	useCase, err := createUseCase(cmd, nil)
	if err != nil {
		return fmt.Errorf("failed to create match use case: %w", err)
	}

	return useCase.Extract(context.Background(), *request)
}

// NewExtractCmd creates and returns the extract cobra command
func NewExtractCmd() *cobra.Command {
	return NewExtractCommand().CreateCobraCommand()
}
