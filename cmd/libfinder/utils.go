package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/internal/config"
	"github.com/ludo-technologies/libfinder/service"
)

// generateTimestampedFileName generates a filename with timestamp suffix
func generateTimestampedFileName(command, extension string) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", command, timestamp, extension)
}

// resolveOutputDirectory determines the report directory from configuration.
// Configuration errors are returned rather than hidden.
func resolveOutputDirectory(configPath, targetPath string) (string, error) {
	cfg, _, err := config.Resolve(configPath, targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg != nil && cfg.Output.Directory != "" {
		return cfg.Output.Directory, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".libfinder", "reports"), nil
	}
	return filepath.Join(cwd, ".libfinder", "reports"), nil
}

// generateOutputFilePath combines filename generation and directory resolution
func generateOutputFilePath(command, extension, configPath, targetPath string) (string, error) {
	filename := generateTimestampedFileName(command, extension)
	outputDir, err := resolveOutputDirectory(configPath, targetPath)
	if err != nil {
		return "", err
	}

	if mkErr := os.MkdirAll(outputDir, 0o755); mkErr != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, mkErr)
	}
	return filepath.Join(outputDir, filename), nil
}

// getTargetPathFromArgs extracts the first argument as target path, or returns "."
func getTargetPathFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// reportError prints a categorized error with recovery suggestions
func reportError(w io.Writer, err error, verbose bool) {
	categorizer := service.NewErrorCategorizer()
	catErr := categorizer.Categorize(err)

	fmt.Fprintf(w, "%s %s\n", color.RedString("Error:"), err)
	if catErr == nil {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", catErr.Category, catErr.Message)

	suggestions := categorizer.GetRecoverySuggestions(catErr.Category)
	if !verbose && len(suggestions) > 2 {
		suggestions = suggestions[:2]
	}
	if len(suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range suggestions {
			fmt.Fprintf(w, "  • %s\n", s)
		}
	}

	if code, ok := domain.CodeOf(err); ok && verbose {
		fmt.Fprintf(w, "\nError code: %s\n", code)
	}
}
