package domain

import (
	"context"
	"fmt"
)

// Function is one named function text handed across the core boundary.
// Text holds the declaration followed by its braced body.
type Function struct {
	Name   string `json:"name" yaml:"name"`
	Text   string `json:"text" yaml:"text"`
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`
}

// String returns string representation of Function
func (f Function) String() string {
	if f.Origin == "" {
		return f.Name
	}
	return fmt.Sprintf("%s (%s)", f.Name, f.Origin)
}

// Length returns the text length in characters
func (f Function) Length() int {
	return len([]rune(f.Text))
}

// FunctionLister supplies an ordered pool of functions.
// Decompiler exports, dump files and source scanners all sit behind it.
type FunctionLister interface {
	ListFunctions(ctx context.Context) ([]Function, error)
}

// FileReader defines the interface for reading and collecting source files
type FileReader interface {
	// CollectSourceFiles finds all C-like source files in the given paths
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// CollectCandidateFiles finds decompiler exports and function dumps in the given paths
	CollectCandidateFiles(paths []string, recursive bool, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidSourceFile checks if a file has a recognized source extension
	IsValidSourceFile(path string) bool

	// FileExists checks if a file exists and returns an error if not
	FileExists(path string) (bool, error)

	// ValidatePaths fails with FILE_NOT_FOUND for the first missing path
	ValidatePaths(paths []string) error
}

// ExtractedFunction describes the structural features of one source function
type ExtractedFunction struct {
	Name       string         `json:"name" yaml:"name"`
	Origin     string         `json:"origin,omitempty" yaml:"origin,omitempty"`
	Length     int            `json:"length" yaml:"length"`
	Parameters map[string]int `json:"parameters" yaml:"parameters"`
	Tokens     []string       `json:"tokens" yaml:"tokens"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// ExtractionResponse is the result of listing a source pool with its features
type ExtractionResponse struct {
	Functions   []ExtractedFunction `json:"functions" yaml:"functions"`
	Warnings    []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	GeneratedAt string              `json:"generated_at" yaml:"generated_at"`
	Version     string              `json:"version" yaml:"version"`
}
