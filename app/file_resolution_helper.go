package app

import "github.com/ludo-technologies/libfinder/domain"

// ResolveFilePaths resolves reference file paths for matching.
// Every path must exist. If all paths are already source files, returns them
// directly. Otherwise, collects source files from the provided paths using the
// specified filters.
//
// Parameters:
//   - fileReader: The file reader abstraction for file operations
//   - paths: The input paths to resolve (can be files or directories)
//   - recursive: Whether to recursively collect files from subdirectories
//   - includePatterns: Glob patterns for files to include
//   - excludePatterns: Glob patterns for files to exclude
func ResolveFilePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	if err := fileReader.ValidatePaths(paths); err != nil {
		return nil, err
	}
	if allExistingFiles(fileReader, paths, fileReader.IsValidSourceFile) {
		return paths, nil
	}
	return fileReader.CollectSourceFiles(paths, recursive, includePatterns, excludePatterns)
}

// ResolveCandidatePaths resolves candidate pool paths, which must all exist.
// Explicit files are kept as given; directories contribute every export and
// dump file they hold.
func ResolveCandidatePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	excludePatterns []string,
) ([]string, error) {
	if err := fileReader.ValidatePaths(paths); err != nil {
		return nil, err
	}
	if allExistingFiles(fileReader, paths, nil) {
		return paths, nil
	}
	return fileReader.CollectCandidateFiles(paths, recursive, excludePatterns)
}

// allExistingFiles reports whether every path is an existing regular file
// accepted by valid (when non-nil)
func allExistingFiles(fileReader domain.FileReader, paths []string, valid func(string) bool) bool {
	if len(paths) == 0 {
		return false
	}
	for _, path := range paths {
		if valid != nil && !valid(path) {
			return false
		}
		// FileExists returns true only for files, not directories
		exists, err := fileReader.FileExists(path)
		if err != nil || !exists {
			return false
		}
	}
	return true
}
