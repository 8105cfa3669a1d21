package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ludo-technologies/libfinder/domain"
)

var sourceExtensions = map[string]bool{
	".c":   true,
	".cc":  true,
	".cpp": true,
	".cxx": true,
	".h":   true,
	".hh":  true,
	".hpp": true,
}

// FileReaderImpl implements the FileReader interface
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// CollectSourceFiles finds all C-like source files in the given paths
func (f *FileReaderImpl) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	return f.CollectFiles(paths, recursive, f.IsValidSourceFile, includePatterns, excludePatterns)
}

// CollectCandidateFiles finds candidate pool files (.c, .txt, .json, .yaml, .yml)
func (f *FileReaderImpl) CollectCandidateFiles(paths []string, recursive bool, excludePatterns []string) ([]string, error) {
	return f.CollectFiles(paths, recursive, IsCandidateFile, nil, excludePatterns)
}

// CollectFiles finds files accepted by accept in the given paths.
// Explicitly named files bypass accept but not the patterns.
func (f *FileReaderImpl) CollectFiles(paths []string, recursive bool, accept func(string) bool, includePatterns, excludePatterns []string) ([]string, error) {
	if err := f.ValidatePatterns(append(append([]string{}, includePatterns...), excludePatterns...)); err != nil {
		return nil, err
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := f.collectFromDirectory(path, recursive, accept, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			files = append(files, dirFiles...)
		} else if f.shouldIncludeFile(path, nil, excludePatterns) {
			files = append(files, path)
		}
	}

	return files, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidSourceFile checks if a file has a C or C++ source extension
func (f *FileReaderImpl) IsValidSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// FileExists checks if a file exists
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// ValidatePatterns checks that every glob pattern is well formed
func (f *FileReaderImpl) ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if pattern == "" {
			return domain.NewInvalidInputError("empty glob pattern", nil)
		}
		if !doublestar.ValidatePattern(pattern) {
			return domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %s", pattern), nil)
		}
	}
	return nil
}

// ValidatePaths validates that all provided paths exist and are accessible
func (f *FileReaderImpl) ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}

func (f *FileReaderImpl) collectFromDirectory(dirPath string, recursive bool, accept func(string) bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped
			return nil
		}

		if path == dirPath {
			return nil
		}

		if d.IsDir() && !recursive {
			return filepath.SkipDir
		}

		// Skip hidden directories and files
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if f.shouldSkipDirectory(d.Name()) || f.isExcluded(path, excludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if accept(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(dirPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

// shouldIncludeFile checks if a file should be included based on patterns
func (f *FileReaderImpl) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if f.isExcluded(path, excludePatterns) {
		return false
	}

	// If no include patterns specified, include by default
	if len(includePatterns) == 0 {
		return true
	}

	for _, pattern := range includePatterns {
		if f.matchesPattern(pattern, path) {
			return true
		}
	}
	return false
}

func (f *FileReaderImpl) isExcluded(path string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if f.matchesPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchesPattern matches a glob against the path, its base name and every
// trailing sub-path, so relative patterns apply anywhere in the tree.
func (f *FileReaderImpl) matchesPattern(pattern, path string) bool {
	p := filepath.ToSlash(path)
	if matched, _ := doublestar.Match(pattern, p); matched {
		return true
	}
	if matched, _ := doublestar.Match(pattern, filepath.Base(p)); matched {
		return true
	}
	for i := 0; i < len(p); i++ {
		if p[i] != '/' {
			continue
		}
		if matched, _ := doublestar.Match(pattern, p[i+1:]); matched {
			return true
		}
	}
	return false
}

// shouldSkipDirectory checks if a directory should be skipped entirely
func (f *FileReaderImpl) shouldSkipDirectory(dirName string) bool {
	skipDirs := []string{
		"CMakeFiles",
		"node_modules",
		"_deps",
	}
	for _, skipDir := range skipDirs {
		if strings.EqualFold(skipDir, dirName) {
			return true
		}
	}
	return false
}
