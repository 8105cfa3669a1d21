package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ianlancetaylor/demangle"
	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/internal/analyzer"
	"github.com/sourcegraph/conc/pool"
	"gopkg.in/yaml.v3"
)

// PoolOptions controls the hygiene applied to every listed function
type PoolOptions struct {
	// DemangleNames rewrites C++ mangled names to their readable form
	DemangleNames bool
}

// sanitizeFunction applies the pool boundary rules. It reports false for
// functions that must not reach the matcher.
func sanitizeFunction(fn domain.Function, opts PoolOptions) (domain.Function, bool) {
	if fn.Name == "" || strings.HasPrefix(fn.Name, ".") {
		return fn, false
	}
	fn.Name = strings.ReplaceAll(fn.Name, "\x00", "0")
	fn.Text = strings.ReplaceAll(fn.Text, "\x00", "0")
	if opts.DemangleNames {
		fn.Name = demangleName(fn.Name)
	}
	return fn, true
}

// demangleName returns the readable form of an Itanium or Rust mangled name.
// Names that are not mangled come back unchanged.
func demangleName(name string) string {
	return demangle.Filter(name, demangle.NoParams)
}

// dumpDocument is the object form of a dump file
type dumpDocument struct {
	Functions []domain.Function `json:"functions" yaml:"functions"`
}

// DumpFunctionLister reads functions from JSON or YAML dump files.
// A dump is either a list of {name, text} objects or {functions: [...]}.
type DumpFunctionLister struct {
	paths      []string
	fileReader domain.FileReader
	opts       PoolOptions
}

// NewDumpFunctionLister creates a lister over dump files
func NewDumpFunctionLister(paths []string, fileReader domain.FileReader, opts PoolOptions) *DumpFunctionLister {
	return &DumpFunctionLister{paths: paths, fileReader: fileReader, opts: opts}
}

// ListFunctions implements domain.FunctionLister
func (l *DumpFunctionLister) ListFunctions(ctx context.Context) ([]domain.Function, error) {
	var functions []domain.Function
	for _, path := range l.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := l.fileReader.ReadFile(path)
		if err != nil {
			return nil, err
		}

		parsed, err := parseDump(path, content)
		if err != nil {
			return nil, err
		}

		for _, fn := range parsed {
			if fn.Origin == "" {
				fn.Origin = path
			}
			if fn, ok := sanitizeFunction(fn, l.opts); ok {
				functions = append(functions, fn)
			}
		}
	}
	return functions, nil
}

func parseDump(path string, content []byte) ([]domain.Function, error) {
	var list []domain.Function
	var doc dumpDocument

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(content, &list); err == nil {
			return list, nil
		}
		if err := json.Unmarshal(content, &doc); err != nil {
			return nil, domain.NewParseError(path, err)
		}
		return doc.Functions, nil
	}

	if err := yaml.Unmarshal(content, &list); err == nil {
		return list, nil
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, domain.NewParseError(path, err)
	}
	return doc.Functions, nil
}

// DecompiledCFunctionLister reads functions from decompiled C exports
type DecompiledCFunctionLister struct {
	paths      []string
	fileReader domain.FileReader
	opts       PoolOptions
}

// NewDecompiledCFunctionLister creates a lister over decompiler exports
func NewDecompiledCFunctionLister(paths []string, fileReader domain.FileReader, opts PoolOptions) *DecompiledCFunctionLister {
	return &DecompiledCFunctionLister{paths: paths, fileReader: fileReader, opts: opts}
}

// ListFunctions implements domain.FunctionLister
func (l *DecompiledCFunctionLister) ListFunctions(ctx context.Context) ([]domain.Function, error) {
	var functions []domain.Function
	for _, path := range l.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := l.fileReader.ReadFile(path)
		if err != nil {
			return nil, err
		}

		for _, nf := range analyzer.SplitDecompiledFunctions(string(content)) {
			fn := domain.Function{Name: nf.Name, Text: nf.Text, Origin: path}
			if fn, ok := sanitizeFunction(fn, l.opts); ok {
				functions = append(functions, fn)
			}
		}
	}
	return functions, nil
}

// SourceFunctionLister extracts functions from source files
type SourceFunctionLister struct {
	paths      []string
	fileReader domain.FileReader
	opts       PoolOptions
}

// NewSourceFunctionLister creates a lister over source files
func NewSourceFunctionLister(paths []string, fileReader domain.FileReader, opts PoolOptions) *SourceFunctionLister {
	return &SourceFunctionLister{paths: paths, fileReader: fileReader, opts: opts}
}

// ListFunctions implements domain.FunctionLister
func (l *SourceFunctionLister) ListFunctions(ctx context.Context) ([]domain.Function, error) {
	var functions []domain.Function
	for _, path := range l.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := l.fileReader.ReadFile(path)
		if err != nil {
			return nil, err
		}

		for _, sf := range analyzer.ExtractSourceFunctions(string(content)) {
			fn := domain.Function{
				Name:   sf.Name,
				Text:   sf.Text,
				Origin: fmt.Sprintf("%s:%d", path, sf.Line),
			}
			if fn, ok := sanitizeFunction(fn, l.opts); ok {
				functions = append(functions, fn)
			}
		}
	}
	return functions, nil
}

// CompositeFunctionLister concatenates several pools in order.
// The member listers run concurrently.
type CompositeFunctionLister struct {
	listers       []domain.FunctionLister
	maxGoroutines int
}

// NewCompositeFunctionLister creates a lister over several pools
func NewCompositeFunctionLister(maxGoroutines int, listers ...domain.FunctionLister) *CompositeFunctionLister {
	return &CompositeFunctionLister{listers: listers, maxGoroutines: maxGoroutines}
}

// ListFunctions implements domain.FunctionLister
func (l *CompositeFunctionLister) ListFunctions(ctx context.Context) ([]domain.Function, error) {
	results := make([][]domain.Function, len(l.listers))

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	if l.maxGoroutines > 0 {
		p = p.WithMaxGoroutines(l.maxGoroutines)
	}
	for i, lister := range l.listers {
		p.Go(func(ctx context.Context) error {
			fns, err := lister.ListFunctions(ctx)
			if err != nil {
				return err
			}
			results[i] = fns
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var functions []domain.Function
	for _, fns := range results {
		functions = append(functions, fns...)
	}
	return functions, nil
}

// IsDumpFile reports whether path holds a JSON or YAML function dump
func IsDumpFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// IsCandidateFile reports whether path can feed a candidate pool
func IsCandidateFile(path string) bool {
	if IsDumpFile(path) {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".txt":
		return true
	}
	return false
}

// NewCandidateLister routes candidate files to the matching lister by extension.
// Dumps keep their own order; decompiled exports follow in file order.
func NewCandidateLister(files []string, fileReader domain.FileReader, opts PoolOptions, maxGoroutines int) domain.FunctionLister {
	var dumps, exports []string
	for _, f := range files {
		if IsDumpFile(f) {
			dumps = append(dumps, f)
		} else {
			exports = append(exports, f)
		}
	}

	var listers []domain.FunctionLister
	if len(dumps) > 0 {
		listers = append(listers, NewDumpFunctionLister(dumps, fileReader, opts))
	}
	if len(exports) > 0 {
		listers = append(listers, NewDecompiledCFunctionLister(exports, fileReader, opts))
	}
	return NewCompositeFunctionLister(maxGoroutines, listers...)
}
