package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileReader_MatchesPattern(t *testing.T) {
	fr := NewFileReader()

	cases := map[string]struct {
		hits   []string
		misses []string
	}{
		"src/cli/**": {
			hits:   []string{"src/cli/main.c", "src/cli/sub/file.c"},
			misses: []string{"other/dir/file.c"},
		},
		"**/test.c": {
			hits: []string{"test.c", "deep/nested/test.c"},
		},
		"vendor/**": {
			hits: []string{"vendor/zlib/inflate.c"},
		},
		"third_party/**": {
			hits: []string{"src/third_party/lz4/lz4.c", "/home/user/fw/src/third_party/module.c"},
		},
		"CMakeFiles/**": {
			hits: []string{"CMakeFiles/3.28/CompilerIdC/CMakeCCompilerId.c"},
		},
		"build/**": {
			hits: []string{"build"},
		},
		"test_*.c": {
			hits:   []string{"test_example.c"},
			misses: []string{"example_test.c"},
		},
		"src/cli/*.c": {
			hits:   []string{"src/cli/main.c"},
			misses: []string{"src/cli/sub/file.c"},
		},
	}

	for pattern, c := range cases {
		for _, path := range c.hits {
			assert.True(t, fr.matchesPattern(pattern, path), "%s should match %s", pattern, path)
		}
		for _, path := range c.misses {
			assert.False(t, fr.matchesPattern(pattern, path), "%s should not match %s", pattern, path)
		}
	}
}

func TestFileReader_ShouldIncludeFile(t *testing.T) {
	fr := NewFileReader()
	exclude := []string{"test_*.c", "*_test.c", "src/cli/**", "vendor/**"}

	included := []string{"src/main.c", "src/core/inflate.c"}
	excluded := []string{
		"test_example.c",
		"example_test.c",
		"src/cli/main.c",
		"src/cli/commands/run.c",
		"vendor/zlib/inflate.c",
		"src/readme.md",
	}

	for _, path := range included {
		assert.True(t, fr.shouldIncludeFile(path, []string{"*.c"}, exclude), path)
	}
	for _, path := range excluded {
		assert.False(t, fr.shouldIncludeFile(path, []string{"*.c"}, exclude), path)
	}
}
