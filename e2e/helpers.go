package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

const (
	addSource = `int add(int a, int b) {
    return a + b;
}
`
	clampSource = `int clamp(int value, int low, int high) {
    if (value < low) {
        return low;
    }
    if (value > high) {
        return high;
    }
    return value;
}
`
	decompiledExport = `int FUN_00401000(int param_1, int param_2)

{
  return param_1 + param_2;
}

int FUN_00401100(int param_1, int param_2, int param_3)

{
  if (param_1 < param_2) {
    return param_2;
  }
  if (param_3 < param_1) {
    return param_3;
  }
  return param_1;
}
`
)

// buildLibfinderBinary builds the CLI into a temporary directory
func buildLibfinderBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "libfinder")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/libfinder")

	// Build from the project root (one level up from e2e directory)
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build libfinder binary: %v\n%s", err, out)
	}
	return binaryPath
}

// createTestFile writes content to dir/filename, creating dir as needed
func createTestFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", dir, err)
	}
	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}
	return filePath
}

// createTestConfigFile creates a .libfinder.toml that directs reports to outputDir
func createTestConfigFile(t *testing.T, testDir, outputDir string) {
	t.Helper()
	content := fmt.Sprintf("[output]\ndirectory = %q\n", filepath.ToSlash(outputDir))
	createTestFile(t, testDir, ".libfinder.toml", content)
}

// setupProject lays out a source tree and a decompiler export
func setupProject(t *testing.T) (srcDir, exportPath string) {
	t.Helper()
	root := t.TempDir()
	srcDir = filepath.Join(root, "src")
	createTestFile(t, srcDir, "math.c", addSource+"\n"+clampSource)
	exportPath = createTestFile(t, filepath.Join(root, "exports"), "firmware.c", decompiledExport)
	return srcDir, exportPath
}
