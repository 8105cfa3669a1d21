package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/libfinder/domain"
)

// FileOutputWriter implements domain.ReportWriter. File reports are staged in
// a temporary sibling and renamed into place once writeFunc succeeds; the
// saved path is then announced on status.
type FileOutputWriter struct {
	status io.Writer
}

// NewFileOutputWriter announces saved reports on status, stderr when nil.
func NewFileOutputWriter(status io.Writer) *FileOutputWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileOutputWriter{status: status}
}

func (w *FileOutputWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		if err := writeFunc(writer); err != nil {
			return domain.NewOutputError("failed to write output", err)
		}
		return nil
	}

	if err := writeFileAtomically(outputPath, writeFunc); err != nil {
		return err
	}

	shown := outputPath
	if abs, err := filepath.Abs(outputPath); err == nil {
		shown = abs
	}
	fmt.Fprintf(w.status, "%s report generated: %s\n", strings.ToUpper(string(format)), shown)
	return nil
}

func writeFileAtomically(path string, writeFunc func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewOutputError("failed to create output directory "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return domain.NewOutputError("failed to create output file "+path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = writeFunc(tmp); err != nil {
		_ = tmp.Close()
		return domain.NewOutputError("failed to write output", err)
	}
	if err = tmp.Close(); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	// CreateTemp uses 0600
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return domain.NewOutputError("failed to move report into place: "+path, err)
	}
	return nil
}
