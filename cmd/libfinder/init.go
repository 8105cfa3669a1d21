package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/libfinder/internal/config"
	"github.com/spf13/cobra"
)

// InitCommand writes a commented .libfinder.toml holding every default
type InitCommand struct {
	configPath string
	force      bool
	stdout     bool
}

func NewInitCommand() *InitCommand {
	return &InitCommand{configPath: config.ConfigFileName}
}

func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .libfinder.toml with default settings",
		Long: `Create a .libfinder.toml file with every setting at its default value.

libfinder discovers the file by walking up from the analyzed directory, so
placing it at the root of a source tree applies it to every run below.

Examples:
  libfinder init
  libfinder init --config configs/firmware.toml
  libfinder init --force
  libfinder init --stdout > firmware.toml`,
		Args: cobra.NoArgs,
		RunE: i.run,
	}

	cmd.Flags().StringVarP(&i.configPath, "config", "c", i.configPath, "Where to write the configuration file")
	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Replace an existing file")
	cmd.Flags().BoolVar(&i.stdout, "stdout", false, "Print the configuration instead of writing it")
	return cmd
}

func (i *InitCommand) run(cmd *cobra.Command, _ []string) error {
	if i.stdout {
		content, err := config.GenerateDefaultConfigTOML()
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), content)
		return err
	}

	target, err := filepath.Abs(i.configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if _, statErr := os.Stat(target); statErr == nil && !i.force {
		return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	if err := config.WriteDefaultConfig(target); err != nil {
		return err
	}

	shown := target
	if rel, relErr := filepath.Rel(".", target); relErr == nil {
		shown = rel
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration file created: %s\n\n", shown)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Set input.candidates to your decompiler export or function dump")
	fmt.Fprintln(out, "  2. Run 'libfinder match <source-dir>'")
	return nil
}

func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
