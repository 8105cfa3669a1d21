package main

import (
	"fmt"

	"github.com/ludo-technologies/libfinder/internal/version"
	"github.com/ludo-technologies/libfinder/service"
	"github.com/spf13/cobra"
)

// VersionCommand prints build metadata
type VersionCommand struct {
	short  bool
	asJSON bool
}

func NewVersionCommand() *VersionCommand {
	return &VersionCommand{}
}

func (v *VersionCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Print the libfinder version, the commit it was built from and the Go
toolchain. Builds without release ldflags fall back to the module and VCS
information embedded by the Go toolchain.

Examples:
  libfinder version
  libfinder version --short
  libfinder version --json`,
		Args: cobra.NoArgs,
		RunE: v.run,
	}

	cmd.Flags().BoolVarP(&v.short, "short", "s", false, "Print only the version number")
	cmd.Flags().BoolVar(&v.asJSON, "json", false, "Print build metadata as JSON")
	cmd.MarkFlagsMutuallyExclusive("short", "json")
	return cmd
}

func (v *VersionCommand) run(cmd *cobra.Command, _ []string) error {
	info := version.Get()
	out := cmd.OutOrStdout()
	switch {
	case v.short:
		_, err := fmt.Fprintln(out, info.Version)
		return err
	case v.asJSON:
		return service.WriteJSON(out, info)
	default:
		_, err := fmt.Fprintln(out, info)
		return err
	}
}

func NewVersionCmd() *cobra.Command {
	return NewVersionCommand().CreateCobraCommand()
}
