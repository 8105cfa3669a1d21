package main

import (
	"os"

	"github.com/ludo-technologies/libfinder/internal/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the libfinder command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "libfinder",
		Short: "Match decompiled functions against library source code",
		Long: `libfinder identifies known library functions inside a stripped binary.

It compares every function of a source tree (the reference pool) against
functions recovered by a decompiler (the candidate pool) and reports, for
each reference, the most similar candidate together with any aliases that
are nearly indistinguishable from it.

Features:
  • Normalization of decompiler noise (casts, typedefs, stack variables)
  • Cosine and sequence-ratio scoring over lexical features
  • Structural gates on parameter usage, control keywords and call shapes
  • Text, JSON, YAML and CSV reports`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewMatchCmd())
	rootCmd.AddCommand(NewCompareCmd())
	rootCmd.AddCommand(NewExtractCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		reportError(rootCmd.ErrOrStderr(), err, verbose)
		os.Exit(1)
	}
}
