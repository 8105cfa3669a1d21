package main

import (
	"github.com/ludo-technologies/libfinder/internal/config"
	"github.com/spf13/cobra"
)

// GetExplicitFlags lists the flags the user typed for cmd
func GetExplicitFlags(cmd *cobra.Command) map[string]bool {
	if cmd == nil {
		return map[string]bool{}
	}
	return config.ExplicitFromFlagSet(cmd.Flags()).Map()
}
