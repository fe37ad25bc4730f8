// Package dependency wires the dependency CLI commands.
package dependency

import (
	"github.com/spf13/cobra"
)

// Cmd is the dependency command group
var Cmd = &cobra.Command{
	Use:     "dependency",
	Short:   "Manage dependencies between activities",
	Long:    `Link activities with typed, lagged precedence constraints.`,
	Aliases: []string{"dep", "link"},
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
}
