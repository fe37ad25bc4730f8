// Package baseline wires the baseline CLI commands.
package baseline

import (
	"github.com/spf13/cobra"
)

// Cmd is the baseline command group
var Cmd = &cobra.Command{
	Use:   "baseline",
	Short: "Snapshot and compare planned dates",
	Long:  `Save baselines of planned dates and track slip against them.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(clearCmd)
}
