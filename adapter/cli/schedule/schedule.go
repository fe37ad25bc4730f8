// Package schedule wires the schedule-level CLI commands.
package schedule

import (
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage project schedules",
	Long:  `Create schedules, inspect the critical path, and track baseline variance.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(criticalCmd)
	Cmd.AddCommand(statsCmd)
	Cmd.AddCommand(varianceCmd)
	Cmd.AddCommand(exportCmd)
	Cmd.AddCommand(importCmd)
}
