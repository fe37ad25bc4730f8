// Package activity wires the activity-level CLI commands.
package activity

import (
	"github.com/spf13/cobra"
)

// Cmd is the activity command group
var Cmd = &cobra.Command{
	Use:   "activity",
	Short: "Manage schedule activities",
	Long:  `Add, remove, reschedule, and track progress on activities.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(progressCmd)
	Cmd.AddCommand(rescheduleCmd)
}
