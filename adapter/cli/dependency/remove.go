package dependency

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

var (
	removeScheduleID string
	removePred       string
	removeSucc       string
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a dependency edge",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(removeScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}
		predID, err := cli.ResolveActivity(cmd.Context(), app, scheduleID, removePred)
		if err != nil {
			return err
		}
		succID, err := cli.ResolveActivity(cmd.Context(), app, scheduleID, removeSucc)
		if err != nil {
			return err
		}

		if err := app.DependencyHandler.HandleRemove(cmd.Context(), scheduleApp.RemoveDependencyCommand{
			ScheduleID:    scheduleID,
			PredecessorID: predID,
			SuccessorID:   succID,
		}); err != nil {
			return fmt.Errorf("failed to remove dependency: %w", err)
		}

		fmt.Printf("Unlinked %s -> %s\n", removePred, removeSucc)
		return nil
	},
}

func init() {
	removeCmd.Flags().StringVarP(&removeScheduleID, "schedule", "s", "", "schedule ID (required)")
	removeCmd.Flags().StringVar(&removePred, "from", "", "predecessor activity code or ID (required)")
	removeCmd.Flags().StringVar(&removeSucc, "to", "", "successor activity code or ID (required)")

	removeCmd.MarkFlagRequired("schedule")
	removeCmd.MarkFlagRequired("from")
	removeCmd.MarkFlagRequired("to")
}
