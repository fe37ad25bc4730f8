package activity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
	"github.com/torvane/gantry/internal/schedule/domain"
)

var (
	removeScheduleID string
	removeRef        string
	removeCascade    bool
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove an activity",
	Long: `Remove an activity from the schedule. Fails when the activity
still has dependencies unless --cascade removes them too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(removeScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}
		activityID, err := cli.ResolveActivity(cmd.Context(), app, scheduleID, removeRef)
		if err != nil {
			return err
		}

		removed, err := app.ActivityHandler.HandleRemove(cmd.Context(), scheduleApp.RemoveActivityCommand{
			ScheduleID: scheduleID,
			ActivityID: activityID,
			Cascade:    removeCascade,
		})
		if err != nil {
			var dependents *domain.HasDependentsError
			if errors.As(err, &dependents) {
				return fmt.Errorf("%w; re-run with --cascade to remove its edges too", err)
			}
			return fmt.Errorf("failed to remove activity: %w", err)
		}

		fmt.Printf("Removed activity %s\n", removeRef)
		if len(removed) > 0 {
			fmt.Printf("  Removed %d dependency edges with it\n", len(removed))
		}
		return nil
	},
}

func init() {
	removeCmd.Flags().StringVarP(&removeScheduleID, "schedule", "s", "", "schedule ID (required)")
	removeCmd.Flags().StringVar(&removeRef, "activity", "", "activity code or ID (required)")
	removeCmd.Flags().BoolVar(&removeCascade, "cascade", false, "also remove the activity's dependency edges")

	removeCmd.MarkFlagRequired("schedule")
	removeCmd.MarkFlagRequired("activity")
}
