package activity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
	"github.com/torvane/gantry/internal/schedule/domain"
)

var (
	progressScheduleID string
	progressRef        string
	progressPercent    int
	progressStarted    string
	progressFinished   string
	progressStatus     string
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Record execution progress on an activity",
	Long: `Record actual dates, percent complete, or a status change.
Progress tracking never moves planned dates; use reschedule for that.

Examples:
  gantry activity progress -s <id> --activity A100 --started 2024-01-02
  gantry activity progress -s <id> --activity A100 --percent 60
  gantry activity progress -s <id> --activity A100 --finished 2024-01-08
  gantry activity progress -s <id> --activity A200 --status cancelled`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(progressScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}
		activityID, err := cli.ResolveActivity(cmd.Context(), app, scheduleID, progressRef)
		if err != nil {
			return err
		}

		update := scheduleApp.UpdateProgressCommand{
			ScheduleID: scheduleID,
			ActivityID: activityID,
		}
		if cmd.Flags().Changed("percent") {
			update.PercentComplete = &progressPercent
		}
		if progressStarted != "" {
			started, err := cli.ParseDate(progressStarted)
			if err != nil {
				return err
			}
			update.ActualStart = &started
		}
		if progressFinished != "" {
			finished, err := cli.ParseDate(progressFinished)
			if err != nil {
				return err
			}
			update.ActualFinish = &finished
		}
		if progressStatus != "" {
			status, err := domain.ParseStatus(progressStatus)
			if err != nil {
				return err
			}
			update.Status = &status
		}
		if update.PercentComplete == nil && update.ActualStart == nil &&
			update.ActualFinish == nil && update.Status == nil {
			return fmt.Errorf("nothing to update; pass --percent, --started, --finished, or --status")
		}

		if err := app.ActivityHandler.HandleProgress(cmd.Context(), update); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}

		fmt.Printf("Updated %s\n", progressRef)
		return nil
	},
}

func init() {
	progressCmd.Flags().StringVarP(&progressScheduleID, "schedule", "s", "", "schedule ID (required)")
	progressCmd.Flags().StringVar(&progressRef, "activity", "", "activity code or ID (required)")
	progressCmd.Flags().IntVar(&progressPercent, "percent", 0, "percent complete (0-100)")
	progressCmd.Flags().StringVar(&progressStarted, "started", "", "actual start date (YYYY-MM-DD)")
	progressCmd.Flags().StringVar(&progressFinished, "finished", "", "actual finish date (YYYY-MM-DD)")
	progressCmd.Flags().StringVar(&progressStatus, "status", "", "explicit status override")

	progressCmd.MarkFlagRequired("schedule")
	progressCmd.MarkFlagRequired("activity")
}
