package activity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

var (
	rescheduleScheduleID string
	rescheduleRef        string
	rescheduleStart      string
	rescheduleFinish     string
	rescheduleDuration   int
)

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule",
	Short: "Move or resize an activity",
	Long: `Change an activity's planned dates or duration and push every
successor whose constraints the change violates. Successors only ever
move later; slack absorbs what it can.

Examples:
  gantry activity reschedule -s <id> --activity A100 --start 2024-01-08
  gantry activity reschedule -s <id> --activity A100 --duration 8
  gantry activity reschedule -s <id> --activity A100 --start 2024-01-08 --finish 2024-01-12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(rescheduleScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}
		activityID, err := cli.ResolveActivity(cmd.Context(), app, scheduleID, rescheduleRef)
		if err != nil {
			return err
		}

		change := scheduleApp.RescheduleActivityCommand{
			ScheduleID: scheduleID,
			ActivityID: activityID,
		}
		if rescheduleStart != "" {
			start, err := cli.ParseDate(rescheduleStart)
			if err != nil {
				return err
			}
			change.NewStart = &start
		}
		if rescheduleFinish != "" {
			finish, err := cli.ParseDate(rescheduleFinish)
			if err != nil {
				return err
			}
			change.NewFinish = &finish
		}
		if cmd.Flags().Changed("duration") {
			change.NewDuration = &rescheduleDuration
		}

		result, err := app.RescheduleHandler.Handle(cmd.Context(), change)
		if err != nil {
			return fmt.Errorf("failed to reschedule: %w", err)
		}

		fmt.Printf("Rescheduled; %d activities moved\n", len(result.Changes))
		s, err := app.Queries.GetSchedule(cmd.Context(), scheduleApp.GetScheduleQuery{ScheduleID: scheduleID})
		if err != nil {
			return nil
		}
		for _, c := range result.Changes {
			a, err := s.Activity(c.ActivityID)
			if err != nil {
				continue
			}
			fmt.Printf("  %-10s %s..%s -> %s..%s\n", a.Code(),
				c.OldStart.Format(cli.DateLayout), c.OldFinish.Format(cli.DateLayout),
				c.NewStart.Format(cli.DateLayout), c.NewFinish.Format(cli.DateLayout))
		}
		fmt.Printf("Project finish: %s\n", result.Result.ProjectFinish.Format(cli.DateLayout))
		return nil
	},
}

func init() {
	rescheduleCmd.Flags().StringVarP(&rescheduleScheduleID, "schedule", "s", "", "schedule ID (required)")
	rescheduleCmd.Flags().StringVar(&rescheduleRef, "activity", "", "activity code or ID (required)")
	rescheduleCmd.Flags().StringVar(&rescheduleStart, "start", "", "new planned start (YYYY-MM-DD)")
	rescheduleCmd.Flags().StringVar(&rescheduleFinish, "finish", "", "new planned finish (YYYY-MM-DD)")
	rescheduleCmd.Flags().IntVarP(&rescheduleDuration, "duration", "d", 0, "new duration in working days")

	rescheduleCmd.MarkFlagRequired("schedule")
	rescheduleCmd.MarkFlagRequired("activity")
}
