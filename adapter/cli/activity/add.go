package activity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

var (
	addScheduleID string
	addCode       string
	addName       string
	addWBS        string
	addNotes      string
	addStart      string
	addDuration   int
	addMilestone  bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an activity to a schedule",
	Long: `Add an activity. Duration is in working days; an activity with
duration n that starts on a working day finishes on the nth working day.
Milestones have zero duration and finish the day they start.

Examples:
  gantry activity add -s <id> --code A100 --name "Pour foundation" --start 2024-01-01 --duration 5
  gantry activity add -s <id> --code M1 --name "Permit approved" --start 2024-02-01 --milestone
  gantry activity add -s <id> --code A200 --name "Framing" --duration 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(addScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		var start time.Time
		if addStart != "" {
			start, err = cli.ParseDate(addStart)
			if err != nil {
				return err
			}
		}

		duration := addDuration
		if addMilestone {
			duration = 0
		}

		activity, err := app.ActivityHandler.HandleAdd(cmd.Context(), scheduleApp.AddActivityCommand{
			ScheduleID:   scheduleID,
			Code:         addCode,
			Name:         addName,
			WBSCode:      addWBS,
			Notes:        addNotes,
			PlannedStart: start,
			DurationDays: duration,
		})
		if err != nil {
			return fmt.Errorf("failed to add activity: %w", err)
		}

		fmt.Printf("Added activity %s (%s)\n", activity.Code(), activity.Name())
		if activity.IsScheduled() {
			fmt.Printf("  Planned: %s .. %s\n",
				activity.PlannedStart().Format(cli.DateLayout),
				activity.PlannedFinish().Format(cli.DateLayout))
		} else {
			fmt.Println("  Unscheduled; dates will derive from dependencies")
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addScheduleID, "schedule", "s", "", "schedule ID (required)")
	addCmd.Flags().StringVar(&addCode, "code", "", "activity code, unique within the schedule (required)")
	addCmd.Flags().StringVar(&addName, "name", "", "activity name (required)")
	addCmd.Flags().StringVar(&addWBS, "wbs", "", "work breakdown structure code")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes")
	addCmd.Flags().StringVar(&addStart, "start", "", "planned start (YYYY-MM-DD, omit to leave unscheduled)")
	addCmd.Flags().IntVarP(&addDuration, "duration", "d", 1, "duration in working days")
	addCmd.Flags().BoolVar(&addMilestone, "milestone", false, "zero-duration milestone")

	addCmd.MarkFlagRequired("schedule")
	addCmd.MarkFlagRequired("code")
	addCmd.MarkFlagRequired("name")
}
