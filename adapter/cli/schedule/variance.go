package schedule

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

var varianceScheduleID string

var varianceCmd = &cobra.Command{
	Use:   "variance",
	Short: "Compare planned dates against the active baseline",
	Long: `Report per-activity and project-level slip against the active
baseline, in working days. Positive values are behind plan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(varianceScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		s, err := app.Queries.GetSchedule(cmd.Context(), scheduleApp.GetScheduleQuery{ScheduleID: scheduleID})
		if err != nil {
			return err
		}
		report, err := app.Queries.GetVariance(cmd.Context(), scheduleApp.GetVarianceQuery{ScheduleID: scheduleID})
		if err != nil {
			return fmt.Errorf("failed to compute variance: %w", err)
		}

		fmt.Printf("%-10s %8s %8s\n", "CODE", "START", "FINISH")
		for _, v := range report.Activities {
			fmt.Printf("%-10s %+7dd %+7dd\n", codeFor(s, v.ActivityID), v.StartVariance, v.FinishVariance)
		}
		fmt.Println(strings.Repeat("-", 30))
		fmt.Printf("Project finish: %s (baseline %s)\n",
			report.ProjectFinish.Format(cli.DateLayout), report.BaselineProjectFinish.Format(cli.DateLayout))
		fmt.Printf("Project variance: %+d working days\n", report.ProjectVariance)
		return nil
	},
}

func init() {
	varianceCmd.Flags().StringVarP(&varianceScheduleID, "schedule", "s", "", "schedule ID (required)")
	varianceCmd.MarkFlagRequired("schedule")
}
