package schedule

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

var criticalScheduleID string

var criticalCmd = &cobra.Command{
	Use:   "critical",
	Short: "Compute the critical path",
	Long: `Run the forward and backward pass over the activity network and
print early/late dates, total float, and the critical path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(criticalScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		s, err := app.Queries.GetSchedule(cmd.Context(), scheduleApp.GetScheduleQuery{ScheduleID: scheduleID})
		if err != nil {
			return err
		}
		result, err := app.Queries.GetCriticalPath(cmd.Context(), scheduleApp.GetCriticalPathQuery{ScheduleID: scheduleID})
		if err != nil {
			return fmt.Errorf("failed to compute schedule: %w", err)
		}

		fmt.Printf("Project: %s .. %s\n",
			result.ProjectStart.Format(cli.DateLayout), result.ProjectFinish.Format(cli.DateLayout))
		fmt.Println(strings.Repeat("-", 80))
		fmt.Printf("%-10s %-12s %-12s %-12s %-12s %6s\n", "CODE", "ES", "EF", "LS", "LF", "FLOAT")

		for _, id := range result.Order {
			entry, ok := result.Activity(id)
			if !ok {
				continue
			}
			marker := " "
			if entry.Critical {
				marker = "!"
			}
			fmt.Printf("%s %-8s %-12s %-12s %-12s %-12s %5dd\n",
				marker, codeFor(s, id),
				entry.EarlyStart.Format(cli.DateLayout), entry.EarlyFinish.Format(cli.DateLayout),
				entry.LateStart.Format(cli.DateLayout), entry.LateFinish.Format(cli.DateLayout),
				entry.TotalFloat)
		}

		codes := make([]string, 0, len(result.CriticalPath))
		for _, id := range result.CriticalPath {
			codes = append(codes, codeFor(s, id))
		}
		fmt.Println(strings.Repeat("-", 80))
		fmt.Printf("Critical path: %s\n", strings.Join(codes, " -> "))
		return nil
	},
}

func init() {
	criticalCmd.Flags().StringVarP(&criticalScheduleID, "schedule", "s", "", "schedule ID (required)")
	criticalCmd.MarkFlagRequired("schedule")
}
