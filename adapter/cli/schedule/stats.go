package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

var (
	statsScheduleID string
	statsAsOf       string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize schedule health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(statsScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		var asOf time.Time
		if statsAsOf != "" {
			asOf, err = cli.ParseDate(statsAsOf)
			if err != nil {
				return err
			}
		}

		stats, err := app.Queries.GetStats(cmd.Context(), scheduleApp.GetStatsQuery{ScheduleID: scheduleID, AsOf: asOf})
		if err != nil {
			return err
		}

		fmt.Printf("Activities:   %d (%d milestones)\n", stats.ActivityCount, stats.MilestoneCount)
		fmt.Printf("Dependencies: %d\n", stats.DependencyCount)
		fmt.Printf("Critical:     %d\n", stats.CriticalCount)
		fmt.Printf("Overdue:      %d\n", stats.OverdueCount)
		fmt.Printf("Complete:     %.1f%%\n", stats.PercentComplete)
		for status, n := range stats.StatusCounts {
			fmt.Printf("  %-14s %d\n", status, n)
		}
		if !stats.ProjectStart.IsZero() {
			fmt.Printf("Span: %s .. %s (%d working days)\n",
				stats.ProjectStart.Format(cli.DateLayout), stats.ProjectFinish.Format(cli.DateLayout),
				stats.TotalWorkingDays)
		}
		if stats.ProjectVariance != nil {
			fmt.Printf("Project variance: %+d working days\n", *stats.ProjectVariance)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsScheduleID, "schedule", "s", "", "schedule ID (required)")
	statsCmd.Flags().StringVar(&statsAsOf, "as-of", "", "reference date for overdue detection (YYYY-MM-DD, default: today)")
	statsCmd.MarkFlagRequired("schedule")
}
