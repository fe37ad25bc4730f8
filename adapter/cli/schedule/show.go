package schedule

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
	"github.com/torvane/gantry/internal/schedule/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		schedules, err := app.Queries.ListSchedules(cmd.Context())
		if err != nil {
			return err
		}
		if len(schedules) == 0 {
			fmt.Println("No schedules yet. Create one with: gantry schedule create --name <name>")
			return nil
		}

		for _, s := range schedules {
			fmt.Printf("%s  %-30s  %d activities\n", s.ID(), s.Name(), len(s.Activities()))
		}
		return nil
	},
}

var showScheduleID string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a schedule's activities and dependencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(showScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		s, err := app.Queries.GetSchedule(cmd.Context(), scheduleApp.GetScheduleQuery{ScheduleID: scheduleID})
		if err != nil {
			return err
		}

		fmt.Printf("Schedule: %s\n", s.Name())
		if start := s.ProjectStart(); start != nil {
			fmt.Printf("Project start: %s\n", start.Format(cli.DateLayout))
		}
		fmt.Println(strings.Repeat("-", 72))

		for _, a := range s.Activities() {
			marker := " "
			if a.IsMilestone() {
				marker = "*"
			}
			dates := "unscheduled"
			if a.IsScheduled() {
				dates = fmt.Sprintf("%s .. %s", a.PlannedStart().Format(cli.DateLayout), a.PlannedFinish().Format(cli.DateLayout))
			}
			fmt.Printf("%s %-10s %-28s %2dd  %-24s %s (%d%%)\n",
				marker, a.Code(), a.Name(), a.Duration(), dates, a.Status(), a.PercentComplete())
		}

		if deps := s.Dependencies(); len(deps) > 0 {
			fmt.Println(strings.Repeat("-", 72))
			for _, d := range deps {
				fmt.Printf("  %s -> %s  %s", codeFor(s, d.PredecessorID()), codeFor(s, d.SuccessorID()), d.Kind())
				if d.Lag() != 0 {
					fmt.Printf(" %+dd", d.Lag())
				}
				fmt.Println()
			}
		}
		return nil
	},
}

func codeFor(s *domain.Schedule, id uuid.UUID) string {
	a, err := s.Activity(id)
	if err != nil {
		return id.String()
	}
	return a.Code()
}

func init() {
	showCmd.Flags().StringVarP(&showScheduleID, "schedule", "s", "", "schedule ID (required)")
	showCmd.MarkFlagRequired("schedule")
}
