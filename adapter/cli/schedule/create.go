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
	createName       string
	createProjectID  string
	createStart      string
	createContinuous bool
	createHolidays   []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new schedule",
	Long: `Create an empty schedule for a project.

The default calendar works Monday through Friday. Use --continuous for
around-the-clock work, and --holiday (repeatable) for non-working dates.

Examples:
  gantry schedule create --name "Terminal Expansion"
  gantry schedule create --name "Retrofit" --start 2024-01-01 --holiday 2024-07-04`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		projectID := uuid.New()
		if createProjectID != "" {
			projectID, err = uuid.Parse(createProjectID)
			if err != nil {
				return fmt.Errorf("invalid project ID: %w", err)
			}
		}

		var projectStart *time.Time
		if createStart != "" {
			start, err := cli.ParseDate(createStart)
			if err != nil {
				return err
			}
			projectStart = &start
		}

		holidays := make([]time.Time, 0, len(createHolidays))
		for _, raw := range createHolidays {
			h, err := cli.ParseDate(raw)
			if err != nil {
				return err
			}
			holidays = append(holidays, h)
		}

		id, err := app.CreateScheduleHandler.Handle(cmd.Context(), scheduleApp.CreateScheduleCommand{
			ProjectID:    projectID,
			Name:         createName,
			Continuous:   createContinuous,
			Holidays:     holidays,
			ProjectStart: projectStart,
		})
		if err != nil {
			return fmt.Errorf("failed to create schedule: %w", err)
		}

		fmt.Printf("Created schedule %q\n", createName)
		fmt.Printf("  Schedule ID: %s\n", id)
		fmt.Printf("  Project ID:  %s\n", projectID)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "schedule name (required)")
	createCmd.Flags().StringVar(&createProjectID, "project", "", "project ID (default: new)")
	createCmd.Flags().StringVar(&createStart, "start", "", "project start date (YYYY-MM-DD)")
	createCmd.Flags().BoolVar(&createContinuous, "continuous", false, "every day is a working day")
	createCmd.Flags().StringArrayVar(&createHolidays, "holiday", nil, "holiday date (YYYY-MM-DD, repeatable)")

	createCmd.MarkFlagRequired("name")
}
