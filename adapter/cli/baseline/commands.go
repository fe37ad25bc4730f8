package baseline

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

var (
	createScheduleID  string
	createName        string
	createDescription string
	createActivate    bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the current planned dates",
	Long: `Save every scheduled activity's planned dates as a baseline.
With --activate the new baseline immediately becomes the variance
reference.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(createScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		baseline, err := app.BaselineHandler.HandleCreate(cmd.Context(), scheduleApp.CreateBaselineCommand{
			ScheduleID:  scheduleID,
			Name:        createName,
			Description: createDescription,
			Activate:    createActivate,
		})
		if err != nil {
			return fmt.Errorf("failed to create baseline: %w", err)
		}

		fmt.Printf("Created baseline %q (%d activities)\n", baseline.Name(), len(baseline.Entries()))
		fmt.Printf("  Baseline ID: %s\n", baseline.ID())
		if createActivate {
			fmt.Println("  Now active")
		}
		return nil
	},
}

var listScheduleID string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a schedule's baselines",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(listScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		s, err := app.Queries.GetSchedule(cmd.Context(), scheduleApp.GetScheduleQuery{ScheduleID: scheduleID})
		if err != nil {
			return err
		}
		baselines := s.Baselines()
		if len(baselines) == 0 {
			fmt.Println("No baselines yet. Create one with: gantry baseline create")
			return nil
		}
		for _, b := range baselines {
			marker := " "
			if b.IsActive() {
				marker = "*"
			}
			fmt.Printf("%s %s  %-20s %d activities  %s\n",
				marker, b.ID(), b.Name(), len(b.Entries()), b.CreatedAt().Format(cli.DateLayout))
		}
		return nil
	},
}

var (
	activateScheduleID string
	activateBaselineID string
)

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Make a baseline the variance reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(activateScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}
		baselineID, err := uuid.Parse(activateBaselineID)
		if err != nil {
			return fmt.Errorf("invalid baseline ID: %w", err)
		}

		if err := app.BaselineHandler.HandleActivate(cmd.Context(), scheduleApp.SetActiveBaselineCommand{
			ScheduleID: scheduleID,
			BaselineID: baselineID,
		}); err != nil {
			return fmt.Errorf("failed to activate baseline: %w", err)
		}

		fmt.Println("Baseline activated")
		return nil
	},
}

var clearScheduleID string

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove baseline fields from every activity",
	Long: `Deactivate the active baseline and clear baseline dates from the
activities. The baseline records survive and can be reactivated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(clearScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		if err := app.BaselineHandler.HandleClear(cmd.Context(), scheduleApp.ClearBaselineCommand{
			ScheduleID: scheduleID,
		}); err != nil {
			return fmt.Errorf("failed to clear baseline: %w", err)
		}

		fmt.Println("Baseline cleared")
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createScheduleID, "schedule", "s", "", "schedule ID (required)")
	createCmd.Flags().StringVar(&createName, "name", "", "baseline name (required)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "baseline description")
	createCmd.Flags().BoolVar(&createActivate, "activate", false, "activate immediately")
	createCmd.MarkFlagRequired("schedule")
	createCmd.MarkFlagRequired("name")

	listCmd.Flags().StringVarP(&listScheduleID, "schedule", "s", "", "schedule ID (required)")
	listCmd.MarkFlagRequired("schedule")

	activateCmd.Flags().StringVarP(&activateScheduleID, "schedule", "s", "", "schedule ID (required)")
	activateCmd.Flags().StringVar(&activateBaselineID, "baseline", "", "baseline ID (required)")
	activateCmd.MarkFlagRequired("schedule")
	activateCmd.MarkFlagRequired("baseline")

	clearCmd.Flags().StringVarP(&clearScheduleID, "schedule", "s", "", "schedule ID (required)")
	clearCmd.MarkFlagRequired("schedule")
}
