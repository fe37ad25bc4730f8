package schedule

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	"github.com/torvane/gantry/internal/interchange"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

var (
	importScheduleID string
	importFile       string
	importActivities string
	importDeps       string
	importClear      bool
	importBestEffort bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import activities and dependencies from JSON or CSV",
	Long: `Insert a batch of interchange records into a schedule.

The default mode is all-or-nothing: the whole batch is validated,
dependency endpoints and acyclicity included, before anything is
applied. --best-effort applies valid rows and reports the rest.

Examples:
  gantry schedule import -s <id> --file plan.json
  gantry schedule import -s <id> --activities a.csv --deps d.csv --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(importScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		var activities []interchange.ActivityRecord
		var dependencies []interchange.DependencyRecord

		switch {
		case importFile != "":
			f, err := os.Open(importFile)
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := interchange.ReadJSON(f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", importFile, err)
			}
			activities, dependencies = doc.Activities, doc.Dependencies
		case importActivities != "":
			f, err := os.Open(importActivities)
			if err != nil {
				return err
			}
			defer f.Close()
			activities, err = interchange.ReadActivitiesCSV(f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", importActivities, err)
			}
			if importDeps != "" {
				df, err := os.Open(importDeps)
				if err != nil {
					return err
				}
				defer df.Close()
				dependencies, err = interchange.ReadDependenciesCSV(df)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", importDeps, err)
				}
			}
		default:
			return fmt.Errorf("provide --file (json) or --activities (csv)")
		}

		result, err := app.ImportHandler.Handle(cmd.Context(), scheduleApp.ImportScheduleCommand{
			ScheduleID:    scheduleID,
			Activities:    activities,
			Dependencies:  dependencies,
			ClearExisting: importClear,
			BestEffort:    importBestEffort,
		})
		if err != nil {
			var validation *interchange.ValidationError
			if errors.As(err, &validation) {
				fmt.Println("Import rejected; nothing was applied:")
				for _, rowErr := range validation.Rows {
					fmt.Printf("  %s\n", rowErr.Error())
				}
				return fmt.Errorf("%d invalid rows", len(validation.Rows))
			}
			return fmt.Errorf("failed to import: %w", err)
		}

		fmt.Printf("Imported %d activities, %d dependencies\n",
			result.ActivitiesAdded, result.DependenciesAdded)
		for _, rowErr := range result.RowErrors {
			fmt.Printf("  skipped: %s\n", rowErr.Error())
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importScheduleID, "schedule", "s", "", "schedule ID (required)")
	importCmd.Flags().StringVar(&importFile, "file", "", "JSON interchange document")
	importCmd.Flags().StringVar(&importActivities, "activities", "", "activities CSV file")
	importCmd.Flags().StringVar(&importDeps, "deps", "", "dependencies CSV file")
	importCmd.Flags().BoolVar(&importClear, "clear", false, "remove existing activities before importing")
	importCmd.Flags().BoolVar(&importBestEffort, "best-effort", false, "apply valid rows, report the rest")
	importCmd.MarkFlagRequired("schedule")
}
