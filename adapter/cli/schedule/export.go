package schedule

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	"github.com/torvane/gantry/internal/interchange"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

var (
	exportScheduleID string
	exportFormat     string
	exportOut        string
	exportDepsOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a schedule to JSON or CSV",
	Long: `Flatten a schedule into interchange records, derived fields
(critical flag, total float) included.

JSON writes one document; CSV writes activities to --out and
dependencies to --deps-out.

Examples:
  gantry schedule export -s <id> --out plan.json
  gantry schedule export -s <id> --format csv --out activities.csv --deps-out dependencies.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(exportScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		file, err := app.Queries.ExportSchedule(cmd.Context(), scheduleApp.ExportScheduleQuery{ScheduleID: scheduleID})
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		switch exportFormat {
		case "json":
			out := os.Stdout
			if exportOut != "" {
				out, err = os.Create(exportOut)
				if err != nil {
					return err
				}
				defer out.Close()
			}
			if err := interchange.WriteJSON(out, file); err != nil {
				return err
			}
		case "csv":
			if exportOut == "" || exportDepsOut == "" {
				return fmt.Errorf("csv export requires --out and --deps-out")
			}
			activities, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer activities.Close()
			if err := interchange.WriteActivitiesCSV(activities, file.Activities); err != nil {
				return err
			}
			deps, err := os.Create(exportDepsOut)
			if err != nil {
				return err
			}
			defer deps.Close()
			if err := interchange.WriteDependenciesCSV(deps, file.Dependencies); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (json, csv)", exportFormat)
		}

		fmt.Fprintf(os.Stderr, "Exported %d activities, %d dependencies\n",
			len(file.Activities), len(file.Dependencies))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportScheduleID, "schedule", "s", "", "schedule ID (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json, csv)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout for json)")
	exportCmd.Flags().StringVar(&exportDepsOut, "deps-out", "", "dependencies CSV output file")
	exportCmd.MarkFlagRequired("schedule")
}
