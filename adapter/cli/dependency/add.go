package dependency

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/torvane/gantry/adapter/cli"
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
	"github.com/torvane/gantry/internal/schedule/domain"
)

var (
	addScheduleID string
	addPred       string
	addSucc       string
	addKind       string
	addLag        int
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Link two activities",
	Long: `Add a dependency edge. Kinds: FS (finish-to-start, default),
SS (start-to-start), FF (finish-to-finish), SF (start-to-finish).
Lag is in working days; negative lag is a lead.

Examples:
  gantry dependency add -s <id> --from A100 --to A200
  gantry dependency add -s <id> --from A100 --to A200 --kind SS --lag 2
  gantry dependency add -s <id> --from A100 --to A200 --lag -1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		scheduleID, err := uuid.Parse(addScheduleID)
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}
		predID, err := cli.ResolveActivity(cmd.Context(), app, scheduleID, addPred)
		if err != nil {
			return err
		}
		succID, err := cli.ResolveActivity(cmd.Context(), app, scheduleID, addSucc)
		if err != nil {
			return err
		}
		kind, err := domain.ParseDependencyKind(addKind)
		if err != nil {
			return err
		}

		dep, err := app.DependencyHandler.HandleAdd(cmd.Context(), scheduleApp.AddDependencyCommand{
			ScheduleID:    scheduleID,
			PredecessorID: predID,
			SuccessorID:   succID,
			Kind:          kind,
			LagDays:       addLag,
		})
		if err != nil {
			var cycle *domain.CycleError
			if errors.As(err, &cycle) {
				return fmt.Errorf("edge rejected, it would close a cycle: %w", err)
			}
			return fmt.Errorf("failed to add dependency: %w", err)
		}

		fmt.Printf("Linked %s -> %s (%s", addPred, addSucc, dep.Kind())
		if dep.Lag() != 0 {
			fmt.Printf(" %+dd", dep.Lag())
		}
		fmt.Println(")")
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addScheduleID, "schedule", "s", "", "schedule ID (required)")
	addCmd.Flags().StringVar(&addPred, "from", "", "predecessor activity code or ID (required)")
	addCmd.Flags().StringVar(&addSucc, "to", "", "successor activity code or ID (required)")
	addCmd.Flags().StringVar(&addKind, "kind", "FS", "dependency kind (FS, SS, FF, SF)")
	addCmd.Flags().IntVar(&addLag, "lag", 0, "lag in working days (negative for lead)")

	addCmd.MarkFlagRequired("schedule")
	addCmd.MarkFlagRequired("from")
	addCmd.MarkFlagRequired("to")
}
