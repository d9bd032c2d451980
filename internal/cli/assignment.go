package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/meterdesk/internal/ports/primary"
	"github.com/example/meterdesk/internal/wire"
)

var assignmentCmd = &cobra.Command{
	Use:   "assignment",
	Short: "Manage reading assignments",
	Long:  "Partition a cycle's units to reading staff and track each batch",
}

var assignmentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Assign a building's units to a staff member",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		cycleID, _ := cmd.Flags().GetString("cycle")
		buildingID, _ := cmd.Flags().GetString("building")
		assignedTo, _ := cmd.Flags().GetString("staff")
		startDate, _ := cmd.Flags().GetString("start")
		endDate, _ := cmd.Flags().GetString("end")

		req := primary.CreateAssignmentRequest{
			CycleID:    cycleID,
			BuildingID: buildingID,
			AssignedTo: assignedTo,
			StartDate:  startDate,
			EndDate:    endDate,
		}
		if cmd.Flags().Changed("floor-from") {
			v, _ := cmd.Flags().GetInt("floor-from")
			req.FloorFrom = &v
		}
		if cmd.Flags().Changed("floor-to") {
			v, _ := cmd.Flags().GetInt("floor-to")
			req.FloorTo = &v
		}

		asg, err := wire.AssignmentService().CreateAssignment(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		fmt.Printf("✓ Created assignment %s: %s in %s (%d units)\n",
			asg.ID, asg.AssignedTo, asg.BuildingID, len(asg.UnitIDs))
		return nil
	},
}

var assignmentShowCmd = &cobra.Command{
	Use:   "show [assignment-id]",
	Short: "Show assignment details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := validateEntityID(args[0], "assignment"); err != nil {
			return err
		}

		asg, err := wire.AssignmentService().GetAssignment(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get assignment: %w", err)
		}

		fmt.Printf("\nAssignment: %s\n", asg.ID)
		fmt.Printf("Cycle:    %s\n", asg.CycleID)
		fmt.Printf("Building: %s\n", asg.BuildingID)
		if asg.FloorFrom != nil && asg.FloorTo != nil {
			fmt.Printf("Floors:   %d to %d\n", *asg.FloorFrom, *asg.FloorTo)
		}
		fmt.Printf("Staff:    %s\n", asg.AssignedTo)
		fmt.Printf("Window:   %s to %s\n", asg.StartDate, asg.EndDate)
		fmt.Printf("Status:   %s%s\n", statusColor(asg.Status), overdueMarker(asg.Overdue))
		fmt.Printf("Units:    %d\n", len(asg.UnitIDs))
		for _, id := range asg.UnitIDs {
			fmt.Printf("  - %s\n", id)
		}
		if asg.CompletedAt != "" {
			fmt.Printf("Completed: %s\n", asg.CompletedAt)
		}
		fmt.Println()

		return nil
	},
}

var assignmentCancelCmd = &cobra.Command{
	Use:   "cancel [assignment-id]",
	Short: "Cancel an open assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := validateEntityID(args[0], "assignment"); err != nil {
			return err
		}

		asg, err := wire.AssignmentService().CancelAssignment(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to cancel assignment: %w", err)
		}

		fmt.Printf("✓ Cancelled assignment %s\n", asg.ID)
		return nil
	},
}

var assignmentCompleteCmd = &cobra.Command{
	Use:   "complete [assignment-id]",
	Short: "Mark a fully read assignment as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := validateEntityID(args[0], "assignment"); err != nil {
			return err
		}

		asg, err := wire.AssignmentService().CompleteAssignment(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to complete assignment: %w", err)
		}

		fmt.Printf("✓ Completed assignment %s\n", asg.ID)
		return nil
	},
}

var assignmentProgressCmd = &cobra.Command{
	Use:   "progress [assignment-id]",
	Short: "Show live reading progress for an assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		prog, err := wire.ProgressService().AssignmentProgress(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to compute progress: %w", err)
		}

		fmt.Printf("Assignment %s [%s]: %d/%d units read (%d%%), %d remaining\n",
			prog.AssignmentID,
			statusColor(prog.Status),
			prog.ReadingsDone,
			prog.TotalUnits,
			prog.Percent,
			prog.Remaining,
		)
		return nil
	},
}

func init() {
	assignmentCreateCmd.Flags().String("cycle", "", "Cycle ID (required)")
	assignmentCreateCmd.Flags().String("building", "", "Building ID (required)")
	assignmentCreateCmd.Flags().Int("floor-from", 0, "Lowest floor to include")
	assignmentCreateCmd.Flags().Int("floor-to", 0, "Highest floor to include")
	assignmentCreateCmd.Flags().String("staff", "", "Staff member the batch is assigned to (required)")
	assignmentCreateCmd.Flags().String("start", "", "Reading window start date (YYYY-MM-DD)")
	assignmentCreateCmd.Flags().String("end", "", "Reading window end date (YYYY-MM-DD)")
	_ = assignmentCreateCmd.MarkFlagRequired("cycle")
	_ = assignmentCreateCmd.MarkFlagRequired("building")
	_ = assignmentCreateCmd.MarkFlagRequired("staff")

	assignmentCmd.AddCommand(assignmentCreateCmd)
	assignmentCmd.AddCommand(assignmentShowCmd)
	assignmentCmd.AddCommand(assignmentCancelCmd)
	assignmentCmd.AddCommand(assignmentCompleteCmd)
	assignmentCmd.AddCommand(assignmentProgressCmd)
}

// AssignmentCmd returns the assignment command
func AssignmentCmd() *cobra.Command {
	return assignmentCmd
}
