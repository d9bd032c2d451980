package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/meterdesk/internal/ports/primary"
	"github.com/example/meterdesk/internal/wire"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Manage reading cycles",
	Long:  "Create, list, and manage meter reading cycles for a billing period",
}

var cycleCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new reading cycle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		serviceID, _ := cmd.Flags().GetString("service")
		description, _ := cmd.Flags().GetString("description")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		cyc, err := wire.CycleService().CreateCycle(ctx, primary.CreateCycleRequest{
			ServiceID:   serviceID,
			Name:        args[0],
			Description: description,
			PeriodFrom:  from,
			PeriodTo:    to,
		})
		if err != nil {
			return fmt.Errorf("failed to create cycle: %w", err)
		}

		fmt.Printf("✓ Created cycle %s: %s (%s to %s)\n", cyc.ID, cyc.Name, cyc.PeriodFrom, cyc.PeriodTo)
		return nil
	},
}

var cycleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reading cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		serviceID, _ := cmd.Flags().GetString("service")
		status, _ := cmd.Flags().GetString("status")
		overlapFrom, _ := cmd.Flags().GetString("overlap-from")
		overlapTo, _ := cmd.Flags().GetString("overlap-to")

		cycles, err := wire.CycleService().ListCycles(ctx, primary.CycleFilters{
			ServiceID:   serviceID,
			Status:      status,
			OverlapFrom: overlapFrom,
			OverlapTo:   overlapTo,
		})
		if err != nil {
			return fmt.Errorf("failed to list cycles: %w", err)
		}

		if len(cycles) == 0 {
			fmt.Println("No cycles found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSERVICE\tNAME\tPERIOD\tSTATUS\tASSIGNMENTS")
		fmt.Fprintln(w, "--\t-------\t----\t------\t------\t-----------")
		for _, c := range cycles {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s to %s\t%s\t%d\n",
				c.ID,
				c.ServiceID,
				c.Name,
				c.PeriodFrom,
				c.PeriodTo,
				statusColor(c.Status),
				c.AssignmentCount,
			)
		}
		w.Flush()
		return nil
	},
}

var cycleShowCmd = &cobra.Command{
	Use:   "show [cycle-id]",
	Short: "Show cycle details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := validateEntityID(args[0], "cycle"); err != nil {
			return err
		}

		cyc, err := wire.CycleService().GetCycle(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get cycle: %w", err)
		}

		fmt.Printf("\nCycle:   %s\n", cyc.ID)
		fmt.Printf("Service: %s\n", cyc.ServiceID)
		fmt.Printf("Name:    %s\n", cyc.Name)
		if cyc.Description != "" {
			fmt.Printf("Description: %s\n", cyc.Description)
		}
		fmt.Printf("Period:  %s to %s\n", cyc.PeriodFrom, cyc.PeriodTo)
		fmt.Printf("Status:  %s\n", statusColor(cyc.Status))
		fmt.Printf("Assignments: %d\n", cyc.AssignmentCount)
		fmt.Printf("Created: %s\n", cyc.CreatedAt)
		if cyc.CompletedAt != "" {
			fmt.Printf("Completed: %s\n", cyc.CompletedAt)
		}
		if cyc.CancelledAt != "" {
			fmt.Printf("Cancelled: %s\n", cyc.CancelledAt)
		}
		fmt.Println()

		assignments, err := wire.AssignmentService().ListAssignments(ctx, cyc.ID)
		if err == nil && len(assignments) > 0 {
			fmt.Println("Assignments:")
			for _, a := range assignments {
				fmt.Printf("  - %s [%s] %s in %s (%d units)%s\n",
					a.ID, statusColor(a.Status), a.AssignedTo, a.BuildingID, len(a.UnitIDs), overdueMarker(a.Overdue))
			}
			fmt.Println()
		}

		return nil
	},
}

var cycleUpdateCmd = &cobra.Command{
	Use:   "update [cycle-id]",
	Short: "Update a cycle's name, period, or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		cycleID := args[0]

		// Unset flags keep the current value.
		current, err := wire.CycleService().GetCycle(ctx, cycleID)
		if err != nil {
			return fmt.Errorf("failed to get cycle: %w", err)
		}

		req := primary.UpdateCycleRequest{
			CycleID:     cycleID,
			Name:        current.Name,
			Description: current.Description,
			PeriodFrom:  current.PeriodFrom,
			PeriodTo:    current.PeriodTo,
		}
		if cmd.Flags().Changed("name") {
			req.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("description") {
			req.Description, _ = cmd.Flags().GetString("description")
		}
		if cmd.Flags().Changed("from") {
			req.PeriodFrom, _ = cmd.Flags().GetString("from")
		}
		if cmd.Flags().Changed("to") {
			req.PeriodTo, _ = cmd.Flags().GetString("to")
		}

		cyc, err := wire.CycleService().UpdateCycle(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to update cycle: %w", err)
		}

		fmt.Printf("✓ Updated cycle %s: %s (%s to %s)\n", cyc.ID, cyc.Name, cyc.PeriodFrom, cyc.PeriodTo)
		return nil
	},
}

var cycleCancelCmd = &cobra.Command{
	Use:   "cancel [cycle-id]",
	Short: "Cancel a cycle and its open assignments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := validateEntityID(args[0], "cycle"); err != nil {
			return err
		}

		cyc, err := wire.CycleService().CancelCycle(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to cancel cycle: %w", err)
		}

		fmt.Printf("✓ Cancelled cycle %s\n", cyc.ID)
		return nil
	},
}

var cycleCompleteCmd = &cobra.Command{
	Use:   "complete [cycle-id]",
	Short: "Mark a fully read cycle as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := validateEntityID(args[0], "cycle"); err != nil {
			return err
		}

		cyc, err := wire.CycleService().CompleteCycle(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to complete cycle: %w", err)
		}

		fmt.Printf("✓ Completed cycle %s\n", cyc.ID)
		return nil
	},
}

var cycleProgressCmd = &cobra.Command{
	Use:   "progress [cycle-id]",
	Short: "Show live reading progress for a cycle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		prog, err := wire.ProgressService().CycleProgress(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to compute progress: %w", err)
		}

		if len(prog.Assignments) == 0 {
			fmt.Println("No assignments yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ASSIGNMENT\tSTATUS\tDONE\tTOTAL\tREMAINING\tPERCENT")
		fmt.Fprintln(w, "----------\t------\t----\t-----\t---------\t-------")
		for _, a := range prog.Assignments {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d%%\n",
				a.AssignmentID,
				statusColor(a.Status),
				a.ReadingsDone,
				a.TotalUnits,
				a.Remaining,
				a.Percent,
			)
		}
		w.Flush()

		fmt.Printf("\nUnassigned units: %d\n", prog.TotalUnassigned)
		if prog.AllComplete {
			fmt.Println("All readings complete. Cycle is ready to complete and export.")
		}
		return nil
	},
}

var cycleUnassignedCmd = &cobra.Command{
	Use:   "unassigned [cycle-id]",
	Short: "List billable units not covered by any active assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		info, err := wire.ProgressService().ComputeUnassigned(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to compute unassigned units: %w", err)
		}

		if info.TotalUnassigned == 0 {
			fmt.Println("Every unit in scope is assigned.")
			return nil
		}

		fmt.Printf("%d unassigned units:\n", info.TotalUnassigned)
		for _, id := range info.UnitIDs {
			fmt.Printf("  - %s\n", id)
		}
		return nil
	},
}

func init() {
	cycleCreateCmd.Flags().String("service", "", "Utility service ID (required)")
	cycleCreateCmd.Flags().String("description", "", "Cycle description")
	cycleCreateCmd.Flags().String("from", "", "Period start date (YYYY-MM-DD)")
	cycleCreateCmd.Flags().String("to", "", "Period end date (YYYY-MM-DD)")
	_ = cycleCreateCmd.MarkFlagRequired("service")

	cycleListCmd.Flags().String("service", "", "Filter by utility service ID")
	cycleListCmd.Flags().String("status", "", "Filter by status (OPEN|IN_PROGRESS|COMPLETED|CANCELLED)")
	cycleListCmd.Flags().String("overlap-from", "", "Only cycles overlapping this date range: start")
	cycleListCmd.Flags().String("overlap-to", "", "Only cycles overlapping this date range: end")

	cycleUpdateCmd.Flags().String("name", "", "New cycle name")
	cycleUpdateCmd.Flags().String("description", "", "New description")
	cycleUpdateCmd.Flags().String("from", "", "New period start date (YYYY-MM-DD)")
	cycleUpdateCmd.Flags().String("to", "", "New period end date (YYYY-MM-DD)")

	cycleCmd.AddCommand(cycleCreateCmd)
	cycleCmd.AddCommand(cycleListCmd)
	cycleCmd.AddCommand(cycleShowCmd)
	cycleCmd.AddCommand(cycleUpdateCmd)
	cycleCmd.AddCommand(cycleCancelCmd)
	cycleCmd.AddCommand(cycleCompleteCmd)
	cycleCmd.AddCommand(cycleProgressCmd)
	cycleCmd.AddCommand(cycleUnassignedCmd)
}

// CycleCmd returns the cycle command
func CycleCmd() *cobra.Command {
	return cycleCmd
}
