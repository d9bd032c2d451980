package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/meterdesk/internal/wire"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Send cycle readings to invoicing",
	Long:  "Trigger invoice generation for a fully read cycle and inspect past runs",
}

var exportRunCmd = &cobra.Command{
	Use:   "run [cycle-id]",
	Short: "Export a cycle's readings to the invoicing service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := validateEntityID(args[0], "cycle"); err != nil {
			return err
		}

		result, err := wire.ExportService().ExportCycle(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to export cycle: %w", err)
		}

		fmt.Printf("✓ Exported cycle %s (reference %s): %d readings, %d invoices created\n",
			result.CycleID,
			result.ReferenceID,
			result.TotalReadings,
			result.InvoicesCreated,
		)
		return nil
	},
}

var exportListCmd = &cobra.Command{
	Use:   "list [cycle-id]",
	Short: "List the export runs recorded for a cycle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		receipts, err := wire.ExportService().ListExports(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to list exports: %w", err)
		}

		if len(receipts) == 0 {
			fmt.Println("No exports recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "REFERENCE\tREADINGS\tINVOICES\tEXPORTED")
		fmt.Fprintln(w, "---------\t--------\t--------\t--------")
		for _, rec := range receipts {
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
				rec.ReferenceID,
				rec.TotalReadings,
				rec.InvoicesCreated,
				rec.ExportedAt,
			)
		}
		w.Flush()
		return nil
	},
}

func init() {
	exportCmd.AddCommand(exportRunCmd)
	exportCmd.AddCommand(exportListCmd)
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return exportCmd
}
