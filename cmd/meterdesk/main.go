package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/meterdesk/internal/cli"
	"github.com/example/meterdesk/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "meterdesk",
		Short:   "meterdesk - reading cycle management for utility billing",
		Version: version.String(),
		Long: `meterdesk manages meter reading cycles, staff assignments, and the
export of collected readings to invoicing.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.Bootstrap()
		},
	}

	// Add subcommands
	rootCmd.AddCommand(cli.CycleCmd())
	rootCmd.AddCommand(cli.AssignmentCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.DevCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
