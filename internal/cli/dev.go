package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/meterdesk/internal/db"
)

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Developer utilities",
}

var devSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with development fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.GetDB()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		if err := db.SeedFixtures(database); err != nil {
			return fmt.Errorf("failed to seed fixtures: %w", err)
		}

		fmt.Println("✓ Seeded development fixtures")
		return nil
	},
}

var devDBPathCmd = &cobra.Command{
	Use:   "db-path",
	Short: "Print the resolved database file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := db.GetDBPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	devCmd.AddCommand(devSeedCmd)
	devCmd.AddCommand(devDBPathCmd)
}

// DevCmd returns the dev command
func DevCmd() *cobra.Command {
	return devCmd
}
