package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/afresh/internal/database"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.OpenNoMigrate(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}
		v, err := database.Version(db)
		if err != nil {
			return err
		}
		fmt.Printf("%s is at schema version %d\n", cfg.Database.Path, v)
		return nil
	},
}
