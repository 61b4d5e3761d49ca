package commands

import (
	"fmt"
	"germanlearn/backend/utils"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := utils.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema up to date")
		return nil
	},
}
