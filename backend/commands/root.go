package commands

import (
	"fmt"
	"germanlearn/backend/config"
	"germanlearn/backend/utils"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "germanlearn",
	Short: "German learning platform backend",
	Long:  "HTTP API for German courses, learner progress, an AI tutor and language tools.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: postgres or sqlite (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().String("db-name", "", "Database name, or file/DSN for sqlite (overrides DB_NAME)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importVocabularyCmd)
}

// bootstrap loads configuration, applies flag overrides and opens the
// database.
func bootstrap(cmd *cobra.Command) (*config.Config, *utils.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("db-driver"); v != "" {
		cfg.DBDriver = v
	}
	if v, _ := cmd.Flags().GetString("db-name"); v != "" {
		cfg.DBName = v
	}

	logger, err := utils.InitLogger(cfg.IsProduction())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := utils.InitDB(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, logger, db, nil
}
