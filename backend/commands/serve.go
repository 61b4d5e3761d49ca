package commands

import (
	"context"
	"germanlearn/backend/ai"
	"germanlearn/backend/config"
	"germanlearn/backend/routes"
	"germanlearn/backend/utils"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Listen port (overrides SERVER_PORT)")
	serveCmd.Flags().Bool("no-migrate", false, "Skip schema migration on start")
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, db, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.ServerPort = port
	}
	if skip, _ := cmd.Flags().GetBool("no-migrate"); !skip {
		if err := utils.AutoMigrate(db); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	oracle := buildOracle(ctx, cfg, logger)

	var cache ai.Cache
	if cfg.RedisURL != "" {
		redisCache, err := ai.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("translation cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	app := routes.NewApp(db, cfg, routes.NewServices(db, cfg, oracle, cache, logger))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	logger.Info("server starting", "port", cfg.ServerPort, "env", cfg.AppEnv, "llm_provider", cfg.LLM.Provider)
	return app.Listen(":" + cfg.ServerPort)
}

// buildOracle never fails: without a usable provider every AI feature
// answers with its degraded payload.
func buildOracle(ctx context.Context, cfg *config.Config, logger *utils.Logger) ai.Oracle {
	oracle, err := ai.NewOracle(ctx, cfg.LLM)
	if err != nil {
		logger.Warn("language model unavailable", "provider", cfg.LLM.Provider, "error", err)
		return ai.Unavailable(err)
	}
	return oracle
}
