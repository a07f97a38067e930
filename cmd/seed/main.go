// Command seed loads the demo directory of users into the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/servicehub/internal/config"
	"github.com/garyjia/servicehub/internal/container"
	"github.com/garyjia/servicehub/internal/seed"
	"github.com/garyjia/servicehub/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	envFile := flag.String("env", ".env", "path to the dotenv file")
	flag.Parse()

	cfg, err := config.Load(config.Options{ConfigPath: *configPath, EnvFile: *envFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		Service:    "servicehub-seed",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := c.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}
	defer c.Close()

	now := time.Now().UTC()
	users := seed.DemoUsers(now)
	created, err := seed.Run(ctx, c.Repositories().User, users, logger)
	if err != nil {
		logger.Error("Seeding failed", zap.Error(err))
		return
	}
	balances, err := seed.RunBalances(ctx, c.Repositories().Leave, users, now, logger)
	if err != nil {
		logger.Error("Seeding leave balances failed", zap.Error(err))
		return
	}

	logger.Info("Seeding complete",
		zap.Int("created", created),
		zap.Int("balances", balances),
		zap.String("database", cfg.Database.Path))
}
