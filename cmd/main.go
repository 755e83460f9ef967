package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/tdx/internal/credentials"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	// A broken credential database degrades to "logged out" instead of
	// refusing to start; only token reads and writes fail.
	var creds credentials.Store
	if db, err := shared.NewDatabase(config.Database.Path); err != nil {
		logger.Warn("credential database unavailable", "error", err)
		creds = credentials.Unavailable()
	} else {
		defer db.Close()
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("failed to run migrations", "error", err)
		}
		creds = credentials.NewSQLiteStore(db)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Creds:  creds,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "tdx",
		Usage:    "Manage your todos against a remote todo service",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
