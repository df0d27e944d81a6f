package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"MatirBank/Config"
	"MatirBank/FiberConfig"
	"MatirBank/Models"
	"MatirBank/middleware"
)

var (
	// Global flags
	envFile string

	cfg    Config.Config
	logger *zap.Logger
)

// rootCmd serves the API when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "matirbank",
	Short: "Matir Bank API server",
	Long: `Matir Bank serves member accounts, savings goals, the marketplace,
bulk procurement, Samity lending groups and credit reputation over HTTP.

Run without arguments to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = Config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err = Config.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP server",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the schema, seed credit tiers and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		logger.Info("schema migrated", zap.String("driver", cfg.Database.Driver))
		return closeDatabase(db)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "env file to load before the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func openDatabase() (*gorm.DB, error) {
	db, err := Models.Connect(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := prepareDatabase(db); err != nil {
		if cerr := closeDatabase(db); cerr != nil {
			logger.Warn("failed to close database", zap.Error(cerr))
		}
		return nil, err
	}
	return db, nil
}

func prepareDatabase(db *gorm.DB) error {
	if err := Models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	if cfg.SeedCreditTiers {
		if err := Models.SeedCreditTiers(db); err != nil {
			return fmt.Errorf("failed to seed credit tiers: %w", err)
		}
	}
	return nil
}

var closeDatabase = func(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func serve(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	requestLog, err := middleware.OpenRequestLog(logger, middleware.LogConfig{LogFilePath: cfg.RequestLogPath()})
	if err != nil {
		return fmt.Errorf("failed to open request log: %w", err)
	}
	defer requestLog.Close()

	app := FiberConfig.NewApp(FiberConfig.Deps{
		Config:     cfg,
		DB:         db,
		Log:        logger,
		RequestLog: requestLog,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
