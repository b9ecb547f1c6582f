package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/timetable-engine/cmd/cli/commands"
	"github.com/jakechorley/timetable-engine/internal/config"
	"github.com/jakechorley/timetable-engine/pkg/db"
	"github.com/jakechorley/timetable-engine/pkg/postgres"
	"github.com/jakechorley/timetable-engine/pkg/utils/logging"
)

var (
	env         string
	catalogPath string
	verbose     bool
	app         = &commands.AppContext{}
	closeDB     func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "timetable",
		Short: "Timetable engine CLI - Generate academic timetables",
		Long:  `A CLI tool for generating weekly timetables that place course sessions into faculty, room and time slot combinations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeDB != nil {
				closeDB()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Read the catalog from a YAML file instead of the database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.AnalyzeBoundsCmd(app))
	rootCmd.AddCommand(commands.GenerateSlotsCmd(app))
	rootCmd.AddCommand(commands.ViewScheduleCmd(app))
	rootCmd.AddCommand(commands.ClearTimetableCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and database
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	if catalogPath != "" {
		app.Logger.Info("Loading catalog file", zap.String("path", catalogPath))
		catalog, err := db.LoadCatalogFile(catalogPath)
		if err != nil {
			return err
		}
		app.Database = db.NewMemoryDB(catalog)
		app.Logger.Debug("Using in-memory database",
			zap.Int("courses", len(catalog.Courses)),
			zap.Int("faculty", len(catalog.Faculty)))
		return nil
	}

	if app.Cfg.DatabaseURL == "" {
		return fmt.Errorf("no database_url configured - set it in the config file or DATABASE_URL, or pass --catalog")
	}

	app.Logger.Info("Connecting to database")
	pg, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.Database = pg
	app.Migrator = pg
	closeDB = pg.Close
	app.Logger.Info("Database initialized successfully")

	return nil
}
