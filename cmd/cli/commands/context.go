package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/timetable-engine/internal/config"
	"github.com/jakechorley/timetable-engine/pkg/db"
)

// Migrator applies schema migrations; only the Postgres backend has one
type Migrator interface {
	RunMigrations(ctx context.Context) ([]string, error)
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Migrator Migrator
	Logger   *zap.Logger
	Ctx      context.Context
}
