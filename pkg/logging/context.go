package logging

import (
	"log/slog"
)

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("registry")
//	log.Info("registry initialized", "base_dir", dir)
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithDatabase creates a logger scoped to one logical database.
//
// Example:
//
//	log := logging.WithDatabase("sys")
//	log.Warn("db already exists")
func WithDatabase(dbName string) *slog.Logger {
	return GetLogger().With("db", dbName)
}

// WithTable creates a logger with database and table context.
// Use this for catalog and table operations.
//
// Example:
//
//	log := logging.WithTable("sys", "users")
//	log.Info("table dropped")
func WithTable(dbName, tableName string) *slog.Logger {
	return GetLogger().With("db", dbName, "table", tableName)
}

// WithError creates a logger with error context.
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
