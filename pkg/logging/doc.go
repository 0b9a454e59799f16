// Package logging provides a process-wide structured logger for StoreMy.
//
// The package wraps [log/slog] and exposes a single global logger instance
// that is initialized once and then retrieved via GetLogger. The registry,
// the database catalog and the dispatcher all log through this package, so
// log level and output destination are controlled from a single place.
//
// # Initialisation
//
// Call Init (or InitDefault for sensible defaults) once at program startup:
//
//	if err := logging.Init(logging.Config{Level: logging.LevelDebug}); err != nil {
//	    log.Fatal(err)
//	}
//
// InitDefault writes INFO-level text logs to stderr without a log file.
//
// # Context helpers
//
// Several helpers return child loggers pre-populated with structured fields:
//
//	log := logging.WithDatabase(name)       // adds db field
//	log := logging.WithTable(db, table)     // adds db and table fields
//	log := logging.WithComponent("catalog") // adds component field
//
// Failure reasons that the SQL dispatcher collapses into a generic FAILURE
// response are only visible through these logs.
package logging
