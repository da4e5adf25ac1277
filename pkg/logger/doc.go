// Package logger provides the structured logging interface used across textrater.
//
// It wraps zerolog behind a small Logger interface with support for:
// - Leveled logging (Debug, Info, Warn, Error)
// - Structured fields via WithField/WithFields/WithError
// - Colored console output on stderr, or plain JSON lines to a log file
// - A global logger for cmd-level code, and injectable loggers for packages
// - Closing the log file on exit through the func Initialize returns
//
// The interactive session owns stdout, so the default level is "warn" and console
// output is sent to stderr.
//
// Basic Usage:
//
//	closeLog, err := logger.Initialize(&cfg.Logging)
//	defer closeLog()
//
//	log := logger.GetLogger().WithField("component", "labeler")
//	log.InfoWithFields("Checkpoint written", map[string]interface{}{
//	    "position": 20,
//	    "path":     "/data/texts.csv",
//	})
//
// Tests can use NewNopLogger to discard output, or NewTestLogger to capture
// messages and assert on them.
package logger
