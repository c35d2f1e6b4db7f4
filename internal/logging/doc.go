// Package logging provides structured logging with per-module log level
// configuration.
//
// The logging system uses Go's slog package with automatic output routing:
//   - stdout when a terminal, pipe, or file is connected (text or json)
//   - systemd journal when available (Linux systems with journald)
//   - an in-memory ring buffer that backs the /api/logs/stream SSE endpoint
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"pipeline": "debug",
//			"api":      "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("pipeline")
//	logger.Info("Run started", "run_id", id)
//
// Module-specific levels override the global level for that module only.
// When running under systemd, logs can be filtered with:
//
//	journalctl -t framecloak MODULE=pipeline
package logging
