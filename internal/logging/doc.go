// Package logging provides structured logging for the jitsi launcher using slog.
//
// Console output goes through a TTY-aware text handler (or JSON when asked);
// once the home directories are resolved the launcher also appends JSON
// records to <log>/<name>/log/jitsi0.log through a [MultiHandler].
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("home resolved", "home", dirs.ProfileLocation)
//
// Records carrying a "component" attribute are rendered with a bracketed
// prefix by the text handler:
//
//	logger.With(logging.ComponentKey, "framework").Info("started")
//	// 3:04PM INFO  [framework] started
//
// # Testing
//
// Use [ForTest] to capture log output via the testing framework.
package logging
