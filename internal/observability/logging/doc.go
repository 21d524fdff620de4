// Package logging provides structured logging utilities with context propagation.
//
// Loggers are log/slog loggers. The HTTP layer stores a request-scoped logger
// in the context with WithLogger; use cases fetch it back with FromContext so
// their log lines carry the request id.
//
// Example usage:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context, id string) {
//	    log := logging.WithDataset(logging.FromContext(ctx), id)
//	    log.Info("page served", slog.Int("page", 3))
//	}
package logging
