// Package logging provides structured logging for mdnav.
//
// The package wraps log/slog with JSON, text and console formats, level
// parsing, and fields carried on the context: request ID, query, document
// and trace ID.
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//		return err
//	}
//
//	ctx = logging.WithRequestID(ctx, id)
//	ctx = logging.WithQuery(ctx, ".h2 | count")
//	logger.InfoContext(ctx, "query executed", "results", 3)
//
// Components that accept a *slog.Logger receive logger.Slog().
package logging
