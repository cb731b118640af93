// Package logger builds context-aware slog loggers.
//
// New applies functional options (format, level, static attributes, context
// extractors) and wraps the resulting handler with NewContextHandler, which
// pulls request-scoped values such as the request id out of the context on
// every record. attr.go holds helper constructors that keep attribute keys
// consistent across the service:
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "notifier"),
//	    logger.WithLevelString(cfg.LogLevel),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "mail sent", logger.Template("invoice"), logger.MessageID(id))
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
