// Command notifier runs the notification dispatch service.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/notifier/pkg/auth"
	"github.com/dmitrymomot/notifier/pkg/config"
	"github.com/dmitrymomot/notifier/pkg/environment"
	"github.com/dmitrymomot/notifier/pkg/logger"
	"github.com/dmitrymomot/notifier/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("notifier stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load[Config]()
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	return a.server().Run(ctx, a.routes())
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(environment.Parse(cfg.AppEnv), cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), callerExtractor),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelString(cfg.LogLevel))
	}
	return logger.New(opts...)
}

// callerExtractor adds the authenticated service to every record logged
// within a request.
func callerExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := auth.FromContext(ctx); ok && id.ID != "" {
		return logger.ServiceID(id.ID), true
	}
	return slog.Attr{}, false
}
