// Package httpserver runs the service's HTTP listener with graceful
// shutdown and serves the health endpoints.
//
// Server binds the listener before reporting itself started, serves until
// the context is cancelled, SIGINT/SIGTERM arrives or Shutdown is called,
// then drains in-flight requests and runs the registered closers in reverse
// order. Websocket connections are hijacked and invisible to
// http.Server.Shutdown, so the connection hub is registered as a closer.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithCloser("hub", func(context.Context) error { return h.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler reports the state of the delivery dependencies:
//
//	r.Get("/api/v1/health", httpserver.HealthCheckHandler([]httpserver.Check{
//		{Name: "mail", OKMessage: "Mail relay reachable", FailMessage: "Mail relay unreachable", Run: pinger.Ping},
//	}, httpserver.WithVersion(version)))
//
// The body is {status, timestamp, version, checks} with status "healthy"
// (200) or "degraded" (503). LivenessHandler never touches dependencies.
//
// Run wraps listen errors with ErrStart and Shutdown wraps drain or closer
// failures with ErrShutdown.
package httpserver
