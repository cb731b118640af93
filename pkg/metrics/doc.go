// Package metrics exposes the service counters in Prometheus format.
//
// Metrics owns a private registry so tests can create as many instances as
// they like. It implements dispatch.Recorder and hub.Observer, and provides
// an HTTP middleware that labels requests by their chi route pattern rather
// than the raw path.
//
//	m := metrics.New()
//	h := hub.New(hub.WithObserver(m))
//	svc := dispatch.New(mailer, pusher, h, dispatch.WithRecorder(m))
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
package metrics
