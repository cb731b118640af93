// Package notifications mounts the authenticated dispatch API.
//
// Every route requires a bearer token accepted by the auth gate and the
// notify:send permission; topic management additionally requires
// notify:admin. Request bodies are JSON, validated before the dispatch
// service is called, and answered with the {message, details} envelope.
//
//	r.Mount("/api/v1", notifications.Router(notifications.RouterOptions{
//		Service:   svc,
//		Gate:      gate,
//		Templates: catalog.Names(),
//		Logger:    log,
//	}))
package notifications
