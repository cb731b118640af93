package main

import (
	"github.com/dmitrymomot/notifier/pkg/auth"
	"github.com/dmitrymomot/notifier/pkg/email"
	"github.com/dmitrymomot/notifier/pkg/httpserver"
	"github.com/dmitrymomot/notifier/pkg/push"
	"github.com/dmitrymomot/notifier/pkg/ratelimiter"
	"github.com/dmitrymomot/notifier/pkg/socket"
)

// Config aggregates every component configuration. Nested structs are read
// from the same flat environment.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"notification-service"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
	// LogLevel overrides the per-environment default level when set.
	LogLevel string `env:"LOG_LEVEL"`
	// MaxBodySize caps JSON request bodies in bytes.
	MaxBodySize int64 `env:"HTTP_MAX_BODY_SIZE" envDefault:"10485760"`

	HTTP      httpserver.Config
	Auth      auth.Config
	Email     email.Config
	Push      push.Config
	Socket    socket.Config
	RateLimit ratelimiter.Config
}
