package auth

import "time"

// Config holds the service-to-service trust settings.
type Config struct {
	JWTSecret       string        `env:"JWT_SECRET,required"`
	AllowedServices []string      `env:"ALLOWED_SERVICES" envSeparator:","`
	ClockSkew       time.Duration `env:"JWT_CLOCK_SKEW" envDefault:"0s"`
}
