package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Option configures a single Load call.
type Option func(*options)

type options struct {
	prefix   string
	files    []string
	environ  map[string]string
	defaults bool
}

// WithPrefix only reads variables starting with prefix (e.g. "NOTIFIER_").
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvFiles loads the given .env files into the process environment before
// parsing. Unlike the implicit ".env" lookup, a missing file is an error.
// Variables already present in the environment are not overridden.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = append(o.files, files...) }
}

// WithEnvironment parses from the given map instead of the process
// environment. The implicit ".env" file is skipped.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) {
		o.environ = vars
		o.defaults = false
	}
}

// Load parses environment variables into a new T based on its `env` and
// `envDefault` struct tags.
//
// The first call also loads ".env" from the working directory when it exists.
//
//	type DatabaseConfig struct {
//		Host string `env:"DB_HOST" envDefault:"localhost"`
//		Pass string `env:"DB_PASS,required"`
//	}
//
//	cfg, err := config.Load[DatabaseConfig]()
func Load[T any](opts ...Option) (T, error) {
	o := options{defaults: true}
	for _, opt := range opts {
		opt(&o)
	}

	var cfg T

	if o.defaults {
		defaultEnvLoaded.Do(func() {
			// The .env file is optional.
			_ = godotenv.Load()
		})
	}
	if len(o.files) > 0 {
		if err := godotenv.Load(o.files...); err != nil {
			return cfg, errors.Join(ErrLoadingEnvFile, err)
		}
	}

	envOpts := env.Options{Prefix: o.prefix}
	if o.environ != nil {
		envOpts.Environment = o.environ
	}

	if err := env.ParseWithOptions(&cfg, envOpts); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Meant for configuration the process cannot start without.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}
