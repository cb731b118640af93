// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct-tag parsing and
// github.com/joho/godotenv for optional .env files. Each package of the service
// declares its own Config struct; the binary composes them into one struct and
// calls Load once at startup:
//
//	cfg, err := config.Load[Config]()
//	if err != nil {
//	    return err
//	}
//
// Tests can bypass the process environment with WithEnvironment.
package config
