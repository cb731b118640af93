package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/config"
)

type sampleConfig struct {
	Name     string        `env:"NAME" envDefault:"notifier"`
	Port     int           `env:"PORT" envDefault:"8080"`
	Debug    bool          `env:"DEBUG" envDefault:"false"`
	Services []string      `env:"SERVICES" envSeparator:","`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Secret string `env:"SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Load[sampleConfig](config.WithEnvironment(map[string]string{}))
		require.NoError(t, err)
		assert.Equal(t, "notifier", cfg.Name)
		assert.Equal(t, 8080, cfg.Port)
		assert.False(t, cfg.Debug)
		assert.Empty(t, cfg.Services)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Load[sampleConfig](config.WithEnvironment(map[string]string{
			"NAME":     "custom",
			"PORT":     "9000",
			"DEBUG":    "true",
			"SERVICES": "svc-a,svc-b",
			"TIMEOUT":  "1m",
		}))
		require.NoError(t, err)
		assert.Equal(t, "custom", cfg.Name)
		assert.Equal(t, 9000, cfg.Port)
		assert.True(t, cfg.Debug)
		assert.Equal(t, []string{"svc-a", "svc-b"}, cfg.Services)
		assert.Equal(t, time.Minute, cfg.Timeout)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Load[sampleConfig](
			config.WithPrefix("APP_"),
			config.WithEnvironment(map[string]string{"APP_NAME": "prefixed", "NAME": "ignored"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "prefixed", cfg.Name)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load[requiredConfig](config.WithEnvironment(map[string]string{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load[sampleConfig](config.WithEnvironment(map[string]string{"PORT": "abc"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestLoad_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFG_TEST_FILE_SECRET=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CFG_TEST_FILE_SECRET") })

	type fileConfig struct {
		Secret string `env:"CFG_TEST_FILE_SECRET,required"`
	}

	cfg, err := config.Load[fileConfig](config.WithEnvFiles(path))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Secret)

	_, err = config.Load[fileConfig](config.WithEnvFiles(filepath.Join(dir, "missing.env")))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestMustLoad(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		config.MustLoad[requiredConfig](config.WithEnvironment(map[string]string{}))
	})
	assert.NotPanics(t, func() {
		cfg := config.MustLoad[requiredConfig](config.WithEnvironment(map[string]string{"SECRET": "s"}))
		assert.Equal(t, "s", cfg.Secret)
	})
}
