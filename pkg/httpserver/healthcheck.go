package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/notifier/pkg/logger"
)

// Overall health states.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Per-check states.
const (
	CheckOK    = "ok"
	CheckError = "error"
)

// DefaultCheckTimeout bounds each dependency probe.
const DefaultCheckTimeout = 5 * time.Second

// Check probes one dependency. Run returning nil marks it ok.
type Check struct {
	Name string
	// OKMessage and FailMessage are reported verbatim; the error text goes
	// to details.
	OKMessage   string
	FailMessage string
	Run         func(context.Context) error
}

// CheckResult is one entry of the health report.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthReport is the readiness response body.
type HealthReport struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]CheckResult `json:"checks"`
}

// HealthOption configures HealthCheckHandler.
type HealthOption func(*healthConfig)

type healthConfig struct {
	version string
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// WithVersion sets the version reported in the body.
func WithVersion(v string) HealthOption {
	return func(c *healthConfig) { c.version = v }
}

// WithCheckTimeout overrides DefaultCheckTimeout.
func WithCheckTimeout(d time.Duration) HealthOption {
	return func(c *healthConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHealthLogger logs failed checks.
func WithHealthLogger(l *slog.Logger) HealthOption {
	return func(c *healthConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now for the report timestamp.
func WithClock(now func() time.Time) HealthOption {
	return func(c *healthConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// HealthCheckHandler returns a readiness handler. All checks run
// concurrently; the response is 200 when every check passes and 503 with
// status "degraded" otherwise. A "server" entry is always reported ok.
func HealthCheckHandler(checks []Check, opts ...HealthOption) http.HandlerFunc {
	cfg := healthConfig{
		version: "dev",
		timeout: DefaultCheckTimeout,
		logger:  logger.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		report := HealthReport{
			Status:    StatusHealthy,
			Timestamp: cfg.now().UTC(),
			Version:   cfg.version,
			Checks: map[string]CheckResult{
				"server": {Status: CheckOK, Message: "HTTP server is running"},
			},
		}

		results := make([]CheckResult, len(checks))
		var wg sync.WaitGroup
		for i, c := range checks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = runCheck(ctx, cfg, c)
			}()
		}
		wg.Wait()

		for i, c := range checks {
			report.Checks[c.Name] = results[i]
			if results[i].Status != CheckOK {
				report.Status = StatusDegraded
			}
		}

		status := http.StatusOK
		if report.Status != StatusHealthy {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(report); err != nil {
			cfg.logger.ErrorContext(ctx, "failed to write health report", logger.Error(err))
		}
	}
}

func runCheck(ctx context.Context, cfg healthConfig, c Check) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	if err := c.Run(ctx); err != nil {
		cfg.logger.WarnContext(ctx, "readiness check failed", slog.String("check", c.Name), logger.Error(err))
		return CheckResult{Status: CheckError, Message: c.FailMessage, Details: err.Error()}
	}
	return CheckResult{Status: CheckOK, Message: c.OKMessage}
}

// LivenessHandler answers 200 "ALIVE" without touching dependencies.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}
