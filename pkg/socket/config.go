package socket

import "time"

// Config tunes the WebSocket endpoint.
type Config struct {
	SendBuffer     int           `env:"WS_SEND_BUFFER" envDefault:"256"`
	ReadLimit      int64         `env:"WS_READ_LIMIT" envDefault:"65536"`
	PongWait       time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`
	PingInterval   time.Duration `env:"WS_PING_INTERVAL" envDefault:"54s"`
	WriteWait      time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	AllowedOrigins []string      `env:"WS_ALLOWED_ORIGINS" envSeparator:","`
	RequireAuth    bool          `env:"WS_REQUIRE_AUTH" envDefault:"false"`
	TokenParam     string        `env:"WS_TOKEN_PARAM" envDefault:"token"`
}

// DefaultConfig mirrors the env defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   256,
		ReadLimit:    64 << 10,
		PongWait:     60 * time.Second,
		PingInterval: 54 * time.Second,
		WriteWait:    10 * time.Second,
		TokenParam:   "token",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = d.ReadLimit
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.TokenParam == "" {
		c.TokenParam = d.TokenParam
	}
	return c
}
