package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/vango-dev/enhance/internal/dev"
)

// Config configures a Server.
type Config struct {
	// Address is the TCP address to listen on (default: "localhost:3000").
	Address string

	// Pages holds the page documents.
	Pages fs.FS

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool

	// MetricsHandler serves /metrics. Default: promhttp.Handler().
	MetricsHandler http.Handler

	// Compression configures gzip responses for pages.
	Compression CompressionConfig

	// Live enables dev mode: the reload endpoint is mounted and the reload
	// client is injected into every page. Nil outside dev mode.
	Live *dev.Live

	// ShutdownTimeout bounds graceful shutdown (default: 10s).
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout is passed to http.Server (default: 5s).
	ReadHeaderTimeout time.Duration

	// Logger receives request and render logs. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// CompressionConfig configures response compression.
type CompressionConfig struct {
	Enabled bool

	// Level is "default", "fastest" or "best".
	Level string

	// MinSize is the smallest response body compressed, in bytes.
	MinSize int
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address: "localhost:3000",
		Metrics: true,
		Compression: CompressionConfig{
			Enabled: true,
			Level:   "default",
			MinSize: 1024,
		},
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
