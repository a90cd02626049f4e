// Package raspberrystats reads Raspberry Pi system telemetry by invoking
// the board's diagnostic commands (vcgencmd, free, df, a top pipeline,
// /proc/uptime) and parsing their textual output into typed records.
//
// Every metric is exposed through two calling conventions: a blocking
// method returning (value, error), and an Async variant delivering the same
// outcome to a handler exactly once without blocking the caller. Failures —
// a missing binary, a write to stderr, unparseable output, or a deadline
// expiry — all surface as ordinary error values; the library never panics.
package raspberrystats

import (
	"go.uber.org/zap"

	"github.com/perhp/raspberry-stats/internal/run"
)

// ErrTimeout marks queries that exceeded their deadline. Detect it with
// errors.Is.
var ErrTimeout = run.ErrTimeout

// Client issues one-shot telemetry queries. It holds no mutable state
// between queries and is safe for concurrent use.
type Client struct {
	cfg    *Config
	logger *zap.Logger
	runner *run.Runner
}

// New creates a Client. A nil config means DefaultConfig(); a nil logger
// disables logging.
func New(cfg *Config, logger *zap.Logger) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		runner: run.New(logger, cfg.Timeout.Duration),
	}
}
