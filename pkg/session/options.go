package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formedit/pkg/persist"
)

// Option customises a Session.
type Option func(*config)

type config struct {
	bridge *persist.Bridge
	logger *zap.Logger
	now    func() time.Time
}

// WithBridge persists every mutation through bridge. Without one the session
// lives in memory only.
func WithBridge(bridge *persist.Bridge) Option {
	return func(c *config) {
		c.bridge = bridge
	}
}

// WithLogger overrides the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used for lastChanged.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
