package offline

import (
	"context"
	"log"
	"os"
	"time"
)

// Probe reports whether the remote system is currently reachable.
type Probe func(ctx context.Context) bool

// MonitorConfig holds tunables for the connectivity monitor.
type MonitorConfig struct {
	// Interval is the periodic drain cadence while online.
	Interval time.Duration

	// PollInterval is how often connectivity is probed to detect
	// offline/online transitions.
	PollInterval time.Duration

	// Logger for monitor activity.
	Logger *log.Logger
}

// DefaultMonitorConfig returns the stock settings: a five minute drain
// cadence with connectivity probed every fifteen seconds.
func DefaultMonitorConfig() *MonitorConfig {
	return &MonitorConfig{
		Interval:     5 * time.Minute,
		PollInterval: 15 * time.Second,
		Logger:       log.New(os.Stderr, "[monitor] ", log.LstdFlags),
	}
}

// Monitor watches connectivity transitions and a periodic timer, and
// triggers queue drains. It is the only component that invokes Drain;
// everything else only enqueues.
type Monitor struct {
	queue *Queue
	probe Probe
	cfg   *MonitorConfig
}

// NewMonitor creates a monitor over the given queue and probe.
func NewMonitor(q *Queue, probe Probe, cfg *MonitorConfig) *Monitor {
	if cfg == nil {
		cfg = DefaultMonitorConfig()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[monitor] ", log.LstdFlags)
	}
	return &Monitor{queue: q, probe: probe, cfg: cfg}
}

// Run blocks until ctx is cancelled. It drains once immediately if
// already online, then drains on every offline-to-online transition
// and on each interval tick while online.
func (m *Monitor) Run(ctx context.Context) error {
	online := m.probe(ctx)
	if online {
		m.cfg.Logger.Print("online, draining sync queue")
		m.queue.Drain(ctx)
	} else {
		m.cfg.Logger.Print("offline, waiting for connectivity")
	}

	poll := time.NewTicker(m.cfg.PollInterval)
	defer poll.Stop()
	interval := time.NewTicker(m.cfg.Interval)
	defer interval.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-poll.C:
			now := m.probe(ctx)
			if now && !online {
				m.cfg.Logger.Print("back online, draining sync queue")
				m.queue.Drain(ctx)
			}
			if !now && online {
				m.cfg.Logger.Print("connectivity lost")
			}
			online = now

		case <-interval.C:
			if online {
				m.queue.Drain(ctx)
			}
		}
	}
}
