package scheduler

import (
	"github.com/glessard/go-deferred/scheduler/metrics"
)

// Option configures a Scheduler constructed by New.
type Option func(*config)

type config struct {
	workers  uint
	provider metrics.Provider
	laneSize uint
}

func defaultConfig() config {
	return config{
		workers:  4,
		provider: metrics.NewNoopProvider(),
		laneSize: 1024,
	}
}

// WithWorkers sets the fixed number of goroutines draining the priority
// lanes (default 4). n must be greater than zero.
func WithWorkers(n uint) Option {
	return func(c *config) {
		if n == 0 {
			panic("scheduler: WithWorkers requires n > 0")
		}
		c.workers = n
	}
}

// WithMetrics installs a metrics provider used to record per-QoS submit
// counts, queue depth, and dispatch latency. The default is a no-op
// provider.
func WithMetrics(p metrics.Provider) Option {
	return func(c *config) {
		if p == nil {
			panic("scheduler: WithMetrics requires a non-nil provider")
		}
		c.provider = p
	}
}

// WithLaneBuffer sets the buffered capacity of each of the five priority
// lanes (default 1024).
func WithLaneBuffer(size uint) Option {
	return func(c *config) { c.laneSize = size }
}
