package attribute

import "log/slog"

type options struct {
	logger           *slog.Logger
	parallelism      int
	metricsCollector MetricsCollector
}

// Option configures a Manager.
type Option func(*options)

// WithLogger sets the logger used for structural operations and copy conflicts.
// Pass nil to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithParallelism fans bulk operations out over up to n workers, each attribute
// handled by exactly one worker. n <= 1 keeps bulk operations sequential.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithMetricsCollector configures a collector for bulk operation timings.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		parallelism:      1,
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
