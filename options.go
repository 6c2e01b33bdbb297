package geoattr

import (
	"log/slog"

	"github.com/hupe1980/geoattr/attribute"
	"github.com/hupe1980/geoattr/persistence"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	managerMetrics   attribute.MetricsCollector
	parallelism      int
	storeOptions     []persistence.Option
}

// Option configures a Repository.
type Option func(*options)

// WithLogger configures structured logging for the repository and for every
// manager it creates or loads. Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := geoattr.NewJSONLogger(slog.LevelInfo)
//	repo, _ := geoattr.Open(ctx, cfg, geoattr.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a collector for save, load and delete timings.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithManagerMetrics configures the collector handed to every manager the
// repository creates or loads.
func WithManagerMetrics(mc attribute.MetricsCollector) Option {
	return func(o *options) {
		o.managerMetrics = mc
	}
}

// WithParallelism sets the bulk operation parallelism of managers the
// repository creates or loads.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithStoreOptions passes options through to the underlying persistence.Store.
// They are applied after the repository's own logger.
func WithStoreOptions(opts ...persistence.Option) Option {
	return func(o *options) {
		o.storeOptions = append(o.storeOptions, opts...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		parallelism:      1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}

func (o options) managerOptions() []attribute.Option {
	return []attribute.Option{
		attribute.WithLogger(o.logger.Logger),
		attribute.WithParallelism(o.parallelism),
		attribute.WithMetricsCollector(o.managerMetrics),
	}
}
