package persistence

import (
	"log/slog"

	"github.com/hupe1980/geoattr/archive"
	"github.com/hupe1980/geoattr/codec"
	"github.com/hupe1980/geoattr/resource"
)

type options struct {
	logger       *slog.Logger
	types        *archive.Context
	frame        archive.FrameOptions
	summaryCodec codec.Codec
	controller   *resource.Controller
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger for saves, loads and deletions.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTypes sets the type registry used to encode and decode attributes.
func WithTypes(types *archive.Context) Option {
	return func(o *options) {
		o.types = types
	}
}

// WithCompression sets the frame compression of new archives.
func WithCompression(c archive.Compression) Option {
	return func(o *options) {
		o.frame.Compression = c
	}
}

// WithSummaryCodec sets the codec for new summaries. Existing summaries keep
// the codec they were written with.
func WithSummaryCodec(c codec.Codec) Option {
	return func(o *options) {
		o.summaryCodec = c
	}
}

// WithController throttles transfers and bounds decode memory.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

func applyOptions(optFns []Option) (options, error) {
	opts := options{
		logger:       slog.New(slog.DiscardHandler),
		frame:        archive.FrameOptions{Compression: archive.CompressionLZ4},
		summaryCodec: codec.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.types == nil {
		types, err := DefaultTypes()
		if err != nil {
			return options{}, err
		}
		opts.types = types
	}
	return opts, nil
}
