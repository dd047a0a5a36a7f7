package fxmanager

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxengine/dsp/core"
	"github.com/cwbudde/algo-fxengine/dsp/feature"
)

const defaultCapacity = 256

// Option configures a Manager.
type Option func(*config)

type config struct {
	processor core.ProcessorConfig
	capacity  int

	logger logrus.FieldLogger
	debug  bool

	metrics *Metrics

	analyzer    *feature.Analyzer
	analyzerSet bool
}

func defaultConfig() config {
	return config{
		processor: core.DefaultProcessorConfig(),
		capacity:  defaultCapacity,
		logger:    logrus.StandardLogger(),
	}
}

// WithMaxBlockSize sets the capacity of the scratch buffers, i.e. the largest
// block the processing entry points accept. Racks and chains keep their own
// scratch space; build them with fxrack.WithRackMaxBlockSize and
// fxrack.WithChainMaxBlockSize of at least n, or they leave larger blocks
// unprocessed.
func WithMaxBlockSize(n int) Option {
	return func(cfg *config) {
		core.WithMaxBlockSize(n)(&cfg.processor)
	}
}

// WithChannels sets the number of interleaved channels per frame. Gain ramps
// advance once per frame.
func WithChannels(channels int) Option {
	return func(cfg *config) {
		core.WithChannels(channels)(&cfg.processor)
	}
}

// WithCapacity sets how many racks each rack list reserves, and the size hint
// of the master chain and effect lists.
func WithCapacity(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.capacity = n
		}
	}
}

// WithLogger sets the logger used for debug output and construction messages.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDebugOutput logs every request and response at debug level. Logging
// allocates, so this is meant for development only.
func WithDebugOutput(enabled bool) Option {
	return func(cfg *config) {
		cfg.debug = enabled
	}
}

// WithMetrics records request and response counters into m.
func WithMetrics(m *Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

// WithFeatureAnalyzer replaces the analyzer that fills GroupFeatureState
// during pre-fader processing. A nil analyzer disables feature analysis.
func WithFeatureAnalyzer(a *feature.Analyzer) Option {
	return func(cfg *config) {
		cfg.analyzer = a
		cfg.analyzerSet = true
	}
}
