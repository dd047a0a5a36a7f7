package core

// ProcessorConfig defines the block geometry of the audio callback.
type ProcessorConfig struct {
	SampleRate float64
	// MaxBlockSize is the largest number of samples per processing call.
	MaxBlockSize int
	// Channels is the number of interleaved channels per frame.
	Channels int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns defaults for an interleaved stereo callback.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:   48000,
		MaxBlockSize: 8192,
		Channels:     2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockSize sets the largest block size in samples.
func WithMaxBlockSize(n int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if n > 0 {
			cfg.MaxBlockSize = n
		}
	}
}

// WithChannels sets the number of interleaved channels.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
