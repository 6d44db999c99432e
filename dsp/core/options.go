package core

import "runtime"

// ProcessorConfig defines common processing settings for the offline
// conditioning stages.
type ProcessorConfig struct {
	// SampleInterval is the nominal sampling interval h in seconds.
	SampleInterval float64
	// Workers bounds the number of channels processed concurrently.
	// Zero selects runtime.GOMAXPROCS.
	Workers int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns a 1 kHz configuration using all CPUs.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleInterval: 0.001,
		Workers:        0,
	}
}

// WithSampleInterval sets the sampling interval in seconds. The value is
// recorded as given, so consumers can reject it with ValidInterval.
func WithSampleInterval(h float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.SampleInterval = h
	}
}

// WithWorkers sets the concurrency bound.
func WithWorkers(n int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if n > 0 {
			cfg.Workers = n
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

// EffectiveWorkers resolves the Workers setting to a positive count.
func (cfg ProcessorConfig) EffectiveWorkers() int {
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}
