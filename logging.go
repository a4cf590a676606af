package svo

import "github.com/gekko3d/svo/rt/logging"

// NewLogger builds the zap logger described by the logging section.
func NewLogger(cfg *Config) *logging.ZapLogger {
	opts := cfg.LoggingOptions("svo")
	if opts.File != "" {
		// the file keeps the full trace; the console stays quiet
		opts.Console = opts.Level == "debug"
	}
	return logging.New(opts)
}
