package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pkt.systems/pslog"

	"vppsh/pkg/config"
)

// newLogger builds the process logger. Interactive runs own the terminal, so
// they log to the configured file or nowhere; one-shot runs log to stderr.
func newLogger(cfg config.Config, oneShot bool, stderr io.Writer) (pslog.Logger, func(), error) {
	opts := pslog.Options{Mode: pslog.ModeStructured, NoColor: true}
	setMinLevel(&opts, cfg.LogLevel)

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return pslog.NewWithOptions(f, opts), func() { _ = f.Close() }, nil
	}
	if oneShot {
		opts.Mode = pslog.ModeConsole
		return pslog.NewWithOptions(stderr, opts), func() {}, nil
	}
	return pslog.NewWithOptions(io.Discard, opts), func() {}, nil
}

func setMinLevel(opts *pslog.Options, name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		opts.MinLevel = pslog.InfoLevel
	}
}
