// Package logging configures the global zerolog logger and the shared sink
// used by the HTTP request logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/NikBoi5469/Casino/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu   sync.Mutex
	sink io.Writer = os.Stdout
	file *rotatingWriter
)

func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	mu.Lock()
	defer mu.Unlock()

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	sink = os.Stdout
	if file != nil {
		_ = file.Close()
		file = nil
	}
	if path := strings.TrimSpace(cfg.File); path != "" {
		w, err := newRotatingWriter(path, cfg.MaxMB)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("open log file failed, logging to stdout only")
		} else {
			file = w
			output = zerolog.MultiLevelWriter(output, w)
			sink = io.MultiWriter(os.Stdout, w)
		}
	}

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(output).With().Timestamp()
	if svc := strings.TrimSpace(cfg.Service); svc != "" {
		ctx = ctx.Str("service", svc)
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()
	if n := cfg.SampleEvery; n > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(n)})
	}
	log.Logger = logger
}

// Writer is the raw JSON sink, without console formatting.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return sink
}

// Close flushes and releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	sink = os.Stdout
	return err
}
