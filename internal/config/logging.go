package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidLogMaxMB = errors.New("LOG_MAX_MB must not be negative")

type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Service     string `env:"LOG_SERVICE" envDefault:"casino"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	Caller      bool   `env:"LOG_CALLER" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	File        string `env:"LOG_FILE"`
	MaxMB       int    `env:"LOG_MAX_MB" envDefault:"10"`
}

func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.MaxMB < 0 {
		return cfg, ErrInvalidLogMaxMB
	}
	return cfg, nil
}
