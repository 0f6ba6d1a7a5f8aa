package config

import (
	"errors"
	"testing"
)

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" || cfg.Service != "casino" || cfg.MaxMB != 10 {
		t.Fatalf("LoadLog() = %+v, want info/casino/10", cfg)
	}
	if cfg.Caller || cfg.Pretty {
		t.Fatalf("LoadLog() = %+v, want caller and pretty off", cfg)
	}
}

func TestLoadLogParse(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_SERVICE", "casino-bot")
	t.Setenv("LOG_CALLER", "true")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "debug" || cfg.Service != "casino-bot" || !cfg.Caller {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}

func TestLoadLogRejectsNegativeMaxMB(t *testing.T) {
	t.Setenv("LOG_MAX_MB", "-1")
	if _, err := LoadLog(); !errors.Is(err, ErrInvalidLogMaxMB) {
		t.Fatalf("LoadLog() error = %v, want %v", err, ErrInvalidLogMaxMB)
	}
}
