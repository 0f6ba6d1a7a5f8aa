package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "secret")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.AdminHandle != "admin" {
		t.Fatalf("AdminHandle = %q, want admin", cfg.AdminHandle)
	}
	if !cfg.StartingBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("StartingBalance = %s, want 1000", cfg.StartingBalance)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if !cfg.RiskHighRatio.Equal(decimal.RequireFromString("1.5")) || cfg.RiskMinBets != 5 {
		t.Fatalf("risk config = %s/%d", cfg.RiskHighRatio, cfg.RiskMinBets)
	}
	if !cfg.AutoMigrate || cfg.PostgresDSN != "" {
		t.Fatalf("storage config = %+v", cfg)
	}
	if cfg.KafkaTopic != "casino.ledger" || cfg.ChatChannel != "casino_chat" {
		t.Fatalf("topics = %q/%q", cfg.KafkaTopic, cfg.ChatChannel)
	}
}

func TestLoadServerRequiresAdminPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("STARTING_BALANCE", "250.50")
	t.Setenv("RNG_SEED", "42")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("RISK_MEDIUM_RATIO", "1.25")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if !cfg.StartingBalance.Equal(decimal.RequireFromString("250.5")) {
		t.Fatalf("StartingBalance = %s, want 250.50", cfg.StartingBalance)
	}
	if cfg.RNGSeed != 42 {
		t.Fatalf("RNGSeed = %d, want 42", cfg.RNGSeed)
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Fatalf("SessionTTL = %v, want 90m", cfg.SessionTTL)
	}
	if cfg.AutoMigrate {
		t.Fatal("AutoMigrate = true, want false")
	}
	if !cfg.RiskMediumRatio.Equal(decimal.RequireFromString("1.25")) {
		t.Fatalf("RiskMediumRatio = %s, want 1.25", cfg.RiskMediumRatio)
	}
}

func TestLoadServerRejectsBadStartingBalance(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "secret")
	for _, v := range []string{"-1", "0.001"} {
		t.Setenv("STARTING_BALANCE", v)
		if _, err := LoadServer(); err != ErrInvalidStartingBalance {
			t.Fatalf("STARTING_BALANCE=%s error = %v, want %v", v, err, ErrInvalidStartingBalance)
		}
	}
}
