package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

var ErrInvalidStartingBalance = errors.New("STARTING_BALANCE must be a non-negative amount with at most two decimals")

type ServerConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	AdminHandle   string `env:"ADMIN_HANDLE" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD,required,notEmpty"`

	StartingBalance decimal.Decimal `env:"STARTING_BALANCE" envDefault:"1000.00"`
	RNGSeed         uint64          `env:"RNG_SEED" envDefault:"0"`
	SessionTTL      time.Duration   `env:"SESSION_TTL" envDefault:"24h"`

	ActiveWindow    time.Duration   `env:"ACTIVE_WINDOW" envDefault:"24h"`
	RiskHighRatio   decimal.Decimal `env:"RISK_HIGH_RATIO" envDefault:"1.5"`
	RiskMediumRatio decimal.Decimal `env:"RISK_MEDIUM_RATIO" envDefault:"1.1"`
	RiskMinBets     int             `env:"RISK_MIN_BETS" envDefault:"5"`

	RedisAddr   string `env:"REDIS_ADDR"`
	ChatChannel string `env:"CHAT_CHANNEL" envDefault:"casino_chat"`

	KafkaBrokers  string `env:"KAFKA_BROKERS"`
	KafkaTopic    string `env:"KAFKA_TOPIC" envDefault:"casino.ledger"`
	EventBuffer   int    `env:"EVENT_BUFFER" envDefault:"1024"`
	EventRetryMax int    `env:"EVENT_RETRY_MAX" envDefault:"3"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.StartingBalance.IsNegative() || !cfg.StartingBalance.Equal(cfg.StartingBalance.Truncate(2)) {
		return cfg, ErrInvalidStartingBalance
	}
	return cfg, nil
}
