package config

import "github.com/caarlos0/env/v11"

// TestConfig gates the Postgres-backed store tests.
type TestConfig struct {
	PostgresDSN  string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
	SchemaPrefix string `env:"TEST_SCHEMA_PREFIX" envDefault:"casino_test"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	err := env.Parse(&cfg)
	return cfg, err
}
