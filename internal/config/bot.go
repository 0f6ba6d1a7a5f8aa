package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Handle   string `env:"BOT_HANDLE" envDefault:"bot"`
	Password string `env:"BOT_PASSWORD" envDefault:"bot-password"`
	Workers  int    `env:"BOT_WORKERS" envDefault:"4"`
	Rounds   int    `env:"BOT_ROUNDS" envDefault:"50"`
	Stake    string `env:"BOT_STAKE" envDefault:"1.00"`
	Game     string `env:"BOT_GAME" envDefault:"dice"`
	Chat     bool   `env:"BOT_CHAT" envDefault:"false"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
