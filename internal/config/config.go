package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Retell    RetellConfig    `envPrefix:"RETELL_"`
	Analytics AnalyticsConfig `envPrefix:"ANALYTICS_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:"0.0.0.0:8080"`
}

type DatabaseConfig struct {
	Hosts    []string `env:"HOSTS" envDefault:"localhost:27017"`
	Database string   `env:"DATABASE" envDefault:"voicebot"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	AuthDB   string   `env:"AUTH_DB" envDefault:"admin"`
	Direct   bool     `env:"DIRECT" envDefault:"true"`
}

// RetellConfig holds the server-side vendor credential. Clients never
// see the API key; every vendor call goes through this process.
type RetellConfig struct {
	BaseURL  string `env:"BASE_URL" envDefault:"https://api.retellai.com"`
	APIKey   string `env:"API_KEY,required"`
	VoiceID  string `env:"VOICE_ID" envDefault:"11labs-Adrian"`
	Language string `env:"LANGUAGE" envDefault:"en-US"`
}

// AnalyticsConfig bounds the post-call retrieval loop. The vendor
// finalizes analytics asynchronously and exposes no push channel, so
// polling with a fixed delay and a hard cap is the integration contract.
type AnalyticsConfig struct {
	MaxAttempts  int           `env:"MAX_ATTEMPTS" envDefault:"10"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
