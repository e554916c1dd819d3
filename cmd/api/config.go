package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"studyspots/internal/ratelimiter"
)

const (
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

type config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	Env         string `env:"ENV" envDefault:"development"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DB          dbConfig
	Auth        authConfig

	CloudinaryURL string `env:"CLOUDINARY_URL"`

	RateLimiter ratelimiter.Config

	// RatingRepairInterval runs the venue rating repair periodically; zero
	// disables it.
	RatingRepairInterval time.Duration `env:"RATING_REPAIR_INTERVAL" envDefault:"0s"`
}

type dbConfig struct {
	Addr         string `env:"DB_ADDR"`
	MaxOpenConns int32  `env:"DB_MAX_OPEN_CONNS" envDefault:"30"`
	MaxIdleTime  string `env:"DB_MAX_IDLE_TIME" envDefault:"15m"`
}

type authConfig struct {
	Basic basicConfig
	Token tokenConfig
}

type basicConfig struct {
	User string `env:"AUTH_BASIC_USER" envDefault:"admin"`
	Pass string `env:"AUTH_BASIC_PASS"`
}

type tokenConfig struct {
	Secret        string `env:"AUTH_TOKEN_SECRET"`
	RefreshSecret string `env:"AUTH_TOKEN_REFRESH_SECRET"`
	Iss           string `env:"AUTH_TOKEN_ISSUER" envDefault:"studyspots"`
}

// loadConfig reads .env when present, then the process environment.
func loadConfig(files ...string) (config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return config{}, fmt.Errorf("load env files: %w", err)
	}

	cfg, err := env.ParseAs[config]()
	if err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Auth.Token.RefreshSecret == "" {
		cfg.Auth.Token.RefreshSecret = cfg.Auth.Token.Secret
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	switch c.StoreDriver {
	case driverMemory:
	case driverPostgres:
		if c.DB.Addr == "" {
			return fmt.Errorf("DB_ADDR is required with STORE_DRIVER=%s", driverPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Auth.Token.Secret == "" {
		return fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}
	if c.Auth.Basic.Pass == "" {
		return fmt.Errorf("AUTH_BASIC_PASS is required")
	}
	if c.RatingRepairInterval < 0 {
		return fmt.Errorf("RATING_REPAIR_INTERVAL must not be negative")
	}
	return nil
}
