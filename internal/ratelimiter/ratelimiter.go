package ratelimiter

import "time"

// Limiter decides whether a client identified by key may make another request.
// When it may not, Allow returns how long to wait.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

type Config struct {
	RequestsPerTimeFrame int           `env:"RATELIMITER_REQUESTS_COUNT" envDefault:"50"`
	TimeFrame            time.Duration `env:"RATE_LIMITER_WINDOW" envDefault:"5s"`
	Enabled              bool          `env:"RATE_LIMITER_ENABLED" envDefault:"true"`
}
