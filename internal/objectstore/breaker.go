package objectstore

import (
	"context"
	"errors"
	"io"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"studyspots/internal/apperr"
)

// BreakerConfig trips the breaker after FailureThreshold consecutive
// failures and probes the backend again after Timeout.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
}

var DefaultBreakerConfig = BreakerConfig{
	Name:             "objectstore",
	FailureThreshold: 5,
	Timeout:          30 * time.Second,
}

// Breaker guards a Store with circuit breakers so a failing backend is not
// hit by every upload. Every error it returns is an *apperr.DependencyError.
type Breaker struct {
	next   Store
	put    *gobreaker.CircuitBreaker[string]
	delete *gobreaker.CircuitBreaker[bool]
}

func NewBreaker(next Store, cfg BreakerConfig, logger *zap.SugaredLogger) *Breaker {
	settings := func(op string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        cfg.Name + "." + op,
			MaxRequests: 1,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warnw("object store breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
			// a caller giving up says nothing about the backend
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}
	}
	return &Breaker{
		next:   next,
		put:    gobreaker.NewCircuitBreaker[string](settings("put")),
		delete: gobreaker.NewCircuitBreaker[bool](settings("delete")),
	}
}

func (b *Breaker) Put(ctx context.Context, r io.Reader, contentType, folder string) (string, error) {
	url, err := b.put.Execute(func() (string, error) {
		return b.next.Put(ctx, r, contentType, folder)
	})
	if err != nil {
		return "", apperr.Dependency("upload asset", err)
	}
	return url, nil
}

func (b *Breaker) Delete(ctx context.Context, url string) (bool, error) {
	deleted, err := b.delete.Execute(func() (bool, error) {
		return b.next.Delete(ctx, url)
	})
	if err != nil {
		return false, apperr.Dependency("delete asset", err)
	}
	return deleted, nil
}
