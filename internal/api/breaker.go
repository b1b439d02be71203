package api

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"careerpilot/internal/errors"
)

// BreakerOptions configures the circuit breaker guarding backend calls.
type BreakerOptions struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

// apiBreaker wraps backend calls with circuit breaker protection. A nil
// breaker executes calls directly.
type apiBreaker struct {
	cb *gobreaker.CircuitBreaker[*envelope]
}

func newAPIBreaker(opts BreakerOptions, logger *errors.Logger) *apiBreaker {
	if !opts.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        "backend-api",
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= opts.MinRequests &&
				failureRatio >= opts.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String())
			}
		},
	}

	return &apiBreaker{
		cb: gobreaker.NewCircuitBreaker[*envelope](settings),
	}
}

// Execute runs fn with circuit breaker protection when enabled.
func (b *apiBreaker) Execute(fn func() (*envelope, error)) (*envelope, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Healthy reports whether the breaker is closed (or absent).
func (b *apiBreaker) Healthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
