package vep

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Doer issues a single HTTP request. *http.Client satisfies it; tests inject
// deterministic implementations.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BreakerDoer wraps a transport with a circuit breaker so a flapping
// upstream stops consuming retry budget and rate-limiter tokens. An open
// breaker surfaces as a transport error, which the retry machine treats as
// retryable.
type BreakerDoer struct {
	next    Doer
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerDoer wraps next with a circuit breaker tuned for the VEP
// service: trip after >=3 requests with a 60% failure ratio, probe again
// after 60 seconds.
func NewBreakerDoer(next Doer, logger *logrus.Logger) *BreakerDoer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "VEP",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &BreakerDoer{next: next, breaker: breaker}
}

// Do executes the request through the breaker. Server-side statuses are not
// failures from the breaker's point of view; only transport errors count, so
// the retry machine keeps sole ownership of status-code policy.
func (b *BreakerDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Do(req)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*http.Response), nil
}
