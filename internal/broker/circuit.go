package broker

import (
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreakerSettings configures failure isolation for broker calls.
type CircuitBreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultCircuitBreakerSettings trips after 60% failures over at least
// five calls and probes again after thirty seconds.
var DefaultCircuitBreakerSettings = CircuitBreakerSettings{
	MaxRequests:  3,
	Interval:     60 * time.Second,
	Timeout:      30 * time.Second,
	MinRequests:  5,
	FailureRatio: 0.6,
}

// CircuitBreakerBroker wraps a Broker so that a run of failures stops
// hitting the backend until it recovers.
type CircuitBreakerBroker struct {
	broker  Broker
	breaker *gobreaker.CircuitBreaker
	logger  *log.Logger
}

var _ Broker = (*CircuitBreakerBroker)(nil)

// NewCircuitBreakerBroker wraps broker with a circuit breaker. A nil logger
// falls back to the default logger.
func NewCircuitBreakerBroker(broker Broker, logger *log.Logger, settings ...CircuitBreakerSettings) *CircuitBreakerBroker {
	s := DefaultCircuitBreakerSettings
	if len(settings) > 0 {
		s = settings[0]
	}
	if logger == nil {
		logger = log.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "broker",
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return &CircuitBreakerBroker{broker: broker, breaker: cb, logger: logger}
}

func execCircuitBreaker[T any](breaker *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	result, err := breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (c *CircuitBreakerBroker) GetCurrentPrice(symbol string) (float64, error) {
	return execCircuitBreaker(c.breaker, func() (float64, error) {
		return c.broker.GetCurrentPrice(symbol)
	})
}

func (c *CircuitBreakerBroker) GetOptionChain(symbol string, expiration time.Time) ([]OptionContract, error) {
	return execCircuitBreaker(c.breaker, func() ([]OptionContract, error) {
		return c.broker.GetOptionChain(symbol, expiration)
	})
}

func (c *CircuitBreakerBroker) GetPosition(symbol string) (*Position, error) {
	return execCircuitBreaker(c.breaker, func() (*Position, error) {
		return c.broker.GetPosition(symbol)
	})
}

func (c *CircuitBreakerBroker) IsMarketOpen() (bool, error) {
	return execCircuitBreaker(c.breaker, func() (bool, error) {
		return c.broker.IsMarketOpen()
	})
}

func (c *CircuitBreakerBroker) SubmitSpreadOrder(order SpreadOrder) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitSpreadOrder(order)
	})
}

func (c *CircuitBreakerBroker) SubmitCollarOrder(symbol string, putStrike, callStrike float64, expiration time.Time, numCollars int) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitCollarOrder(symbol, putStrike, callStrike, expiration, numCollars)
	})
}

func (c *CircuitBreakerBroker) SubmitCoveredCallOrder(symbol string, callStrike float64, expiration time.Time, numContracts int) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitCoveredCallOrder(symbol, callStrike, expiration, numContracts)
	})
}

func (c *CircuitBreakerBroker) SubmitCashSecuredPutOrder(symbol string, putStrike float64, expiration time.Time, numContracts int) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitCashSecuredPutOrder(symbol, putStrike, expiration, numContracts)
	})
}

func (c *CircuitBreakerBroker) SubmitDoubleCalendarOrder(symbol string, putStrike, callStrike float64, shortExpiration, longExpiration time.Time, numContracts int) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitDoubleCalendarOrder(symbol, putStrike, callStrike, shortExpiration, longExpiration, numContracts)
	})
}

func (c *CircuitBreakerBroker) SubmitButterflyOrder(symbol string, lowerStrike, middleStrike, upperStrike float64, expiration time.Time, numContracts int) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitButterflyOrder(symbol, lowerStrike, middleStrike, upperStrike, expiration, numContracts)
	})
}

func (c *CircuitBreakerBroker) SubmitMarriedPutOrder(symbol string, shares int, putStrike float64, expiration time.Time) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitMarriedPutOrder(symbol, shares, putStrike, expiration)
	})
}

func (c *CircuitBreakerBroker) SubmitLongStraddleOrder(symbol string, strike float64, expiration time.Time, numContracts int) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitLongStraddleOrder(symbol, strike, expiration, numContracts)
	})
}

func (c *CircuitBreakerBroker) SubmitIronButterflyOrder(symbol string, lowerStrike, middleStrike, upperStrike float64, expiration time.Time, numContracts int) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitIronButterflyOrder(symbol, lowerStrike, middleStrike, upperStrike, expiration, numContracts)
	})
}

func (c *CircuitBreakerBroker) SubmitShortStrangleOrder(symbol string, putStrike, callStrike float64, expiration time.Time, numContracts int) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitShortStrangleOrder(symbol, putStrike, callStrike, expiration, numContracts)
	})
}

func (c *CircuitBreakerBroker) SubmitIronCondorOrder(symbol string, putLongStrike, putShortStrike, callShortStrike, callLongStrike float64, expiration time.Time, numContracts int) (*OrderResult, error) {
	return execCircuitBreaker(c.breaker, func() (*OrderResult, error) {
		return c.broker.SubmitIronCondorOrder(symbol, putLongStrike, putShortStrike, callShortStrike, callLongStrike, expiration, numContracts)
	})
}
