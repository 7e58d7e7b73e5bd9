// Package broker defines the brokerage surface the trading engine depends
// on: market data, positions, and per-strategy order submission.
package broker

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Option type constants used across option chains and orders.
const (
	OptionTypePut  = "put"
	OptionTypeCall = "call"
)

// OptionContract is one tradable option in a chain.
type OptionContract struct {
	Symbol     string    `json:"symbol"`
	Underlying string    `json:"underlying"`
	Strike     float64   `json:"strike"`
	Expiration time.Time `json:"expiration"`
	OptionType string    `json:"option_type"`
}

// Position is a share position held at the broker.
type Position struct {
	Symbol    string  `json:"symbol"`
	Quantity  int     `json:"quantity"`
	CostBasis float64 `json:"cost_basis"`
}

// OrderResult is the broker's answer to a single order submission.
type OrderResult struct {
	Success      bool   `json:"success"`
	OrderID      string `json:"order_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// SpreadOrder is a put credit spread ready for submission.
type SpreadOrder struct {
	Symbol      string
	ShortStrike float64
	LongStrike  float64
	Expiration  time.Time
	Quantity    int
}

// DataError wraps a market data failure so callers can distinguish it from
// order rejections.
type DataError struct {
	Op     string
	Symbol string
	Err    error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// Broker is the brokerage capability surface. Wrap implementations with
// CircuitBreakerBroker for failure isolation.
type Broker interface {
	// GetCurrentPrice returns the last trade price for symbol.
	GetCurrentPrice(symbol string) (float64, error)

	// GetOptionChain returns the contracts tradable at expiration.
	GetOptionChain(symbol string, expiration time.Time) ([]OptionContract, error)

	// GetPosition returns the share position for symbol, or nil when none
	// is held.
	GetPosition(symbol string) (*Position, error)

	// IsMarketOpen reports whether the market is currently open.
	IsMarketOpen() (bool, error)

	SubmitSpreadOrder(order SpreadOrder) (*OrderResult, error)
	SubmitCollarOrder(symbol string, putStrike, callStrike float64, expiration time.Time, numCollars int) (*OrderResult, error)
	SubmitCoveredCallOrder(symbol string, callStrike float64, expiration time.Time, numContracts int) (*OrderResult, error)
	SubmitCashSecuredPutOrder(symbol string, putStrike float64, expiration time.Time, numContracts int) (*OrderResult, error)
	SubmitDoubleCalendarOrder(symbol string, putStrike, callStrike float64, shortExpiration, longExpiration time.Time, numContracts int) (*OrderResult, error)
	SubmitButterflyOrder(symbol string, lowerStrike, middleStrike, upperStrike float64, expiration time.Time, numContracts int) (*OrderResult, error)
	SubmitMarriedPutOrder(symbol string, shares int, putStrike float64, expiration time.Time) (*OrderResult, error)
	SubmitLongStraddleOrder(symbol string, strike float64, expiration time.Time, numContracts int) (*OrderResult, error)
	SubmitIronButterflyOrder(symbol string, lowerStrike, middleStrike, upperStrike float64, expiration time.Time, numContracts int) (*OrderResult, error)
	SubmitShortStrangleOrder(symbol string, putStrike, callStrike float64, expiration time.Time, numContracts int) (*OrderResult, error)
	SubmitIronCondorOrder(symbol string, putLongStrike, putShortStrike, callShortStrike, callLongStrike float64, expiration time.Time, numContracts int) (*OrderResult, error)
}

// Strikes extracts the sorted distinct strikes from a chain.
func Strikes(chain []OptionContract) []float64 {
	seen := make(map[float64]bool, len(chain))
	strikes := make([]float64, 0, len(chain))
	for _, opt := range chain {
		if !seen[opt.Strike] {
			seen[opt.Strike] = true
			strikes = append(strikes, opt.Strike)
		}
	}
	sort.Float64s(strikes)
	return strikes
}

// CommonStrikes returns the strikes present in both chains, sorted.
func CommonStrikes(a, b []OptionContract) []float64 {
	inB := make(map[float64]bool)
	for _, opt := range b {
		inB[opt.Strike] = true
	}
	seen := make(map[float64]bool)
	var common []float64
	for _, opt := range a {
		if inB[opt.Strike] && !seen[opt.Strike] {
			seen[opt.Strike] = true
			common = append(common, opt.Strike)
		}
	}
	sort.Float64s(common)
	return common
}

// GetOptionByStrike finds the contract of the given type at strike,
// tolerating float representation noise.
func GetOptionByStrike(chain []OptionContract, strike float64, optionType string) (*OptionContract, bool) {
	for i := range chain {
		if chain[i].OptionType == optionType && math.Abs(chain[i].Strike-strike) < 1e-4 {
			return &chain[i], true
		}
	}
	return nil, false
}
