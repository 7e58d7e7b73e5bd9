// Package mock provides a deterministic in-memory brokerage used for paper
// trading and tests.
package mock

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eddiefleurent/optioneer/internal/broker"
	"github.com/eddiefleurent/optioneer/internal/util"
)

// secureFloat64 returns a cryptographically random float in [0, 1).
func secureFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0.5
	}
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// Simulator is an in-memory Broker. Prices and positions are seeded up
// front and option chains are generated on demand around the current price.
// Failures can be scripted per symbol to exercise error paths.
type Simulator struct {
	mu sync.Mutex

	prices     map[string]float64
	positions  map[string]*broker.Position
	marketOpen bool

	// priceErrors and chainErrors script market data failures.
	priceErrors map[string]error
	chainErrors map[string]error
	// submitErrors scripts order rejections by symbol.
	submitErrors map[string]string

	strikeInterval float64
	jitter         bool
}

var _ broker.Broker = (*Simulator)(nil)

// NewSimulator creates a simulator seeded with the given prices.
func NewSimulator(prices map[string]float64) *Simulator {
	seeded := make(map[string]float64, len(prices))
	for sym, p := range prices {
		seeded[sym] = p
	}
	return &Simulator{
		prices:         seeded,
		positions:      make(map[string]*broker.Position),
		marketOpen:     true,
		priceErrors:    make(map[string]error),
		chainErrors:    make(map[string]error),
		submitErrors:   make(map[string]string),
		strikeInterval: 5.0,
	}
}

// SetPosition seeds a share position.
func (s *Simulator) SetPosition(symbol string, quantity int, costBasis float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[symbol] = &broker.Position{Symbol: symbol, Quantity: quantity, CostBasis: costBasis}
}

// SetMarketOpen scripts the market clock.
func (s *Simulator) SetMarketOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marketOpen = open
}

// FailPrice scripts a price lookup failure for symbol.
func (s *Simulator) FailPrice(symbol string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceErrors[symbol] = err
}

// FailChain scripts an option chain failure for symbol.
func (s *Simulator) FailChain(symbol string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chainErrors[symbol] = err
}

// RejectOrders scripts order rejections for symbol with the given message.
func (s *Simulator) RejectOrders(symbol, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitErrors[symbol] = message
}

// EnableJitter adds small random noise to quoted prices.
func (s *Simulator) EnableJitter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jitter = true
}

func (s *Simulator) GetCurrentPrice(symbol string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.priceErrors[symbol]; err != nil {
		return 0, &broker.DataError{Op: "get price", Symbol: symbol, Err: err}
	}
	price, ok := s.prices[symbol]
	if !ok {
		return 0, &broker.DataError{Op: "get price", Symbol: symbol, Err: fmt.Errorf("unknown symbol")}
	}
	if s.jitter {
		price += (secureFloat64() - 0.5) * 0.02 * price
	}
	return util.RoundToTick(price, 0.01), nil
}

func (s *Simulator) GetOptionChain(symbol string, expiration time.Time) ([]broker.OptionContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.chainErrors[symbol]; err != nil {
		return nil, &broker.DataError{Op: "get option chain", Symbol: symbol, Err: err}
	}
	price, ok := s.prices[symbol]
	if !ok {
		return nil, &broker.DataError{Op: "get option chain", Symbol: symbol, Err: fmt.Errorf("unknown symbol")}
	}
	return s.generateChain(symbol, price, expiration), nil
}

// generateChain builds a put and a call at each strike on a fixed grid
// spanning roughly 50 points either side of the money.
func (s *Simulator) generateChain(symbol string, price float64, expiration time.Time) []broker.OptionContract {
	interval := s.strikeInterval
	startStrike := util.FloorToTick(price, interval) - 50
	if startStrike < interval {
		startStrike = interval
	}
	var chain []broker.OptionContract
	for strike := startStrike; strike <= price+50; strike += interval {
		for _, optType := range []string{broker.OptionTypePut, broker.OptionTypeCall} {
			letter := "P"
			if optType == broker.OptionTypeCall {
				letter = "C"
			}
			chain = append(chain, broker.OptionContract{
				Symbol:     fmt.Sprintf("%s%s%s%08d", symbol, expiration.Format("060102"), letter, int(strike*1000)),
				Underlying: symbol,
				Strike:     strike,
				Expiration: expiration,
				OptionType: optType,
			})
		}
	}
	return chain
}

func (s *Simulator) GetPosition(symbol string) (*broker.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.positions[symbol]
	if !ok {
		return nil, nil
	}
	cp := *pos
	return &cp, nil
}

func (s *Simulator) IsMarketOpen() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marketOpen, nil
}

// submit is the common path for every order type.
func (s *Simulator) submit(symbol string) (*broker.OrderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := s.submitErrors[symbol]; ok {
		return &broker.OrderResult{Success: false, Status: "rejected", ErrorMessage: msg}, nil
	}
	return &broker.OrderResult{
		Success: true,
		OrderID: strings.ToUpper(uuid.NewString()[:8]),
		Status:  "filled",
	}, nil
}

func (s *Simulator) SubmitSpreadOrder(order broker.SpreadOrder) (*broker.OrderResult, error) {
	return s.submit(order.Symbol)
}

func (s *Simulator) SubmitCollarOrder(symbol string, putStrike, callStrike float64, expiration time.Time, numCollars int) (*broker.OrderResult, error) {
	return s.submit(symbol)
}

func (s *Simulator) SubmitCoveredCallOrder(symbol string, callStrike float64, expiration time.Time, numContracts int) (*broker.OrderResult, error) {
	return s.submit(symbol)
}

func (s *Simulator) SubmitCashSecuredPutOrder(symbol string, putStrike float64, expiration time.Time, numContracts int) (*broker.OrderResult, error) {
	return s.submit(symbol)
}

func (s *Simulator) SubmitDoubleCalendarOrder(symbol string, putStrike, callStrike float64, shortExpiration, longExpiration time.Time, numContracts int) (*broker.OrderResult, error) {
	return s.submit(symbol)
}

func (s *Simulator) SubmitButterflyOrder(symbol string, lowerStrike, middleStrike, upperStrike float64, expiration time.Time, numContracts int) (*broker.OrderResult, error) {
	return s.submit(symbol)
}

func (s *Simulator) SubmitMarriedPutOrder(symbol string, shares int, putStrike float64, expiration time.Time) (*broker.OrderResult, error) {
	return s.submit(symbol)
}

func (s *Simulator) SubmitLongStraddleOrder(symbol string, strike float64, expiration time.Time, numContracts int) (*broker.OrderResult, error) {
	return s.submit(symbol)
}

func (s *Simulator) SubmitIronButterflyOrder(symbol string, lowerStrike, middleStrike, upperStrike float64, expiration time.Time, numContracts int) (*broker.OrderResult, error) {
	return s.submit(symbol)
}

func (s *Simulator) SubmitShortStrangleOrder(symbol string, putStrike, callStrike float64, expiration time.Time, numContracts int) (*broker.OrderResult, error) {
	return s.submit(symbol)
}

func (s *Simulator) SubmitIronCondorOrder(symbol string, putLongStrike, putShortStrike, callShortStrike, callLongStrike float64, expiration time.Time, numContracts int) (*broker.OrderResult, error) {
	return s.submit(symbol)
}
