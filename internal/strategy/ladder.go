package strategy

import (
	"time"
)

// LadderedCallConfig parameterizes the laddered covered call calculator.
type LadderedCallConfig struct {
	CallOffsetPercent float64
	CallOffsetDollars float64
	ContractRatio     float64
	NumLegs           int
}

// DefaultLadderedCallConfig holds the stock laddered covered call settings.
// The ratio keeps roughly a third of the position uncovered.
var DefaultLadderedCallConfig = LadderedCallConfig{
	CallOffsetPercent: 5.0,
	ContractRatio:     0.667,
	NumLegs:           5,
}

// LadderLeg is one rung of a laddered covered call.
type LadderLeg struct {
	Leg          int
	CallStrike   float64
	Expiration   time.Time
	NumContracts int
}

// LadderedCallCalculator splits a covered call position across consecutive
// weekly expirations.
type LadderedCallCalculator struct {
	cfg LadderedCallConfig
}

func NewLadderedCallCalculator(config ...LadderedCallConfig) *LadderedCallCalculator {
	cfg := DefaultLadderedCallConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.CallOffsetPercent == 0 && cfg.CallOffsetDollars == 0 {
		cfg.CallOffsetPercent = DefaultLadderedCallConfig.CallOffsetPercent
	}
	if cfg.ContractRatio == 0 {
		cfg.ContractRatio = DefaultLadderedCallConfig.ContractRatio
	}
	if cfg.NumLegs == 0 {
		cfg.NumLegs = DefaultLadderedCallConfig.NumLegs
	}
	return &LadderedCallCalculator{cfg: cfg}
}

// Expirations returns the weekly Fridays the ladder legs will use.
func (c *LadderedCallCalculator) Expirations(now time.Time) []time.Time {
	return ConsecutiveFridays(now, c.cfg.NumLegs)
}

// TotalContracts returns the number of contracts covered by the ladder for
// the given share count.
func (c *LadderedCallCalculator) TotalContracts(sharesOwned int) int {
	return int(float64(sharesOwned)*c.cfg.ContractRatio) / 100
}

// Calculate resolves the ladder legs. Contracts are split evenly across the
// legs with the last leg absorbing any remainder; when there are fewer
// contracts than legs each leg gets one until they run out. Legs left with
// zero contracts are omitted.
func (c *LadderedCallCalculator) Calculate(price float64, strikes []float64, sharesOwned int, now time.Time) ([]LadderLeg, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	call, err := NearestStrikeAbove(strikes, targetAbove(price, c.cfg.CallOffsetPercent, c.cfg.CallOffsetDollars))
	if err != nil {
		return nil, err
	}
	total := c.TotalContracts(sharesOwned)
	perLeg := 1
	if total >= c.cfg.NumLegs {
		perLeg = total / c.cfg.NumLegs
	}
	fridays := ConsecutiveFridays(now, c.cfg.NumLegs)
	legs := make([]LadderLeg, 0, c.cfg.NumLegs)
	remaining := total
	for i := 0; i < c.cfg.NumLegs; i++ {
		contracts := perLeg
		if i == c.cfg.NumLegs-1 || contracts > remaining {
			contracts = remaining
		}
		remaining -= contracts
		if contracts == 0 {
			continue
		}
		legs = append(legs, LadderLeg{
			Leg:          i + 1,
			CallStrike:   call,
			Expiration:   fridays[i],
			NumContracts: contracts,
		})
	}
	return legs, nil
}
