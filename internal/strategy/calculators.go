package strategy

import (
	"fmt"
	"math"
	"time"
)

// targetBelow computes an offset target under price. A dollar offset takes
// precedence over a percentage one when both are set.
func targetBelow(price, offsetPercent, offsetDollars float64) float64 {
	if offsetDollars > 0 {
		return price - offsetDollars
	}
	return price * (1 - offsetPercent/100)
}

// targetAbove computes an offset target over price, dollar offset first.
func targetAbove(price, offsetPercent, offsetDollars float64) float64 {
	if offsetDollars > 0 {
		return price + offsetDollars
	}
	return price * (1 + offsetPercent/100)
}

func checkPrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("current price must be positive, got %.2f", price)
	}
	return nil
}

func checkOffsetPercent(pct float64) error {
	if pct <= 0 || pct > 100 {
		return fmt.Errorf("offset percent must be in (0, 100], got %.2f", pct)
	}
	return nil
}

// SpreadConfig parameterizes the put credit spread calculator.
type SpreadConfig struct {
	OffsetPercent   float64
	SpreadWidth     float64
	Quantity        int
	ExpirationWeeks int
}

// DefaultSpreadConfig holds the stock put credit spread settings.
var DefaultSpreadConfig = SpreadConfig{
	OffsetPercent:   5.0,
	SpreadWidth:     5.0,
	Quantity:        1,
	ExpirationWeeks: 1,
}

// SpreadParameters is a fully resolved put credit spread.
type SpreadParameters struct {
	ShortStrike float64
	LongStrike  float64
	SpreadWidth float64
	Expiration  time.Time
	Quantity    int
}

// SpreadCalculator resolves put credit spread parameters against a chain.
type SpreadCalculator struct {
	cfg SpreadConfig
}

// NewSpreadCalculator builds a calculator, falling back to defaults for
// zero-valued settings.
func NewSpreadCalculator(config ...SpreadConfig) *SpreadCalculator {
	cfg := DefaultSpreadConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.OffsetPercent == 0 {
		cfg.OffsetPercent = DefaultSpreadConfig.OffsetPercent
	}
	if cfg.SpreadWidth == 0 {
		cfg.SpreadWidth = DefaultSpreadConfig.SpreadWidth
	}
	if cfg.Quantity == 0 {
		cfg.Quantity = DefaultSpreadConfig.Quantity
	}
	if cfg.ExpirationWeeks == 0 {
		cfg.ExpirationWeeks = DefaultSpreadConfig.ExpirationWeeks
	}
	return &SpreadCalculator{cfg: cfg}
}

// Expiration returns the snapped expiration the calculator will use as of now.
func (c *SpreadCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromWeeks(now, c.cfg.ExpirationWeeks)
}

// ShortStrikeTarget returns the raw short strike target before snapping.
func (c *SpreadCalculator) ShortStrikeTarget(price float64) (float64, error) {
	if err := checkPrice(price); err != nil {
		return 0, err
	}
	if err := checkOffsetPercent(c.cfg.OffsetPercent); err != nil {
		return 0, err
	}
	return price * (1 - c.cfg.OffsetPercent/100), nil
}

// LongStrikeError marks a snap failure on the protective long leg so the
// caller can report it separately from the short leg.
type LongStrikeError struct {
	Err error
}

func (e *LongStrikeError) Error() string { return e.Err.Error() }

func (e *LongStrikeError) Unwrap() error { return e.Err }

// Calculate resolves the spread against the available strikes as of now.
// Both legs snap to the nearest strike at or below their targets. The long
// target is derived from the raw short target rather than the snapped short
// strike, so snapping on a sparse chain can widen or narrow the spread.
func (c *SpreadCalculator) Calculate(price float64, strikes []float64, now time.Time) (*SpreadParameters, error) {
	target, err := c.ShortStrikeTarget(price)
	if err != nil {
		return nil, err
	}
	short, err := NearestStrikeBelow(strikes, target)
	if err != nil {
		return nil, err
	}
	long, err := NearestStrikeBelow(strikes, target-c.cfg.SpreadWidth)
	if err != nil {
		return nil, &LongStrikeError{Err: err}
	}
	return &SpreadParameters{
		ShortStrike: short,
		LongStrike:  long,
		SpreadWidth: short - long,
		Expiration:  ExpirationFromWeeks(now, c.cfg.ExpirationWeeks),
		Quantity:    c.cfg.Quantity,
	}, nil
}

// CollarConfig parameterizes the collar calculator.
type CollarConfig struct {
	PutOffsetPercent  float64
	CallOffsetPercent float64
	PutOffsetDollars  float64
	CallOffsetDollars float64
	ExpirationDays    int
	SharesPerSymbol   int
}

// DefaultCollarConfig holds the stock collar settings.
var DefaultCollarConfig = CollarConfig{
	PutOffsetPercent:  5.0,
	CallOffsetPercent: 5.0,
	ExpirationDays:    30,
	SharesPerSymbol:   100,
}

// CollarParameters is a fully resolved collar.
type CollarParameters struct {
	PutStrike  float64
	CallStrike float64
	Expiration time.Time
	NumCollars int
}

// CollarCalculator resolves collar parameters around an existing share position.
type CollarCalculator struct {
	cfg CollarConfig
}

func NewCollarCalculator(config ...CollarConfig) *CollarCalculator {
	cfg := DefaultCollarConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.PutOffsetPercent == 0 && cfg.PutOffsetDollars == 0 {
		cfg.PutOffsetPercent = DefaultCollarConfig.PutOffsetPercent
	}
	if cfg.CallOffsetPercent == 0 && cfg.CallOffsetDollars == 0 {
		cfg.CallOffsetPercent = DefaultCollarConfig.CallOffsetPercent
	}
	if cfg.ExpirationDays == 0 {
		cfg.ExpirationDays = DefaultCollarConfig.ExpirationDays
	}
	if cfg.SharesPerSymbol == 0 {
		cfg.SharesPerSymbol = DefaultCollarConfig.SharesPerSymbol
	}
	return &CollarCalculator{cfg: cfg}
}

// Calculate resolves the put floor and call ceiling for sharesOwned shares.
func (c *CollarCalculator) Calculate(price float64, strikes []float64, sharesOwned int, now time.Time) (*CollarParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	put, err := NearestStrikeBelow(strikes, targetBelow(price, c.cfg.PutOffsetPercent, c.cfg.PutOffsetDollars))
	if err != nil {
		return nil, err
	}
	call, err := NearestStrikeAbove(strikes, targetAbove(price, c.cfg.CallOffsetPercent, c.cfg.CallOffsetDollars))
	if err != nil {
		return nil, err
	}
	return &CollarParameters{
		PutStrike:  put,
		CallStrike: call,
		Expiration: ExpirationFromDays(now, c.cfg.ExpirationDays),
		NumCollars: sharesOwned / 100,
	}, nil
}

// CoveredCallConfig parameterizes the covered call calculator.
type CoveredCallConfig struct {
	OffsetPercent  float64
	OffsetDollars  float64
	ExpirationDays int
}

// DefaultCoveredCallConfig holds the stock covered call settings.
var DefaultCoveredCallConfig = CoveredCallConfig{
	OffsetPercent:  5.0,
	ExpirationDays: 10,
}

// CoveredCallParameters is a fully resolved covered call.
type CoveredCallParameters struct {
	CallStrike   float64
	Expiration   time.Time
	NumContracts int
}

// CoveredCallCalculator resolves call strikes above the market for owned shares.
type CoveredCallCalculator struct {
	cfg CoveredCallConfig
}

func NewCoveredCallCalculator(config ...CoveredCallConfig) *CoveredCallCalculator {
	cfg := DefaultCoveredCallConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.OffsetPercent == 0 && cfg.OffsetDollars == 0 {
		cfg.OffsetPercent = DefaultCoveredCallConfig.OffsetPercent
	}
	if cfg.ExpirationDays == 0 {
		cfg.ExpirationDays = DefaultCoveredCallConfig.ExpirationDays
	}
	return &CoveredCallCalculator{cfg: cfg}
}

func (c *CoveredCallCalculator) Calculate(price float64, strikes []float64, sharesOwned int, now time.Time) (*CoveredCallParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	call, err := NearestStrikeAbove(strikes, targetAbove(price, c.cfg.OffsetPercent, c.cfg.OffsetDollars))
	if err != nil {
		return nil, err
	}
	return &CoveredCallParameters{
		CallStrike:   call,
		Expiration:   ExpirationFromDays(now, c.cfg.ExpirationDays),
		NumContracts: sharesOwned / 100,
	}, nil
}

// WheelPhase names the side of the wheel the position is currently on.
type WheelPhase string

const (
	// WheelPhaseCoveredCall sells calls while holding at least 100 shares.
	WheelPhaseCoveredCall WheelPhase = "covered_call"
	// WheelPhaseCashSecuredPut sells puts while holding fewer than 100 shares.
	WheelPhaseCashSecuredPut WheelPhase = "cash_secured_put"
)

// WheelConfig parameterizes the wheel calculator.
type WheelConfig struct {
	PutOffsetPercent  float64
	CallOffsetPercent float64
	PutOffsetDollars  float64
	CallOffsetDollars float64
	ExpirationDays    int
}

// DefaultWheelConfig holds the stock wheel settings.
var DefaultWheelConfig = WheelConfig{
	PutOffsetPercent:  5.0,
	CallOffsetPercent: 5.0,
	ExpirationDays:    30,
}

// WheelParameters is a fully resolved wheel leg for the current phase.
type WheelParameters struct {
	Phase        WheelPhase
	Strike       float64
	Expiration   time.Time
	NumContracts int
}

// WheelCalculator picks the wheel phase from the share count and resolves
// the matching single-leg order.
type WheelCalculator struct {
	cfg WheelConfig
}

func NewWheelCalculator(config ...WheelConfig) *WheelCalculator {
	cfg := DefaultWheelConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.PutOffsetPercent == 0 && cfg.PutOffsetDollars == 0 {
		cfg.PutOffsetPercent = DefaultWheelConfig.PutOffsetPercent
	}
	if cfg.CallOffsetPercent == 0 && cfg.CallOffsetDollars == 0 {
		cfg.CallOffsetPercent = DefaultWheelConfig.CallOffsetPercent
	}
	if cfg.ExpirationDays == 0 {
		cfg.ExpirationDays = DefaultWheelConfig.ExpirationDays
	}
	return &WheelCalculator{cfg: cfg}
}

func (c *WheelCalculator) Calculate(price float64, strikes []float64, sharesOwned int, now time.Time) (*WheelParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	expiration := ExpirationFromDays(now, c.cfg.ExpirationDays)
	if sharesOwned >= 100 {
		call, err := NearestStrikeAbove(strikes, targetAbove(price, c.cfg.CallOffsetPercent, c.cfg.CallOffsetDollars))
		if err != nil {
			return nil, err
		}
		return &WheelParameters{
			Phase:        WheelPhaseCoveredCall,
			Strike:       call,
			Expiration:   expiration,
			NumContracts: sharesOwned / 100,
		}, nil
	}
	put, err := NearestStrikeBelow(strikes, targetBelow(price, c.cfg.PutOffsetPercent, c.cfg.PutOffsetDollars))
	if err != nil {
		return nil, err
	}
	return &WheelParameters{
		Phase:        WheelPhaseCashSecuredPut,
		Strike:       put,
		Expiration:   expiration,
		NumContracts: 1,
	}, nil
}

// DoubleCalendarConfig parameterizes the double calendar calculator.
type DoubleCalendarConfig struct {
	PutOffsetPercent    float64
	CallOffsetPercent   float64
	ShortExpirationDays int
	LongExpirationDays  int
	NumContracts        int
}

// DefaultDoubleCalendarConfig holds the stock double calendar settings.
var DefaultDoubleCalendarConfig = DoubleCalendarConfig{
	PutOffsetPercent:    2.0,
	CallOffsetPercent:   2.0,
	ShortExpirationDays: 2,
	LongExpirationDays:  4,
	NumContracts:        1,
}

// DoubleCalendarParameters is a fully resolved double calendar.
type DoubleCalendarParameters struct {
	PutStrike       float64
	CallStrike      float64
	ShortExpiration time.Time
	LongExpiration  time.Time
	NumContracts    int
}

// DoubleCalendarCalculator resolves the two strikes and two expirations of a
// double calendar. Callers pass the strikes tradable at both expirations.
type DoubleCalendarCalculator struct {
	cfg DoubleCalendarConfig
}

func NewDoubleCalendarCalculator(config ...DoubleCalendarConfig) *DoubleCalendarCalculator {
	cfg := DefaultDoubleCalendarConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.PutOffsetPercent == 0 {
		cfg.PutOffsetPercent = DefaultDoubleCalendarConfig.PutOffsetPercent
	}
	if cfg.CallOffsetPercent == 0 {
		cfg.CallOffsetPercent = DefaultDoubleCalendarConfig.CallOffsetPercent
	}
	if cfg.ShortExpirationDays == 0 {
		cfg.ShortExpirationDays = DefaultDoubleCalendarConfig.ShortExpirationDays
	}
	if cfg.LongExpirationDays == 0 {
		cfg.LongExpirationDays = DefaultDoubleCalendarConfig.LongExpirationDays
	}
	if cfg.NumContracts == 0 {
		cfg.NumContracts = DefaultDoubleCalendarConfig.NumContracts
	}
	return &DoubleCalendarCalculator{cfg: cfg}
}

// Expirations returns the weekend-adjusted short and long expirations.
func (c *DoubleCalendarCalculator) Expirations(now time.Time) (short, long time.Time) {
	return ExpirationSkipWeekend(now, c.cfg.ShortExpirationDays),
		ExpirationSkipWeekend(now, c.cfg.LongExpirationDays)
}

func (c *DoubleCalendarCalculator) Calculate(price float64, strikes []float64, now time.Time) (*DoubleCalendarParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	put, err := NearestStrikeBelow(strikes, price*(1-c.cfg.PutOffsetPercent/100))
	if err != nil {
		return nil, err
	}
	call, err := NearestStrikeAbove(strikes, price*(1+c.cfg.CallOffsetPercent/100))
	if err != nil {
		return nil, err
	}
	shortExp, longExp := c.Expirations(now)
	return &DoubleCalendarParameters{
		PutStrike:       put,
		CallStrike:      call,
		ShortExpiration: shortExp,
		LongExpiration:  longExp,
		NumContracts:    c.cfg.NumContracts,
	}, nil
}

// ButterflyConfig parameterizes the butterfly calculator.
type ButterflyConfig struct {
	WingWidth      float64
	ExpirationDays int
	NumContracts   int
}

// DefaultButterflyConfig holds the stock butterfly settings.
var DefaultButterflyConfig = ButterflyConfig{
	WingWidth:      5.0,
	ExpirationDays: 7,
	NumContracts:   1,
}

// ButterflyParameters is a fully resolved butterfly.
type ButterflyParameters struct {
	LowerStrike  float64
	MiddleStrike float64
	UpperStrike  float64
	Expiration   time.Time
	NumContracts int
}

// ButterflyCalculator centers a body at the money and snaps wings at the
// configured width, falling back to the narrowest symmetric pair when the
// snapped wings come out lopsided.
type ButterflyCalculator struct {
	cfg ButterflyConfig
}

func NewButterflyCalculator(config ...ButterflyConfig) *ButterflyCalculator {
	cfg := DefaultButterflyConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.WingWidth == 0 {
		cfg.WingWidth = DefaultButterflyConfig.WingWidth
	}
	if cfg.ExpirationDays == 0 {
		cfg.ExpirationDays = DefaultButterflyConfig.ExpirationDays
	}
	if cfg.NumContracts == 0 {
		cfg.NumContracts = DefaultButterflyConfig.NumContracts
	}
	return &ButterflyCalculator{cfg: cfg}
}

func (c *ButterflyCalculator) Calculate(price float64, strikes []float64, now time.Time) (*ButterflyParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	middle, err := NearestStrike(strikes, price)
	if err != nil {
		return nil, err
	}
	lower, err := NearestStrike(strikes, middle-c.cfg.WingWidth)
	if err != nil {
		return nil, err
	}
	upper, err := NearestStrike(strikes, middle+c.cfg.WingWidth)
	if err != nil {
		return nil, err
	}
	if math.Abs((middle-lower)-(upper-middle)) > 1 {
		if l, u, ok := symmetricWings(strikes, middle); ok {
			lower, upper = l, u
		}
	}
	if lower >= middle || upper <= middle {
		return nil, fmt.Errorf("butterfly wings %.2f/%.2f do not straddle middle strike %.2f", lower, upper, middle)
	}
	return &ButterflyParameters{
		LowerStrike:  lower,
		MiddleStrike: middle,
		UpperStrike:  upper,
		Expiration:   ExpirationFromDays(now, c.cfg.ExpirationDays),
		NumContracts: c.cfg.NumContracts,
	}, nil
}

// symmetricWings finds the narrowest strike pair equidistant from middle.
func symmetricWings(strikes []float64, middle float64) (lower, upper float64, ok bool) {
	bestWidth := math.MaxFloat64
	for _, s := range strikes {
		if s >= middle {
			continue
		}
		width := middle - s
		for _, u := range strikes {
			if math.Abs(u-(middle+width)) < 1e-4 && width < bestWidth {
				lower, upper, ok = s, u, true
				bestWidth = width
			}
		}
	}
	return lower, upper, ok
}

// MarriedPutConfig parameterizes the married put calculator.
type MarriedPutConfig struct {
	PutOffsetPercent float64
	PutOffsetDollars float64
	ExpirationDays   int
	SharesToBuy      int
}

// DefaultMarriedPutConfig holds the stock married put settings.
var DefaultMarriedPutConfig = MarriedPutConfig{
	PutOffsetPercent: 5.0,
	ExpirationDays:   30,
	SharesToBuy:      100,
}

// MarriedPutParameters is a fully resolved married put.
type MarriedPutParameters struct {
	PutStrike   float64
	Expiration  time.Time
	SharesToBuy int
}

type MarriedPutCalculator struct {
	cfg MarriedPutConfig
}

func NewMarriedPutCalculator(config ...MarriedPutConfig) *MarriedPutCalculator {
	cfg := DefaultMarriedPutConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.PutOffsetPercent == 0 && cfg.PutOffsetDollars == 0 {
		cfg.PutOffsetPercent = DefaultMarriedPutConfig.PutOffsetPercent
	}
	if cfg.ExpirationDays == 0 {
		cfg.ExpirationDays = DefaultMarriedPutConfig.ExpirationDays
	}
	if cfg.SharesToBuy == 0 {
		cfg.SharesToBuy = DefaultMarriedPutConfig.SharesToBuy
	}
	return &MarriedPutCalculator{cfg: cfg}
}

func (c *MarriedPutCalculator) Calculate(price float64, strikes []float64, now time.Time) (*MarriedPutParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	put, err := NearestStrikeBelow(strikes, targetBelow(price, c.cfg.PutOffsetPercent, c.cfg.PutOffsetDollars))
	if err != nil {
		return nil, err
	}
	return &MarriedPutParameters{
		PutStrike:   put,
		Expiration:  ExpirationFromDays(now, c.cfg.ExpirationDays),
		SharesToBuy: c.cfg.SharesToBuy,
	}, nil
}

// LongStraddleConfig parameterizes the long straddle calculator.
type LongStraddleConfig struct {
	ExpirationDays int
	NumContracts   int
}

// DefaultLongStraddleConfig holds the stock long straddle settings.
var DefaultLongStraddleConfig = LongStraddleConfig{
	ExpirationDays: 30,
	NumContracts:   1,
}

// LongStraddleParameters is a fully resolved long straddle.
type LongStraddleParameters struct {
	Strike       float64
	Expiration   time.Time
	NumContracts int
}

type LongStraddleCalculator struct {
	cfg LongStraddleConfig
}

func NewLongStraddleCalculator(config ...LongStraddleConfig) *LongStraddleCalculator {
	cfg := DefaultLongStraddleConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.ExpirationDays == 0 {
		cfg.ExpirationDays = DefaultLongStraddleConfig.ExpirationDays
	}
	if cfg.NumContracts == 0 {
		cfg.NumContracts = DefaultLongStraddleConfig.NumContracts
	}
	return &LongStraddleCalculator{cfg: cfg}
}

func (c *LongStraddleCalculator) Calculate(price float64, strikes []float64, now time.Time) (*LongStraddleParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	strike, err := NearestStrike(strikes, price)
	if err != nil {
		return nil, err
	}
	return &LongStraddleParameters{
		Strike:       strike,
		Expiration:   ExpirationFromDays(now, c.cfg.ExpirationDays),
		NumContracts: c.cfg.NumContracts,
	}, nil
}

// IronButterflyConfig parameterizes the iron butterfly calculator.
type IronButterflyConfig struct {
	WingWidth      float64
	ExpirationDays int
	NumContracts   int
}

// DefaultIronButterflyConfig holds the stock iron butterfly settings.
var DefaultIronButterflyConfig = IronButterflyConfig{
	WingWidth:      5.0,
	ExpirationDays: 30,
	NumContracts:   1,
}

// IronButterflyParameters is a fully resolved iron butterfly.
type IronButterflyParameters struct {
	LowerStrike  float64
	MiddleStrike float64
	UpperStrike  float64
	Expiration   time.Time
	NumContracts int
}

// IronButterflyCalculator sells the body at the money and buys wings at the
// configured width. Wings that snap onto the middle strike are pushed to the
// closest strike strictly outside it.
type IronButterflyCalculator struct {
	cfg IronButterflyConfig
}

func NewIronButterflyCalculator(config ...IronButterflyConfig) *IronButterflyCalculator {
	cfg := DefaultIronButterflyConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.WingWidth == 0 {
		cfg.WingWidth = DefaultIronButterflyConfig.WingWidth
	}
	if cfg.ExpirationDays == 0 {
		cfg.ExpirationDays = DefaultIronButterflyConfig.ExpirationDays
	}
	if cfg.NumContracts == 0 {
		cfg.NumContracts = DefaultIronButterflyConfig.NumContracts
	}
	return &IronButterflyCalculator{cfg: cfg}
}

func (c *IronButterflyCalculator) Calculate(price float64, strikes []float64, now time.Time) (*IronButterflyParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	middle, err := NearestStrike(strikes, price)
	if err != nil {
		return nil, err
	}
	lower, err := NearestStrike(strikes, middle-c.cfg.WingWidth)
	if err != nil {
		return nil, err
	}
	upper, err := NearestStrike(strikes, middle+c.cfg.WingWidth)
	if err != nil {
		return nil, err
	}
	if lower >= middle {
		lower, err = strictlyBelow(strikes, middle)
		if err != nil {
			return nil, fmt.Errorf("no strikes available below middle strike %.2f", middle)
		}
	}
	if upper <= middle {
		upper, err = strictlyAbove(strikes, middle)
		if err != nil {
			return nil, fmt.Errorf("no strikes available above middle strike %.2f", middle)
		}
	}
	return &IronButterflyParameters{
		LowerStrike:  lower,
		MiddleStrike: middle,
		UpperStrike:  upper,
		Expiration:   ExpirationFromDays(now, c.cfg.ExpirationDays),
		NumContracts: c.cfg.NumContracts,
	}, nil
}

func strictlyBelow(strikes []float64, limit float64) (float64, error) {
	found := false
	best := 0.0
	for _, s := range strikes {
		if s < limit && (!found || s > best) {
			best = s
			found = true
		}
	}
	if !found {
		return 0, &NoStrikeError{Side: snapBelow, Target: limit}
	}
	return best, nil
}

func strictlyAbove(strikes []float64, limit float64) (float64, error) {
	found := false
	best := 0.0
	for _, s := range strikes {
		if s > limit && (!found || s < best) {
			best = s
			found = true
		}
	}
	if !found {
		return 0, &NoStrikeError{Side: snapAbove, Target: limit}
	}
	return best, nil
}

// ShortStrangleConfig parameterizes the short strangle calculator.
type ShortStrangleConfig struct {
	PutOffsetPercent  float64
	CallOffsetPercent float64
	ExpirationDays    int
	NumContracts      int
}

// DefaultShortStrangleConfig holds the stock short strangle settings.
var DefaultShortStrangleConfig = ShortStrangleConfig{
	PutOffsetPercent:  5.0,
	CallOffsetPercent: 5.0,
	ExpirationDays:    30,
	NumContracts:      1,
}

// ShortStrangleParameters is a fully resolved short strangle.
type ShortStrangleParameters struct {
	PutStrike    float64
	CallStrike   float64
	Expiration   time.Time
	NumContracts int
}

type ShortStrangleCalculator struct {
	cfg ShortStrangleConfig
}

func NewShortStrangleCalculator(config ...ShortStrangleConfig) *ShortStrangleCalculator {
	cfg := DefaultShortStrangleConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.PutOffsetPercent == 0 {
		cfg.PutOffsetPercent = DefaultShortStrangleConfig.PutOffsetPercent
	}
	if cfg.CallOffsetPercent == 0 {
		cfg.CallOffsetPercent = DefaultShortStrangleConfig.CallOffsetPercent
	}
	if cfg.ExpirationDays == 0 {
		cfg.ExpirationDays = DefaultShortStrangleConfig.ExpirationDays
	}
	if cfg.NumContracts == 0 {
		cfg.NumContracts = DefaultShortStrangleConfig.NumContracts
	}
	return &ShortStrangleCalculator{cfg: cfg}
}

func (c *ShortStrangleCalculator) Calculate(price float64, strikes []float64, now time.Time) (*ShortStrangleParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	put, err := NearestStrikeBelow(strikes, price*(1-c.cfg.PutOffsetPercent/100))
	if err != nil {
		return nil, err
	}
	call, err := NearestStrikeAbove(strikes, price*(1+c.cfg.CallOffsetPercent/100))
	if err != nil {
		return nil, err
	}
	return &ShortStrangleParameters{
		PutStrike:    put,
		CallStrike:   call,
		Expiration:   ExpirationFromDays(now, c.cfg.ExpirationDays),
		NumContracts: c.cfg.NumContracts,
	}, nil
}

// IronCondorConfig parameterizes the iron condor calculator.
type IronCondorConfig struct {
	PutOffsetPercent  float64
	CallOffsetPercent float64
	WingWidth         float64
	ExpirationDays    int
	NumContracts      int
}

// DefaultIronCondorConfig holds the stock iron condor settings.
var DefaultIronCondorConfig = IronCondorConfig{
	PutOffsetPercent:  3.0,
	CallOffsetPercent: 3.0,
	WingWidth:         5.0,
	ExpirationDays:    30,
	NumContracts:      1,
}

// IronCondorParameters is a fully resolved iron condor.
type IronCondorParameters struct {
	PutLongStrike   float64
	PutShortStrike  float64
	CallShortStrike float64
	CallLongStrike  float64
	Expiration      time.Time
	NumContracts    int
}

type IronCondorCalculator struct {
	cfg IronCondorConfig
}

func NewIronCondorCalculator(config ...IronCondorConfig) *IronCondorCalculator {
	cfg := DefaultIronCondorConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.PutOffsetPercent == 0 {
		cfg.PutOffsetPercent = DefaultIronCondorConfig.PutOffsetPercent
	}
	if cfg.CallOffsetPercent == 0 {
		cfg.CallOffsetPercent = DefaultIronCondorConfig.CallOffsetPercent
	}
	if cfg.WingWidth == 0 {
		cfg.WingWidth = DefaultIronCondorConfig.WingWidth
	}
	if cfg.ExpirationDays == 0 {
		cfg.ExpirationDays = DefaultIronCondorConfig.ExpirationDays
	}
	if cfg.NumContracts == 0 {
		cfg.NumContracts = DefaultIronCondorConfig.NumContracts
	}
	return &IronCondorCalculator{cfg: cfg}
}

func (c *IronCondorCalculator) Calculate(price float64, strikes []float64, now time.Time) (*IronCondorParameters, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	putShort, err := NearestStrikeBelow(strikes, price*(1-c.cfg.PutOffsetPercent/100))
	if err != nil {
		return nil, err
	}
	callShort, err := NearestStrikeAbove(strikes, price*(1+c.cfg.CallOffsetPercent/100))
	if err != nil {
		return nil, err
	}
	putLong, err := NearestStrikeBelow(strikes, putShort-c.cfg.WingWidth)
	if err != nil {
		return nil, err
	}
	callLong, err := NearestStrikeAbove(strikes, callShort+c.cfg.WingWidth)
	if err != nil {
		return nil, err
	}
	if putLong >= putShort {
		return nil, fmt.Errorf("put long strike must be below put short strike")
	}
	if callLong <= callShort {
		return nil, fmt.Errorf("call long strike must be above call short strike")
	}
	return &IronCondorParameters{
		PutLongStrike:   putLong,
		PutShortStrike:  putShort,
		CallShortStrike: callShort,
		CallLongStrike:  callLong,
		Expiration:      ExpirationFromDays(now, c.cfg.ExpirationDays),
		NumContracts:    c.cfg.NumContracts,
	}, nil
}

// The Expiration methods expose the expiration a calculator will resolve,
// so callers can fetch the matching option chain before strike resolution.

func (c *CollarCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromDays(now, c.cfg.ExpirationDays)
}

func (c *CoveredCallCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromDays(now, c.cfg.ExpirationDays)
}

func (c *WheelCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromDays(now, c.cfg.ExpirationDays)
}

func (c *ButterflyCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromDays(now, c.cfg.ExpirationDays)
}

func (c *MarriedPutCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromDays(now, c.cfg.ExpirationDays)
}

func (c *LongStraddleCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromDays(now, c.cfg.ExpirationDays)
}

func (c *IronButterflyCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromDays(now, c.cfg.ExpirationDays)
}

func (c *ShortStrangleCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromDays(now, c.cfg.ExpirationDays)
}

func (c *IronCondorCalculator) Expiration(now time.Time) time.Time {
	return ExpirationFromDays(now, c.cfg.ExpirationDays)
}
