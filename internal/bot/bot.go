// Package bot orchestrates trading cycles: it validates symbols, routes
// each one through the configured strategy, and folds the outcomes into a
// cycle summary. A failure on one symbol never stops the batch.
package bot

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/eddiefleurent/optioneer/internal/broker"
	"github.com/eddiefleurent/optioneer/internal/config"
	"github.com/eddiefleurent/optioneer/internal/models"
	"github.com/eddiefleurent/optioneer/internal/orders"
	"github.com/eddiefleurent/optioneer/internal/strategy"
)

// ErrNotInitialized is returned when a cycle runs before Initialize.
var ErrNotInitialized = errors.New("trading bot not initialized, call Initialize first")

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// UnexpectedError marks a failure that escaped a symbol processor, either a
// returned error or a recovered panic.
type UnexpectedError struct {
	Kind string
	Err  error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("Unexpected error: %s: %v", e.Kind, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// Bot runs trading cycles for a fixed symbol list and strategy kind.
type Bot struct {
	cfg    *config.Config
	broker broker.Broker
	orders *orders.Manager
	logger *log.Logger

	kind        strategy.Kind
	initialized bool
	now         func() time.Time

	spreadCalc         *strategy.SpreadCalculator
	collarCalc         *strategy.CollarCalculator
	coveredCallCalc    *strategy.CoveredCallCalculator
	wheelCalc          *strategy.WheelCalculator
	ladderedCalc       *strategy.LadderedCallCalculator
	doubleCalendarCalc *strategy.DoubleCalendarCalculator
	butterflyCalc      *strategy.ButterflyCalculator
	marriedPutCalc     *strategy.MarriedPutCalculator
	longStraddleCalc   *strategy.LongStraddleCalculator
	ironButterflyCalc  *strategy.IronButterflyCalculator
	shortStrangleCalc  *strategy.ShortStrangleCalculator
	ironCondorCalc     *strategy.IronCondorCalculator
}

// New builds a bot from configuration. A nil logger falls back to the
// default logger.
func New(cfg *config.Config, b broker.Broker, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.Default()
	}
	mgr := orders.NewManager(b, logger, orders.Config{
		MaxRetries: cfg.Broker.MaxRetries,
		DryRun:     cfg.Strategy.DryRun,
	})
	s := &cfg.Strategy
	return &Bot{
		cfg:    cfg,
		broker: b,
		orders: mgr,
		logger: logger,
		kind:   s.StrategyKind(),
		now:    time.Now,

		spreadCalc:         strategy.NewSpreadCalculator(s.SpreadCalcConfig()),
		collarCalc:         strategy.NewCollarCalculator(s.CollarCalcConfig()),
		coveredCallCalc:    strategy.NewCoveredCallCalculator(s.CoveredCallCalcConfig()),
		wheelCalc:          strategy.NewWheelCalculator(s.WheelCalcConfig()),
		ladderedCalc:       strategy.NewLadderedCallCalculator(s.LadderedCallCalcConfig()),
		doubleCalendarCalc: strategy.NewDoubleCalendarCalculator(s.DoubleCalendarCalcConfig()),
		butterflyCalc:      strategy.NewButterflyCalculator(s.ButterflyCalcConfig()),
		marriedPutCalc:     strategy.NewMarriedPutCalculator(s.MarriedPutCalcConfig()),
		longStraddleCalc:   strategy.NewLongStraddleCalculator(s.LongStraddleCalcConfig()),
		ironButterflyCalc:  strategy.NewIronButterflyCalculator(s.IronButterflyCalcConfig()),
		shortStrangleCalc:  strategy.NewShortStrangleCalculator(s.ShortStrangleCalcConfig()),
		ironCondorCalc:     strategy.NewIronCondorCalculator(s.IronCondorCalcConfig()),
	}
}

// Initialize prepares the bot for trading cycles. It must be called once
// before ExecuteCycle.
func (b *Bot) Initialize() error {
	if b.broker == nil {
		return errors.New("broker is required")
	}
	b.logger.Printf("Trading bot initialized: strategy=%s symbols=%s dry_run=%t",
		b.kind.Name(), strings.Join(b.cfg.Strategy.Symbols, ","), b.cfg.Strategy.DryRun)
	b.initialized = true
	return nil
}

// ExecuteCycle processes every configured symbol through the configured
// strategy and returns the cycle summary.
func (b *Bot) ExecuteCycle() (*models.ExecutionSummary, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	startedAt := b.now()
	symbols := b.cfg.Strategy.Symbols
	b.logger.Printf("Starting trading cycle: %s on %d symbols", b.kind.Name(), len(symbols))

	b.checkMarket()

	valid := b.validSymbols(symbols)
	if len(valid) == 0 {
		b.logger.Printf("Warning: no valid symbols to process")
		summary := models.NewExecutionSummary(len(symbols), nil)
		// Nothing was processed, so every requested symbol counts as failed.
		summary.Failed = len(symbols)
		summary.StartedAt = startedAt
		summary.FinishedAt = b.now()
		return summary, nil
	}

	var results []models.TradeResult
	for _, symbol := range valid {
		results = append(results, b.processSymbol(symbol)...)
	}

	summary := models.NewExecutionSummary(len(symbols), results)
	summary.StartedAt = startedAt
	summary.FinishedAt = b.now()
	summary.LogReport(b.logger)
	return summary, nil
}

// checkMarket logs market state without blocking the cycle.
func (b *Bot) checkMarket() {
	open, err := b.broker.IsMarketOpen()
	switch {
	case err != nil:
		b.logger.Printf("Warning: could not check market status: %v (proceeding anyway)", err)
	case open:
		b.logger.Printf("Market is open, orders will be executed immediately")
	default:
		b.logger.Printf("Warning: market is closed, orders may be queued")
	}
}

// validSymbols filters the symbol list. A symbol must match the ticker
// format and, outside dry-run mode, quote a positive price. A failed price
// lookup is tolerated so a flaky quote feed does not drop symbols.
func (b *Bot) validSymbols(symbols []string) []string {
	valid := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if !symbolPattern.MatchString(symbol) {
			b.logger.Printf("Skipping invalid symbol %q", symbol)
			continue
		}
		if !b.cfg.Strategy.DryRun {
			price, err := b.broker.GetCurrentPrice(symbol)
			if err != nil {
				b.logger.Printf("Warning: could not verify price for %s: %v (accepting symbol)", symbol, err)
			} else if price <= 0 {
				b.logger.Printf("Skipping %s: non-positive price %.2f", symbol, price)
				continue
			}
		}
		valid = append(valid, symbol)
	}
	return valid
}

// processSymbol runs one symbol through the strategy, converting panics and
// stray errors into failed trade results so the batch keeps going.
func (b *Bot) processSymbol(symbol string) (results []models.TradeResult) {
	defer func() {
		if r := recover(); r != nil {
			uerr := &UnexpectedError{Kind: recoveredKind(r), Err: recoveredErr(r)}
			b.logger.Printf("ERROR: %s: %v", symbol, uerr)
			results = []models.TradeResult{b.failedResult(symbol, uerr.Error())}
		}
	}()

	results, err := b.dispatch(symbol)
	if err != nil {
		uerr := &UnexpectedError{Kind: errorKind(err), Err: err}
		b.logger.Printf("ERROR: %s: %v", symbol, uerr)
		return []models.TradeResult{b.failedResult(symbol, uerr.Error())}
	}
	return results
}

func (b *Bot) dispatch(symbol string) ([]models.TradeResult, error) {
	switch b.kind {
	case strategy.KindPutCreditSpread:
		return b.processSpread(symbol)
	case strategy.KindCollar:
		return b.processCollar(symbol)
	case strategy.KindCoveredCall:
		return b.processCoveredCall(symbol)
	case strategy.KindWheel:
		return b.processWheel(symbol)
	case strategy.KindLadderedCoveredCall:
		return b.processLadderedCalls(symbol)
	case strategy.KindDoubleCalendar:
		return b.processDoubleCalendar(symbol)
	case strategy.KindButterfly:
		return b.processButterfly(symbol)
	case strategy.KindMarriedPut:
		return b.processMarriedPut(symbol)
	case strategy.KindLongStraddle:
		return b.processLongStraddle(symbol)
	case strategy.KindIronButterfly:
		return b.processIronButterfly(symbol)
	case strategy.KindShortStrangle:
		return b.processShortStrangle(symbol)
	case strategy.KindIronCondor:
		return b.processIronCondor(symbol)
	default:
		return nil, fmt.Errorf("unsupported strategy kind %q", b.kind)
	}
}

func (b *Bot) failedResult(symbol, errMsg string) models.TradeResult {
	now := b.now()
	return models.TradeResult{
		Symbol:       symbol,
		Success:      false,
		Expiration:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		ErrorMessage: errMsg,
		Timestamp:    now,
	}
}

func recoveredKind(r any) string {
	if err, ok := r.(error); ok {
		return errorKind(err)
	}
	return "panic"
}

func recoveredErr(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// errorKind names an error type the way a human would read it, without the
// pointer star or package path.
func errorKind(err error) string {
	t := fmt.Sprintf("%T", err)
	t = strings.TrimPrefix(t, "*")
	if i := strings.LastIndex(t, "."); i >= 0 {
		t = t[i+1:]
	}
	return t
}
